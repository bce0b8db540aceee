package hir

import (
	"lumen/internal/source"
	"lumen/internal/types"
)

// Param represents a function parameter.
type Param struct {
	Name    string
	Local   LocalID
	Type    types.TypeID
	Mutable bool
	Span    source.Span
}

// Local is a function-local binding. Parameters come first.
type Local struct {
	Name    string
	Type    types.TypeID
	Mutable bool
	Param   bool
	Span    source.Span
}

// Func represents an HIR function.
type Func struct {
	Name     string
	Symbol   string // абсолютное имя: src::main::add
	Span     source.Span
	NameSpan source.Span
	Params   []Param
	Result   types.TypeID // Void для функций без `->`
	Extern   bool
	LinkName string // для extern: имя символа в нативном рантайме
	Body     *Block // nil у extern
	Locals   []Local
}

// HasBody returns true if this function has a body.
func (f *Func) HasBody() bool {
	return f.Body != nil
}

// Local returns the local slot for id.
func (f *Func) Local(id LocalID) *Local {
	if int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}
