package mir

import "lumen/internal/source"

// LocalID indexes Func.Locals; parameters come first.
type LocalID uint32

// Program is the lowered module collection. Modules are ordered by
// normalized path; Entry names the module that defines the program entry.
type Program struct {
	Modules []*Module `msgpack:"modules"`
	Entry   string    `msgpack:"entry,omitempty"`
}

// Module returns the module with the given key.
func (p *Program) Module(key string) *Module {
	for _, m := range p.Modules {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Funcs indexes every function by absolute symbol.
func (p *Program) Funcs() map[string]*Func {
	out := make(map[string]*Func)
	for _, m := range p.Modules {
		for _, f := range m.Funcs {
			out[f.Symbol] = f
		}
	}
	return out
}

type Module struct {
	Key      string    `msgpack:"key"`
	Segments []string  `msgpack:"segs"`
	Std      bool      `msgpack:"std,omitempty"`
	Imports  []string  `msgpack:"imports,omitempty"`
	Globals  []*Global `msgpack:"globals,omitempty"`
	Funcs    []*Func   `msgpack:"funcs"`
}

// Global is a module-level value with a literal initializer.
type Global struct {
	Name    string   `msgpack:"name"`
	Symbol  string   `msgpack:"sym"`
	Type    Type     `msgpack:"type"`
	Mutable bool     `msgpack:"mut,omitempty"`
	Value   *Literal `msgpack:"value"`
}

// Param is a function parameter. Pointer marks pass-by-reference; Indirect
// marks an opaque value passed through a caller-owned slot.
type Param struct {
	Name     string      `msgpack:"name"`
	Local    LocalID     `msgpack:"local"`
	Type     Type        `msgpack:"type"`
	Pointer  bool        `msgpack:"ptr,omitempty"`
	Indirect bool        `msgpack:"ind,omitempty"`
	Span     source.Span `msgpack:"span"`
}

type Local struct {
	Name string `msgpack:"name"`
	Type Type   `msgpack:"type"`
}

type Func struct {
	Name     string      `msgpack:"name"`
	Symbol   string      `msgpack:"sym"`
	Span     source.Span `msgpack:"span"`
	Params   []Param     `msgpack:"params"`
	Result   Type        `msgpack:"result"`
	Extern   bool        `msgpack:"extern,omitempty"`
	LinkName string      `msgpack:"link,omitempty"`
	Locals   []Local     `msgpack:"locals,omitempty"`
	Body     *Node       `msgpack:"body,omitempty"` // Block; nil у extern
}

func (f *Func) HasBody() bool { return f.Body != nil }
