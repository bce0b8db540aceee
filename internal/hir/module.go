package hir

import (
	"lumen/internal/modpath"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Program is the HLIR module collection produced by the analyzer.
type Program struct {
	Modules []*Module // по нормализованному пути
	Types   *types.Interner
}

// Module finds a module by its normalized key.
func (p *Program) Module(key string) *Module {
	for _, m := range p.Modules {
		if m.Path.Key() == key {
			return m
		}
	}
	return nil
}

// Funcs indexes every function of the program by absolute symbol.
func (p *Program) Funcs() map[string]*Func {
	out := make(map[string]*Func)
	for _, m := range p.Modules {
		for _, f := range m.Funcs {
			out[f.Symbol] = f
		}
	}
	return out
}

// Module represents an HIR module (corresponding to a source file).
type Module struct {
	Path    modpath.Path
	File    source.FileID
	Std     bool
	Imports []string     // ключи модулей в порядке исходника
	Structs []StructDecl // в порядке объявления
	Globals []*Global    // в порядке объявления
	Funcs   []*Func      // в порядке объявления
}

// StructDecl represents a struct declaration in HIR.
// The field list lives in the type interner.
type StructDecl struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Global is a top-level let binding. Value is always a literal.
type Global struct {
	Name    string
	Symbol  string
	Type    types.TypeID
	Mutable bool
	Value   *Expr
	Span    source.Span
}

// FindFunc finds a function by name, returns nil if not found.
func (m *Module) FindFunc(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Symbol renders the absolute name of an item declared in module.
func Symbol(module modpath.Path, name string) string {
	return module.Key() + modpath.Sep + name
}
