package ast

import (
	"slices"

	"lumen/internal/modpath"
	"lumen/internal/source"
)

type Import struct {
	Path modpath.Path
	Span source.Span
}

// Module is one parsed source file.
type Module struct {
	Path    modpath.Path
	File    source.FileID
	Imports []Import // в порядке исходника
	Body    []*Node  // в порядке исходника
	Broken  bool     // при разборе были ошибки
}

// Collection maps normalized logical paths to modules.
type Collection struct {
	modules map[string]*Module
}

func NewCollection() *Collection {
	return &Collection{modules: make(map[string]*Module)}
}

// Insert stores m under its normalized path. Returns false if the key is taken.
func (c *Collection) Insert(m *Module) bool {
	m.Path = m.Path.Normalize()
	key := m.Path.String()
	if _, ok := c.modules[key]; ok {
		return false
	}
	c.modules[key] = m
	return true
}

func (c *Collection) Get(p modpath.Path) (*Module, bool) {
	m, ok := c.modules[p.Key()]
	return m, ok
}

func (c *Collection) Has(p modpath.Path) bool {
	_, ok := c.modules[p.Key()]
	return ok
}

func (c *Collection) Len() int {
	return len(c.modules)
}

// Keys returns the module keys in sorted order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.modules))
	for k := range c.modules {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Modules returns modules ordered by normalized path.
func (c *Collection) Modules() []*Module {
	out := make([]*Module, 0, len(c.modules))
	for _, k := range c.Keys() {
		out = append(out, c.modules[k])
	}
	return out
}
