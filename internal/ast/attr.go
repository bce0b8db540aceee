package ast

import "lumen/internal/source"

// Attr is `#[name]` or `#[name(arg, ...)]` attached to the following declaration.
type Attr struct {
	Name string
	Args []Literal
	Span source.Span
}

// FindAttr returns the first attribute with the given name.
func FindAttr(attrs []Attr, name string) (Attr, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}
