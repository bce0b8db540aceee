package ast

import (
	"lumen/internal/modpath"
	"lumen/internal/source"
)

type TypeKind uint8

const (
	TypeNamed TypeKind = iota
	TypeRef
)

// TypeExpr is a syntactic type: a (possibly qualified) name or `&[mut] T`.
type TypeExpr struct {
	Kind    TypeKind
	Span    source.Span
	Name    modpath.Path
	Mutable bool
	Elem    *TypeExpr
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TypeRef:
		if t.Mutable {
			return "&mut " + t.Elem.String()
		}
		return "&" + t.Elem.String()
	default:
		return t.Name.String()
	}
}
