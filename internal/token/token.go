package token

import (
	"lumen/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string // сырой лексем
	Value string // для StringLit/CharLit - содержимое без кавычек и escape
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// Is reports whether the token is a Punct run equal to op.
func (t Token) Is(op string) bool {
	return t.Kind == Punct && t.Text == op
}
