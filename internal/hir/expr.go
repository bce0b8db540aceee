package hir

import (
	"lumen/internal/ast"
	"lumen/internal/source"
	"lumen/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, string, char, bool).
	ExprLiteral ExprKind = iota
	// ExprLocal reads a local or parameter.
	ExprLocal
	// ExprGlobal reads a module global.
	ExprGlobal
	// ExprCall represents a call by absolute symbol.
	ExprCall
	// ExprBinary represents binary operators (+, -, *, /, ==, &&, ...).
	ExprBinary
	// ExprUnary represents `-` and `!`.
	ExprUnary
	// ExprAddressOf represents `&x` and `&mut x`.
	ExprAddressOf
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprLocal:
		return "Local"
	case ExprGlobal:
		return "Global"
	case ExprCall:
		return "Call"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprAddressOf:
		return "AddressOf"
	default:
		return "Unknown"
	}
}

// Expr represents an HIR expression.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind  ast.LitKind
	Text  string // для чисел: десятичная запись, возможно с `-`
	Value string // для строк и символов: раскрытое значение
}

// LocalData holds data for ExprLocal.
type LocalData struct {
	Local LocalID
	Name  string
}

// GlobalData holds data for ExprGlobal.
type GlobalData struct {
	Symbol string
	Name   string
}

// CallData holds data for ExprCall.
type CallData struct {
	Symbol string
	Args   []*Expr
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    ast.BinaryOp
	Left  *Expr
	Right *Expr
}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      ast.UnaryOp
	Operand *Expr
}

// AddressOfData holds data for ExprAddressOf. Operand is ExprLocal or ExprGlobal.
type AddressOfData struct {
	Mutable bool
	Operand *Expr
}

func (*LiteralData) exprData()   {}
func (*LocalData) exprData()     {}
func (*GlobalData) exprData()    {}
func (*CallData) exprData()      {}
func (*BinaryData) exprData()    {}
func (*UnaryData) exprData()     {}
func (*AddressOfData) exprData() {}
