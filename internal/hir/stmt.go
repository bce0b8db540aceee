package hir

import (
	"lumen/internal/source"
	"lumen/internal/types"
)

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtDeclare is `let [mut] x: T = value`.
	StmtDeclare StmtKind = iota
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtAssign represents assignment to a local (lhs = rhs).
	StmtAssign
	// StmtReturn represents return statement.
	StmtReturn
	// StmtIf represents if/else statement; else-if is a nested If in Else.
	StmtIf
	// StmtBlock represents a nested block.
	StmtBlock
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtDeclare:
		return "DeclareVariable"
	case StmtExpr:
		return "Expr"
	case StmtAssign:
		return "Assign"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// DeclareData holds data for StmtDeclare.
type DeclareData struct {
	Local LocalID
	Name  string
	Type  types.TypeID
	Value *Expr
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Local      LocalID
	Name       string
	TargetSpan source.Span
	Value      *Expr
}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for `return;`
}

// IfData holds data for StmtIf.
type IfData struct {
	Cond *Expr
	Then *Block
	Else *Block // nil if no else
}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Block *Block
}

func (*DeclareData) stmtData()  {}
func (*ExprStmtData) stmtData() {}
func (*AssignData) stmtData()   {}
func (*ReturnData) stmtData()   {}
func (*IfData) stmtData()       {}
func (*BlockData) stmtData()    {}

// Block represents a sequence of statements.
type Block struct {
	Stmts []*Stmt
	Span  source.Span
}

// Terminates reports whether control can not fall off the end of b:
// some statement is a return, an if whose both branches terminate, or a
// nested block that terminates.
func (b *Block) Terminates() bool {
	if b == nil {
		return false
	}
	for _, st := range b.Stmts {
		if st.Terminates() {
			return true
		}
	}
	return false
}

// Terminates reports whether st never completes normally.
func (st *Stmt) Terminates() bool {
	switch data := st.Data.(type) {
	case *ReturnData:
		return true
	case *IfData:
		return data.Else != nil && data.Then.Terminates() && data.Else.Terminates()
	case *BlockData:
		return data.Block.Terminates()
	}
	return false
}
