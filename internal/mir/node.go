package mir

import (
	"lumen/internal/ast"
	"lumen/internal/source"
)

// NodeKind enumerates MIR node kinds. Statements and expressions share one
// node type; Type is Void for statements.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeBlock
	NodeDeclare
	NodeAssign
	NodeReturn
	NodeCall
	NodeIf
	NodeLiteral
	NodeLocal
	NodeGlobal
	NodeBinary
	NodeUnary
	NodeAddressOf
)

var nodeKindNames = [...]string{
	NodeInvalid:   "Invalid",
	NodeBlock:     "Block",
	NodeDeclare:   "DeclareVariable",
	NodeAssign:    "Assign",
	NodeReturn:    "Return",
	NodeCall:      "Call",
	NodeIf:        "If",
	NodeLiteral:   "Literal",
	NodeLocal:     "Local",
	NodeGlobal:    "Global",
	NodeBinary:    "Binary",
	NodeUnary:     "Unary",
	NodeAddressOf: "AddressOf",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsExpr reports kinds that produce a value.
func (k NodeKind) IsExpr() bool {
	return k >= NodeCall && k != NodeIf
}

// Node is a tagged union: exactly the payload matching Kind is set.
type Node struct {
	Kind NodeKind    `msgpack:"k"`
	Type Type        `msgpack:"t"`
	Span source.Span `msgpack:"s"`

	Block     *Block     `msgpack:"block,omitempty"`
	Declare   *Declare   `msgpack:"decl,omitempty"`
	Assign    *Assign    `msgpack:"assign,omitempty"`
	Return    *Return    `msgpack:"ret,omitempty"`
	Call      *Call      `msgpack:"call,omitempty"`
	If        *If        `msgpack:"if,omitempty"`
	Literal   *Literal   `msgpack:"lit,omitempty"`
	Local     *LocalRef  `msgpack:"local,omitempty"`
	Global    *GlobalRef `msgpack:"global,omitempty"`
	Binary    *Binary    `msgpack:"bin,omitempty"`
	Unary     *Unary     `msgpack:"un,omitempty"`
	AddressOf *AddressOf `msgpack:"addr,omitempty"`
}

type Block struct {
	Nodes []*Node `msgpack:"nodes"`
}

type Declare struct {
	Local LocalID `msgpack:"local"`
	Name  string  `msgpack:"name"`
	Value *Node   `msgpack:"value"`
}

type Assign struct {
	Local LocalID `msgpack:"local"`
	Name  string  `msgpack:"name"`
	Value *Node   `msgpack:"value"`
}

type Return struct {
	Value *Node `msgpack:"value,omitempty"` // nil - Return(None)
}

type Call struct {
	Symbol string  `msgpack:"sym"`
	Args   []*Node `msgpack:"args"`
}

type If struct {
	Cond *Node `msgpack:"cond"`
	Then *Node `msgpack:"then"`
	Else *Node `msgpack:"else,omitempty"`
}

// LitKind enumerates literal encodings.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitBool
	LitChar  // Value - десятичный код символа
	LitFloat // Text - десятичная запись; тип Bytes(4|8)
	LitString
)

type Literal struct {
	Kind  LitKind `msgpack:"kind"`
	Text  string  `msgpack:"text"`
	Value string  `msgpack:"value,omitempty"` // байты строки
}

type LocalRef struct {
	Local LocalID `msgpack:"local"`
	Name  string  `msgpack:"name"`
}

type GlobalRef struct {
	Symbol string `msgpack:"sym"`
}

// Binary carries Signed so the backend can pick signed or unsigned
// division and ordering.
type Binary struct {
	Op     ast.BinaryOp `msgpack:"op"`
	Signed bool         `msgpack:"signed,omitempty"`
	Left   *Node        `msgpack:"l"`
	Right  *Node        `msgpack:"r"`
}

type Unary struct {
	Op      ast.UnaryOp `msgpack:"op"`
	Operand *Node       `msgpack:"x"`
}

// AddressOf takes the address of a Local or Global; the result is Bytes(ptr).
type AddressOf struct {
	Mutable bool  `msgpack:"mut,omitempty"`
	Operand *Node `msgpack:"x"`
}

// Terminates reports whether control never falls off the end of n.
func (n *Node) Terminates() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case NodeReturn:
		return true
	case NodeBlock:
		for _, st := range n.Block.Nodes {
			if st.Terminates() {
				return true
			}
		}
	case NodeIf:
		return n.If.Else != nil && n.If.Then.Terminates() && n.If.Else.Terminates()
	}
	return false
}
