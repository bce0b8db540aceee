package ast

import (
	"lumen/internal/modpath"
	"lumen/internal/source"
)

// NodeKind is the discriminant of Node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeBlock
	NodeDeclare
	NodeCall
	NodeReturn
	NodeFunction
	NodeIdent
	NodeLiteral
	NodeAssign
	NodeIf
	NodeStruct
	NodeBinary
	NodeUnary
)

var nodeKindNames = [...]string{
	NodeInvalid:  "Invalid",
	NodeBlock:    "Block",
	NodeDeclare:  "Declare",
	NodeCall:     "Call",
	NodeReturn:   "Return",
	NodeFunction: "Function",
	NodeIdent:    "Ident",
	NodeLiteral:  "Literal",
	NodeAssign:   "Assign",
	NodeIf:       "If",
	NodeStruct:   "Struct",
	NodeBinary:   "Binary",
	NodeUnary:    "Unary",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node - тегированное объединение: Kind выбирает единственное заполненное поле-payload.
// NodeInvalid помечает место синтаксической ошибки, о которой уже сообщено.
type Node struct {
	Kind  NodeKind
	Span  source.Span
	Attrs []Attr // только у объявлений

	Block    *Block
	Declare  *Declare
	Call     *Call
	Return   *Return
	Function *Function
	Ident    *Ident
	Literal  *Literal
	Assign   *Assign
	If       *If
	Struct   *Struct
	Binary   *Binary
	Unary    *Unary
}

type Block struct {
	Stmts []*Node
}

// Declare is `let [mut] name [: type] = value`.
type Declare struct {
	Mutable  bool
	Name     string
	NameSpan source.Span
	Type     *TypeExpr // nil - вывести из значения
	Value    *Node
}

type Call struct {
	Callee     modpath.Path
	CalleeSpan source.Span
	Args       []*Node
}

type Return struct {
	Value *Node // nil для `return;`
}

type Param struct {
	Mutable  bool
	Name     string
	NameSpan source.Span
	Type     *TypeExpr
	Span     source.Span
}

type Function struct {
	Name       string
	NameSpan   source.Span
	Params     []Param
	ReturnType *TypeExpr // nil - void
	Body       *Node     // nil у `#[extern] fn f();`
}

type Ident struct {
	Path modpath.Path // `x` или `io::stdout`
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	case LitChar:
		return "char"
	case LitBool:
		return "bool"
	}
	return "?"
}

type Literal struct {
	Kind  LitKind
	Text  string // лексем как в исходнике
	Value string // без кавычек и escape
}

type Assign struct {
	Target *Node
	Value  *Node
}

type If struct {
	Cond *Node
	Then *Node // Block
	Else *Node // Block, If или nil
}

type Field struct {
	Name     string
	NameSpan source.Span
	Type     *TypeExpr
}

type Struct struct {
	Name     string
	NameSpan source.Span
	Fields   []Field
}

type Binary struct {
	Op    BinaryOp
	OpPos source.Span
	Left  *Node
	Right *Node
}

type Unary struct {
	Op      UnaryOp
	Operand *Node
}

// Name returns the declared name of an item, "" for other nodes.
func (n *Node) Name() (string, source.Span) {
	switch n.Kind {
	case NodeFunction:
		return n.Function.Name, n.Function.NameSpan
	case NodeStruct:
		return n.Struct.Name, n.Struct.NameSpan
	case NodeDeclare:
		return n.Declare.Name, n.Declare.NameSpan
	}
	return "", n.Span
}
