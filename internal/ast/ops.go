package ast

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOpText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpRem: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsComparison reports operators that produce bool from two operands of one type.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports && and ||.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpRef
	OpRefMut
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpRef:
		return "&"
	case OpRefMut:
		return "&mut "
	}
	return "?"
}
