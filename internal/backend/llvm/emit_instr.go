package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"lumen/internal/ast"
	"lumen/internal/mir"
)

func (fe *funcEmitter) binary(n *mir.Node) value.Value {
	b := n.Binary
	if b.Op.IsLogical() {
		return fe.logical(b)
	}
	x := fe.expr(b.Left)
	y := fe.expr(b.Right)
	cur := fe.cur
	switch b.Op {
	case ast.OpAdd:
		return fe.name(cur.NewAdd(x, y))
	case ast.OpSub:
		return fe.name(cur.NewSub(x, y))
	case ast.OpMul:
		return fe.name(cur.NewMul(x, y))
	case ast.OpDiv:
		if b.Signed {
			return fe.name(cur.NewSDiv(x, y))
		}
		return fe.name(cur.NewUDiv(x, y))
	case ast.OpRem:
		if b.Signed {
			return fe.name(cur.NewSRem(x, y))
		}
		return fe.name(cur.NewURem(x, y))
	}
	return fe.name(cur.NewICmp(icmpPred(b.Op, b.Signed), x, y))
}

func icmpPred(op ast.BinaryOp, signed bool) enum.IPred {
	switch op {
	case ast.OpEq:
		return enum.IPredEQ
	case ast.OpNe:
		return enum.IPredNE
	case ast.OpLt:
		if signed {
			return enum.IPredSLT
		}
		return enum.IPredULT
	case ast.OpLe:
		if signed {
			return enum.IPredSLE
		}
		return enum.IPredULE
	case ast.OpGt:
		if signed {
			return enum.IPredSGT
		}
		return enum.IPredUGT
	case ast.OpGe:
		if signed {
			return enum.IPredSGE
		}
		return enum.IPredUGE
	}
	panic("internal compiler error: no comparison for " + op.String())
}

// logical evaluates && and || with short circuit.
func (fe *funcEmitter) logical(b *mir.Binary) value.Value {
	x := fe.expr(b.Left)
	leftEnd := fe.cur
	rhs := fe.block()
	merge := fe.block()
	short := b.Op == ast.OpOr
	if short {
		leftEnd.NewCondBr(x, merge, rhs)
	} else {
		leftEnd.NewCondBr(x, rhs, merge)
	}
	fe.cur = rhs
	y := fe.expr(b.Right)
	rightEnd := fe.cur
	rightEnd.NewBr(merge)
	fe.cur = merge
	return fe.name(merge.NewPhi(
		ir.NewIncoming(constant.NewBool(short), leftEnd),
		ir.NewIncoming(y, rightEnd),
	))
}

func (fe *funcEmitter) unary(n *mir.Node) value.Value {
	x := fe.expr(n.Unary.Operand)
	switch n.Unary.Op {
	case ast.OpNeg:
		return fe.name(fe.cur.NewSub(constant.NewInt(intType(n.Type), 0), x))
	case ast.OpNot:
		return fe.name(fe.cur.NewXor(x, constant.True))
	}
	panic("internal compiler error: unary " + n.Unary.Op.String())
}
