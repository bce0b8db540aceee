package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"lumen/internal/mir"
)

type funcEmitter struct {
	e     *Emitter
	f     *mir.Func
	fn    *ir.Func
	entry *ir.Block
	cur   *ir.Block // nil - текущая точка недостижима
	slots []*ir.InstAlloca
}

type namedValue interface {
	SetName(name string)
}

func (e *Emitter) emitFunc(f *mir.Func) error {
	fe := &funcEmitter{e: e, f: f, fn: e.function(f.Symbol)}
	fe.entry = fe.block()
	fe.cur = fe.entry

	// все локальные слоты живут во входном блоке
	fe.slots = make([]*ir.InstAlloca, len(f.Locals))
	for i, l := range f.Locals {
		fe.slots[i] = fe.entry.NewAlloca(llvmType(l.Type))
		fe.name(fe.slots[i])
	}
	for i, p := range f.Params {
		if int(p.Local) >= len(fe.slots) {
			return fmt.Errorf("parameter %s has no slot", p.Name)
		}
		var v value.Value = fe.fn.Params[i]
		if p.Pointer {
			v = fe.name(fe.entry.NewPtrToInt(v, llvmType(p.Type)))
		}
		fe.entry.NewStore(v, fe.slots[p.Local])
	}

	fe.stmt(f.Body)
	if fe.cur != nil {
		if !f.Result.IsVoid() {
			return fmt.Errorf("control reaches the end of a function returning %s", f.Result)
		}
		fe.cur.NewRet(nil)
	}
	return nil
}

func (fe *funcEmitter) block() *ir.Block {
	return fe.fn.NewBlock(fe.e.names.FreshName())
}

func (fe *funcEmitter) name(v namedValue) value.Value {
	v.SetName(fe.e.names.FreshName())
	val, ok := v.(value.Value)
	if !ok {
		panic("internal compiler error: named non-value")
	}
	return val
}

func (fe *funcEmitter) stmt(n *mir.Node) {
	if fe.cur == nil {
		return
	}
	switch n.Kind {
	case mir.NodeBlock:
		for _, st := range n.Block.Nodes {
			fe.stmt(st)
		}
	case mir.NodeDeclare:
		v := fe.expr(n.Declare.Value)
		fe.cur.NewStore(v, fe.slots[n.Declare.Local])
	case mir.NodeAssign:
		v := fe.expr(n.Assign.Value)
		fe.cur.NewStore(v, fe.slots[n.Assign.Local])
	case mir.NodeReturn:
		if n.Return.Value == nil {
			fe.cur.NewRet(nil)
		} else {
			fe.cur.NewRet(fe.expr(n.Return.Value))
		}
		fe.cur = nil
	case mir.NodeIf:
		fe.ifStmt(n.If)
	default:
		fe.expr(n)
	}
}

func (fe *funcEmitter) ifStmt(n *mir.If) {
	cond := fe.expr(n.Cond)
	thenB := fe.block()
	var elseB, merge *ir.Block
	if n.Else != nil {
		elseB = fe.block()
	} else {
		merge = fe.block()
		elseB = merge
	}
	fe.cur.NewCondBr(cond, thenB, elseB)

	fe.cur = thenB
	fe.stmt(n.Then)
	thenEnd := fe.cur

	var elseEnd *ir.Block
	if n.Else != nil {
		fe.cur = elseB
		fe.stmt(n.Else)
		elseEnd = fe.cur
		if thenEnd == nil && elseEnd == nil {
			fe.cur = nil
			return
		}
		merge = fe.block()
	}
	if thenEnd != nil {
		thenEnd.NewBr(merge)
	}
	if elseEnd != nil {
		elseEnd.NewBr(merge)
	}
	fe.cur = merge
}

func (fe *funcEmitter) slotOf(operand *mir.Node) value.Value {
	switch operand.Kind {
	case mir.NodeLocal:
		return fe.slots[operand.Local.Local]
	case mir.NodeGlobal:
		return fe.e.global(operand.Global.Symbol)
	}
	panic("internal compiler error: address of " + operand.Kind.String())
}

func (fe *funcEmitter) expr(n *mir.Node) value.Value {
	switch n.Kind {
	case mir.NodeLiteral:
		return fe.e.literal(n.Literal, n.Type)
	case mir.NodeLocal, mir.NodeGlobal:
		return fe.name(fe.cur.NewLoad(llvmType(n.Type), fe.slotOf(n)))
	case mir.NodeCall:
		return fe.call(n)
	case mir.NodeBinary:
		return fe.binary(n)
	case mir.NodeUnary:
		return fe.unary(n)
	case mir.NodeAddressOf:
		return fe.name(fe.cur.NewPtrToInt(fe.slotOf(n.AddressOf.Operand), llvmType(n.Type)))
	}
	panic("internal compiler error: " + n.Kind.String() + " is not an expression")
}

func (fe *funcEmitter) call(n *mir.Node) value.Value {
	callee := fe.e.function(n.Call.Symbol)
	target := fe.e.funcs[n.Call.Symbol]
	args := make([]value.Value, 0, len(n.Call.Args))
	for i, a := range n.Call.Args {
		v := fe.expr(a)
		p := target.Params[i]
		switch {
		case p.Indirect:
			// значение кладётся в слот вызывающего, рантайм получает адрес
			slot := fe.entry.NewAlloca(llvmType(p.Type))
			fe.name(slot)
			fe.cur.NewStore(v, slot)
			v = fe.name(fe.cur.NewBitCast(slot, types.I8Ptr))
		case p.Pointer:
			v = fe.name(fe.cur.NewIntToPtr(v, types.I8Ptr))
		}
		args = append(args, v)
	}
	call := fe.cur.NewCall(callee, args...)
	if target.Result.IsVoid() {
		return call
	}
	return fe.name(call)
}
