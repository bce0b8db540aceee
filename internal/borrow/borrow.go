// Package borrow enforces the ownership rules over HIR: every value has one
// owner, passing or binding a non-copy value moves it, a moved binding can
// not be used, and immutable bindings are neither assigned nor mutably
// borrowed.
package borrow

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Check runs the ownership checker over every function body of prog.
// It reports whether no error was found.
func Check(prog *hir.Program, reporter diag.Reporter) bool {
	ok := true
	globals := make(map[string]*hir.Global)
	for _, m := range prog.Modules {
		for _, g := range m.Globals {
			globals[g.Symbol] = g
		}
	}
	for _, m := range prog.Modules {
		for _, fn := range m.Funcs {
			if !fn.HasBody() {
				continue
			}
			c := &checker{fn: fn, types: prog.Types, globals: globals, reporter: reporter}
			c.block(fn.Body, moveSet{})
			ok = ok && c.errors == 0
		}
	}
	return ok
}

type checker struct {
	fn       *hir.Func
	types    *types.Interner
	globals  map[string]*hir.Global
	reporter diag.Reporter
	errors   int
}

// block walks statements in order. terminated is true when the block
// always returns; its state then does not flow to the successor.
func (c *checker) block(b *hir.Block, in moveSet) (out moveSet, terminated bool) {
	state := in
	for _, st := range b.Stmts {
		state, terminated = c.stmt(st, state)
		if terminated {
			return state, true
		}
	}
	return state, false
}

func (c *checker) stmt(st *hir.Stmt, state moveSet) (moveSet, bool) {
	switch data := st.Data.(type) {
	case *hir.DeclareData:
		c.consume(data.Value, state)
		// слот новый: прежние перемещения к нему не относятся
		delete(state, data.Local)
	case *hir.ExprStmtData:
		c.consume(data.Expr, state)
	case *hir.AssignData:
		c.consume(data.Value, state)
		if l := c.fn.Local(data.Local); l != nil {
			if !l.Mutable {
				c.report(diag.OwnMutateImmutable, data.TargetSpan,
					fmt.Sprintf("cannot assign twice to immutable binding `%s`", l.Name), l.Span,
					fmt.Sprintf("declare it as `mut %s` to allow assignment", l.Name))
			}
			// присваивание возвращает привязке владение
			delete(state, data.Local)
		}
	case *hir.ReturnData:
		if data.Value != nil {
			c.consume(data.Value, state)
		}
		return state, true
	case *hir.IfData:
		c.consume(data.Cond, state)
		thenOut, thenTerm := c.block(data.Then, state.clone())
		elseOut, elseTerm := state, false
		if data.Else != nil {
			elseOut, elseTerm = c.block(data.Else, state.clone())
		}
		switch {
		case thenTerm && elseTerm:
			return join(thenOut, elseOut), true
		case thenTerm:
			return elseOut, false
		case elseTerm:
			return thenOut, false
		default:
			return join(thenOut, elseOut), false
		}
	case *hir.BlockData:
		return c.block(data.Block, state)
	}
	return state, false
}

// consume evaluates e as a value: every local read is checked, non-copy
// locals are moved.
func (c *checker) consume(e *hir.Expr, state moveSet) {
	switch data := e.Data.(type) {
	case *hir.LocalData:
		c.use(data.Local, e.Span, state)
		if !c.types.IsCopy(e.Type) {
			state[data.Local] = moveInfo{span: e.Span, definite: true}
		}
	case *hir.CallData:
		for _, a := range data.Args {
			c.consume(a, state)
		}
	case *hir.BinaryData:
		c.consume(data.Left, state)
		c.consume(data.Right, state)
	case *hir.UnaryData:
		c.consume(data.Operand, state)
	case *hir.AddressOfData:
		c.borrow(data, e.Span, state)
	}
}

// borrow checks `&x` / `&mut x`. Borrowing reads the binding but does not move it.
func (c *checker) borrow(data *hir.AddressOfData, span source.Span, state moveSet) {
	local, ok := data.Operand.Data.(*hir.LocalData)
	if !ok {
		if g, isGlobal := data.Operand.Data.(*hir.GlobalData); isGlobal && data.Mutable && !c.globalMutable(g) {
			c.report(diag.OwnMutBorrowOfImmutable, span,
				fmt.Sprintf("cannot borrow immutable global `%s` as mutable", g.Name), source.Span{}, "")
		}
		return
	}
	c.use(local.Local, data.Operand.Span, state)
	l := c.fn.Local(local.Local)
	if data.Mutable && l != nil && !l.Mutable {
		c.report(diag.OwnMutBorrowOfImmutable, span,
			fmt.Sprintf("cannot borrow immutable binding `%s` as mutable", l.Name), l.Span,
			fmt.Sprintf("declare it as `mut %s`", l.Name))
	}
}

func (c *checker) globalMutable(g *hir.GlobalData) bool {
	decl := c.globals[g.Symbol]
	return decl != nil && decl.Mutable
}

func (c *checker) use(id hir.LocalID, span source.Span, state moveSet) {
	mv, moved := state[id]
	if !moved {
		return
	}
	name := "_"
	if l := c.fn.Local(id); l != nil {
		name = l.Name
	}
	msg := fmt.Sprintf("use of moved value `%s`", name)
	if !mv.definite {
		msg = fmt.Sprintf("use of possibly moved value `%s`: it is moved on some path", name)
	}
	c.report(diag.OwnUseAfterMove, span, msg, mv.span, "value moved here")
	// одна ошибка на перемещение
	delete(state, id)
}

func (c *checker) report(code diag.Code, span source.Span, msg string, noteSpan source.Span, note string) {
	c.errors++
	b := diag.ReportError(c.reporter, code, span, msg)
	if note != "" {
		b.WithNote(noteSpan, note)
	}
	b.Emit()
}
