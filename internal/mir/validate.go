package mir

import (
	"errors"
	"fmt"
)

// Validate checks the closed-set invariants of a lowered program and
// returns every violation joined into one error.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	funcs := p.Funcs()
	globals := make(map[string]*Global)
	for _, m := range p.Modules {
		for _, g := range m.Globals {
			globals[g.Symbol] = g
		}
	}
	var errs []error
	for _, m := range p.Modules {
		for _, g := range m.Globals {
			if !g.Type.valid() || g.Type.IsVoid() {
				errs = append(errs, fmt.Errorf("global %s: invalid type %s", g.Symbol, g.Type))
			}
			if g.Value == nil {
				errs = append(errs, fmt.Errorf("global %s: missing initializer", g.Symbol))
			}
		}
		for _, f := range m.Funcs {
			v := &validator{fn: f, funcs: funcs, globals: globals}
			if err := v.run(); err != nil {
				errs = append(errs, fmt.Errorf("function %s: %w", f.Symbol, err))
			}
		}
	}
	if p.Entry != "" && p.Module(p.Entry) == nil {
		errs = append(errs, fmt.Errorf("entry module %s is missing", p.Entry))
	}
	return errors.Join(errs...)
}

type validator struct {
	fn      *Func
	funcs   map[string]*Func
	globals map[string]*Global
	errs    []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) run() error {
	f := v.fn
	if !f.Result.valid() {
		v.errorf("invalid result type %s", f.Result)
	}
	for i, p := range f.Params {
		if int(p.Local) != i {
			v.errorf("parameter %s: local %d, want %d", p.Name, p.Local, i)
		}
		if !p.Type.valid() || p.Type.IsVoid() {
			v.errorf("parameter %s: invalid type %s", p.Name, p.Type)
		}
		if p.Indirect && !p.Pointer {
			v.errorf("parameter %s: indirect without pointer", p.Name)
		}
	}
	for i, l := range f.Locals {
		if !l.Type.valid() || l.Type.IsVoid() {
			v.errorf("local %d (%s): invalid type %s", i, l.Name, l.Type)
		}
	}
	switch {
	case f.Extern && f.Body != nil:
		v.errorf("extern function has a body")
	case !f.Extern && f.Body == nil:
		v.errorf("missing body")
	case f.Body != nil:
		if f.Body.Kind != NodeBlock {
			v.errorf("body is %s, want Block", f.Body.Kind)
		}
		v.stmt(f.Body)
		if !f.Body.Terminates() {
			v.errorf("control reaches the end of the body without Return")
		}
	}
	return errors.Join(v.errs...)
}

// payloads counts set payload pointers; a well-formed node has exactly one.
func payloads(n *Node) int {
	count := 0
	for _, set := range []bool{
		n.Block != nil, n.Declare != nil, n.Assign != nil, n.Return != nil,
		n.Call != nil, n.If != nil, n.Literal != nil, n.Local != nil,
		n.Global != nil, n.Binary != nil, n.Unary != nil, n.AddressOf != nil,
	} {
		if set {
			count++
		}
	}
	return count
}

func (v *validator) shape(n *Node) bool {
	if n == nil {
		v.errorf("nil node")
		return false
	}
	if payloads(n) != 1 {
		v.errorf("%s at %s: %d payloads", n.Kind, n.Span, payloads(n))
		return false
	}
	var ok bool
	switch n.Kind {
	case NodeBlock:
		ok = n.Block != nil
	case NodeDeclare:
		ok = n.Declare != nil
	case NodeAssign:
		ok = n.Assign != nil
	case NodeReturn:
		ok = n.Return != nil
	case NodeCall:
		ok = n.Call != nil
	case NodeIf:
		ok = n.If != nil
	case NodeLiteral:
		ok = n.Literal != nil
	case NodeLocal:
		ok = n.Local != nil
	case NodeGlobal:
		ok = n.Global != nil
	case NodeBinary:
		ok = n.Binary != nil
	case NodeUnary:
		ok = n.Unary != nil
	case NodeAddressOf:
		ok = n.AddressOf != nil
	}
	if !ok {
		v.errorf("node kind %s does not match its payload", n.Kind)
		return false
	}
	if !n.Type.valid() {
		v.errorf("%s at %s: invalid type %s", n.Kind, n.Span, n.Type)
		return false
	}
	return true
}

func (v *validator) local(id LocalID, want Type) {
	if int(id) >= len(v.fn.Locals) {
		v.errorf("local %d out of range", id)
		return
	}
	if got := v.fn.Locals[id].Type; got != want {
		v.errorf("local %s: type %s, value %s", v.fn.Locals[id].Name, got, want)
	}
}

func (v *validator) stmt(n *Node) {
	if !v.shape(n) {
		return
	}
	if n.Kind.IsExpr() {
		v.expr(n)
		return
	}
	if !n.Type.IsVoid() {
		v.errorf("%s at %s: statement has type %s", n.Kind, n.Span, n.Type)
	}
	switch n.Kind {
	case NodeBlock:
		for _, st := range n.Block.Nodes {
			v.stmt(st)
		}
	case NodeDeclare:
		if v.expr(n.Declare.Value) {
			v.local(n.Declare.Local, n.Declare.Value.Type)
		}
	case NodeAssign:
		if v.expr(n.Assign.Value) {
			v.local(n.Assign.Local, n.Assign.Value.Type)
		}
	case NodeReturn:
		if n.Return.Value == nil {
			if !v.fn.Result.IsVoid() {
				v.errorf("Return(None) in function returning %s", v.fn.Result)
			}
			return
		}
		if v.expr(n.Return.Value) && n.Return.Value.Type != v.fn.Result {
			v.errorf("returns %s, want %s", n.Return.Value.Type, v.fn.Result)
		}
	case NodeIf:
		if v.expr(n.If.Cond) && n.If.Cond.Type.Kind != TypeBoolean {
			v.errorf("if condition has type %s", n.If.Cond.Type)
		}
		v.stmt(n.If.Then)
		if n.If.Else != nil {
			v.stmt(n.If.Else)
		}
	}
}

// expr validates an expression node and reports whether it is well formed.
func (v *validator) expr(n *Node) bool {
	if !v.shape(n) {
		return false
	}
	if !n.Kind.IsExpr() {
		v.errorf("%s at %s used as a value", n.Kind, n.Span)
		return false
	}
	switch n.Kind {
	case NodeLiteral:
		if n.Type.IsVoid() {
			v.errorf("void literal")
		}
	case NodeLocal:
		v.local(n.Local.Local, n.Type)
	case NodeGlobal:
		g := v.globals[n.Global.Symbol]
		switch {
		case g == nil:
			v.errorf("unknown global %s", n.Global.Symbol)
		case g.Type != n.Type:
			v.errorf("global %s: type %s, read as %s", g.Symbol, g.Type, n.Type)
		}
	case NodeCall:
		callee := v.funcs[n.Call.Symbol]
		if callee == nil {
			v.errorf("call to unknown function %s", n.Call.Symbol)
			return false
		}
		if len(callee.Params) != len(n.Call.Args) {
			v.errorf("call to %s: %d arguments, want %d", callee.Symbol, len(n.Call.Args), len(callee.Params))
		}
		for i, a := range n.Call.Args {
			if v.expr(a) && i < len(callee.Params) && a.Type != callee.Params[i].Type {
				v.errorf("call to %s: argument %d has type %s, want %s", callee.Symbol, i, a.Type, callee.Params[i].Type)
			}
		}
		if n.Type != callee.Result {
			v.errorf("call to %s: type %s, want %s", callee.Symbol, n.Type, callee.Result)
		}
	case NodeBinary:
		left, right := v.expr(n.Binary.Left), v.expr(n.Binary.Right)
		if left && right && n.Binary.Left.Type != n.Binary.Right.Type {
			v.errorf("binary %s: operands %s and %s", n.Binary.Op, n.Binary.Left.Type, n.Binary.Right.Type)
		}
	case NodeUnary:
		v.expr(n.Unary.Operand)
	case NodeAddressOf:
		op := n.AddressOf.Operand
		if v.expr(op) && op.Kind != NodeLocal && op.Kind != NodeGlobal {
			v.errorf("address of %s", op.Kind)
		}
		if n.Type.Kind != TypeBytes {
			v.errorf("address has type %s", n.Type)
		}
	}
	return true
}
