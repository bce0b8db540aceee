package mir

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"fortio.org/safecast"

	"lumen/internal/ast"
	"lumen/internal/hir"
	"lumen/internal/layout"
	"lumen/internal/types"
)

// LowerOptions configure lowering.
type LowerOptions struct {
	Target layout.Target // по умолчанию x86_64
	Entry  string        // ключ модуля с точкой входа, "" - нет
}

// Lower rewrites a checked HIR program into MIR. The input must be free of
// errors; an inconsistency is an internal compiler error and panics.
func Lower(prog *hir.Program, opts LowerOptions) *Program {
	if opts.Target.PtrSize == 0 {
		opts.Target = layout.X86_64LinuxGNU()
	}
	l := &lowerer{
		types:  prog.Types,
		layout: layout.New(opts.Target, prog.Types),
		target: opts.Target,
	}
	out := &Program{Entry: opts.Entry}
	for _, m := range prog.Modules {
		out.Modules = append(out.Modules, l.module(m))
	}
	return out
}

type lowerer struct {
	types  *types.Interner
	layout *layout.LayoutEngine
	target layout.Target
}

func (l *lowerer) module(m *hir.Module) *Module {
	out := &Module{
		Key:      m.Path.Key(),
		Segments: append([]string(nil), m.Path.Segments...),
		Std:      m.Std,
		Imports:  append([]string(nil), m.Imports...),
	}
	for _, g := range m.Globals {
		out.Globals = append(out.Globals, &Global{
			Name:    g.Name,
			Symbol:  g.Symbol,
			Type:    l.lowerType(g.Type),
			Mutable: g.Mutable,
			Value:   l.literal(g.Value).Literal,
		})
	}
	for _, f := range m.Funcs {
		out.Funcs = append(out.Funcs, l.function(f))
	}
	return out
}

func (l *lowerer) function(f *hir.Func) *Func {
	out := &Func{
		Name:     f.Name,
		Symbol:   f.Symbol,
		Span:     f.Span,
		Result:   l.lowerType(f.Result),
		Extern:   f.Extern,
		LinkName: f.LinkName,
	}
	for _, p := range f.Params {
		t := l.lowerType(p.Type)
		param := Param{
			Name:    p.Name,
			Local:   LocalID(p.Local),
			Type:    t,
			Pointer: l.isReference(p.Type),
			Span:    p.Span,
		}
		// непрозрачные значения уходят в рантайм через слот вызывающего
		if f.Extern && t.Kind == TypeBytes && !param.Pointer {
			param.Pointer = true
			param.Indirect = true
		}
		out.Params = append(out.Params, param)
	}
	for _, loc := range f.Locals {
		out.Locals = append(out.Locals, Local{Name: loc.Name, Type: l.lowerType(loc.Type)})
	}
	if !f.HasBody() {
		return out
	}
	body := l.block(f.Body)
	if out.Result.IsVoid() && !body.Terminates() {
		body.Block.Nodes = append(body.Block.Nodes, &Node{
			Kind:   NodeReturn,
			Type:   Void(),
			Span:   f.Body.Span.Tail(),
			Return: &Return{},
		})
	}
	out.Body = body
	return out
}

// block lowers statements up to and including the first one that never
// completes; the rest is unreachable and dropped.
func (l *lowerer) block(b *hir.Block) *Node {
	out := &Node{Kind: NodeBlock, Type: Void(), Span: b.Span, Block: &Block{Nodes: []*Node{}}}
	for _, st := range b.Stmts {
		n := l.stmt(st)
		out.Block.Nodes = append(out.Block.Nodes, n)
		if n.Terminates() {
			break
		}
	}
	return out
}

func (l *lowerer) stmt(st *hir.Stmt) *Node {
	switch data := st.Data.(type) {
	case *hir.DeclareData:
		return &Node{Kind: NodeDeclare, Type: Void(), Span: st.Span, Declare: &Declare{
			Local: LocalID(data.Local),
			Name:  data.Name,
			Value: l.expr(data.Value),
		}}
	case *hir.ExprStmtData:
		return l.expr(data.Expr)
	case *hir.AssignData:
		return &Node{Kind: NodeAssign, Type: Void(), Span: st.Span, Assign: &Assign{
			Local: LocalID(data.Local),
			Name:  data.Name,
			Value: l.expr(data.Value),
		}}
	case *hir.ReturnData:
		ret := &Return{}
		if data.Value != nil {
			ret.Value = l.expr(data.Value)
		}
		return &Node{Kind: NodeReturn, Type: Void(), Span: st.Span, Return: ret}
	case *hir.IfData:
		n := &If{Cond: l.expr(data.Cond), Then: l.block(data.Then)}
		if data.Else != nil {
			n.Else = l.block(data.Else)
		}
		return &Node{Kind: NodeIf, Type: Void(), Span: st.Span, If: n}
	case *hir.BlockData:
		return l.block(data.Block)
	}
	panic(fmt.Sprintf("internal compiler error: unexpected HIR statement %s", st.Kind))
}

func (l *lowerer) expr(e *hir.Expr) *Node {
	t := l.lowerType(e.Type)
	switch data := e.Data.(type) {
	case *hir.LiteralData:
		n := l.literal(e)
		n.Type = t
		return n
	case *hir.LocalData:
		return &Node{Kind: NodeLocal, Type: t, Span: e.Span, Local: &LocalRef{Local: LocalID(data.Local), Name: data.Name}}
	case *hir.GlobalData:
		return &Node{Kind: NodeGlobal, Type: t, Span: e.Span, Global: &GlobalRef{Symbol: data.Symbol}}
	case *hir.CallData:
		args := make([]*Node, 0, len(data.Args))
		for _, a := range data.Args {
			args = append(args, l.expr(a))
		}
		return &Node{Kind: NodeCall, Type: t, Span: e.Span, Call: &Call{Symbol: data.Symbol, Args: args}}
	case *hir.BinaryData:
		return &Node{Kind: NodeBinary, Type: t, Span: e.Span, Binary: &Binary{
			Op:     data.Op,
			Signed: l.isSigned(data.Left.Type),
			Left:   l.expr(data.Left),
			Right:  l.expr(data.Right),
		}}
	case *hir.UnaryData:
		return &Node{Kind: NodeUnary, Type: t, Span: e.Span, Unary: &Unary{Op: data.Op, Operand: l.expr(data.Operand)}}
	case *hir.AddressOfData:
		return &Node{Kind: NodeAddressOf, Type: t, Span: e.Span, AddressOf: &AddressOf{
			Mutable: data.Mutable,
			Operand: l.expr(data.Operand),
		}}
	}
	panic(fmt.Sprintf("internal compiler error: unexpected HIR expression %s", e.Kind))
}

func (l *lowerer) literal(e *hir.Expr) *Node {
	data, ok := e.Data.(*hir.LiteralData)
	if !ok {
		panic("internal compiler error: global initializer is not a literal")
	}
	lit := &Literal{Text: data.Text}
	switch data.Kind {
	case ast.LitInt:
		lit.Kind = LitInt
	case ast.LitBool:
		lit.Kind = LitBool
	case ast.LitFloat:
		lit.Kind = LitFloat
	case ast.LitChar:
		lit.Kind = LitChar
		r, _ := utf8.DecodeRuneInString(data.Value)
		lit.Text = strconv.Itoa(int(r))
	case ast.LitString:
		lit.Kind = LitString
		lit.Text = strconv.Quote(data.Value)
		lit.Value = data.Value
	}
	return &Node{Kind: NodeLiteral, Type: l.lowerType(e.Type), Span: e.Span, Literal: lit}
}

func (l *lowerer) lowerType(id types.TypeID) Type {
	t, ok := l.types.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("internal compiler error: unknown type id %d", id))
	}
	switch t.Kind {
	case types.KindVoid:
		return Void()
	case types.KindBool:
		return Boolean()
	case types.KindInt, types.KindUint:
		return Int(uint32(t.Width))
	case types.KindChar:
		return Int(32)
	case types.KindFloat:
		return Bytes(uint32(t.Width) / 8)
	case types.KindString:
		return Bytes(l.bytes(2 * l.target.PtrSize))
	case types.KindReference:
		return Bytes(l.bytes(l.target.PtrSize))
	case types.KindStruct:
		size, err := l.layout.SizeOf(id)
		if err != nil {
			panic(fmt.Sprintf("internal compiler error: layout of %s: %v", types.Label(l.types, id), err))
		}
		if size == 0 {
			return Bytes(1)
		}
		return Bytes(l.bytes(size))
	}
	panic(fmt.Sprintf("internal compiler error: type %s has no MIR form", types.Label(l.types, id)))
}

func (l *lowerer) bytes(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Sprintf("internal compiler error: size %d: %v", n, err))
	}
	return v
}

func (l *lowerer) isReference(id types.TypeID) bool {
	t, ok := l.types.Lookup(id)
	return ok && t.Kind == types.KindReference
}

func (l *lowerer) isSigned(id types.TypeID) bool {
	t, ok := l.types.Lookup(id)
	return ok && t.Kind == types.KindInt
}
