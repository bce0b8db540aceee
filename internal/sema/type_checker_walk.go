package sema

import (
	"fmt"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/types"
)

func (tc *typeChecker) checkFuncBody(ms *moduleScope, fn *hir.Func, decl *ast.Function) {
	fc := &funcChecker{tc: tc, ms: ms, fn: fn}
	fc.push()
	for _, p := range fn.Params {
		if _, dup := fc.declared(p.Name); !dup {
			fc.bind(p.Name, p.Local)
		}
	}
	fn.Body = fc.block(decl.Body)
	fc.pop()

	if fn.Result != tc.builtins.Void && fn.Result != types.NoTypeID && !fn.Body.Terminates() {
		tc.report(diag.SemaMissingReturn, fn.NameSpan,
			"function `%s` must return a value of type %s on every path", fn.Name, tc.label(fn.Result))
	}
}

// block checks a Block node in a fresh scope.
func (fc *funcChecker) block(n *ast.Node) *hir.Block {
	out := &hir.Block{Span: n.Span}
	if n.Kind != ast.NodeBlock {
		return out
	}
	fc.push()
	defer fc.pop()
	for _, st := range n.Block.Stmts {
		if s := fc.stmt(st); s != nil {
			out.Stmts = append(out.Stmts, s)
		}
	}
	return out
}

func (fc *funcChecker) stmt(n *ast.Node) *hir.Stmt {
	switch n.Kind {
	case ast.NodeInvalid:
		return nil
	case ast.NodeDeclare:
		return fc.declare(n)
	case ast.NodeAssign:
		return fc.assign(n)
	case ast.NodeReturn:
		return fc.returnStmt(n)
	case ast.NodeIf:
		return fc.ifStmt(n)
	case ast.NodeBlock:
		return &hir.Stmt{Kind: hir.StmtBlock, Span: n.Span, Data: &hir.BlockData{Block: fc.block(n)}}
	case ast.NodeFunction, ast.NodeStruct:
		// парсер уже сообщил о вложенном объявлении
		return nil
	default:
		e := fc.expr(n, types.NoTypeID)
		return &hir.Stmt{Kind: hir.StmtExpr, Span: n.Span, Data: &hir.ExprStmtData{Expr: e}}
	}
}

func (fc *funcChecker) declare(n *ast.Node) *hir.Stmt {
	d := n.Declare
	tc := fc.tc
	want := types.NoTypeID
	if d.Type != nil {
		want = tc.resolveType(fc.ms, d.Type)
		if want == tc.builtins.Void {
			tc.report(diag.SemaTypeMismatch, d.Type.Span, "variable `%s` cannot have type void", d.Name)
			want = types.NoTypeID
		}
	}
	value := fc.expr(d.Value, want)
	typ := want
	if d.Type != nil {
		fc.expectType(value, want, "variable `"+d.Name+"`")
	} else {
		typ = value.Type
		if typ == tc.builtins.Void {
			tc.report(diag.SemaTypeMismatch, d.Value.Span, "cannot bind `%s` to a value of type void", d.Name)
			typ = types.NoTypeID
		}
	}

	id := fc.newLocal(hir.Local{Name: d.Name, Type: typ, Mutable: d.Mutable, Span: d.NameSpan})
	if prev, dup := fc.declared(d.Name); dup {
		diag.ReportError(tc.reporter, diag.SemaNameCollision, d.NameSpan,
			fmt.Sprintf("`%s` is already declared in this scope", d.Name)).
			WithNote(fc.fn.Local(prev).Span, "previous declaration is here").
			Emit()
	} else {
		fc.bind(d.Name, id)
	}
	return &hir.Stmt{
		Kind: hir.StmtDeclare,
		Span: n.Span,
		Data: &hir.DeclareData{Local: id, Name: d.Name, Type: typ, Value: value},
	}
}

func (fc *funcChecker) newLocal(l hir.Local) hir.LocalID {
	id := hir.LocalID(len(fc.fn.Locals)) // #nosec G115 -- число локалов функции ограничено размером файла
	fc.fn.Locals = append(fc.fn.Locals, l)
	return id
}

func (fc *funcChecker) assign(n *ast.Node) *hir.Stmt {
	a := n.Assign
	tc := fc.tc
	target := a.Target
	local := hir.NoLocalID
	if target.Kind == ast.NodeIdent && len(target.Ident.Path.Segments) == 1 {
		name := target.Ident.Path.Segments[0]
		if id, ok := fc.lookupLocal(name); ok {
			local = id
		} else if it, _ := tc.lookupItem(fc.ms, target.Ident.Path, itemGlobal); it != nil {
			tc.report(diag.SemaInvalidAssignTarget, target.Span, "cannot assign to global `%s`; only locals and parameters are assignable", name)
		} else {
			tc.report(diag.SemaUnresolvedIdentifier, target.Span, "unresolved identifier `%s`", name)
		}
	} else {
		tc.report(diag.SemaInvalidAssignTarget, target.Span, "invalid assignment target; expected a local variable or parameter")
	}

	want := types.NoTypeID
	name := ""
	if local != hir.NoLocalID {
		want = fc.fn.Local(local).Type
		name = fc.fn.Local(local).Name
	}
	value := fc.expr(a.Value, want)
	if local != hir.NoLocalID {
		fc.expectType(value, want, "assignment to `"+name+"`")
	}
	return &hir.Stmt{
		Kind: hir.StmtAssign,
		Span: n.Span,
		Data: &hir.AssignData{Local: local, Name: name, TargetSpan: target.Span, Value: value},
	}
}

func (fc *funcChecker) returnStmt(n *ast.Node) *hir.Stmt {
	tc := fc.tc
	result := fc.fn.Result
	data := &hir.ReturnData{}
	switch {
	case n.Return.Value == nil:
		if result != tc.builtins.Void && result != types.NoTypeID {
			tc.report(diag.SemaTypeMismatch, n.Span, "missing return value: function `%s` returns %s", fc.fn.Name, tc.label(result))
		}
	case result == tc.builtins.Void:
		data.Value = fc.expr(n.Return.Value, types.NoTypeID)
		tc.report(diag.SemaTypeMismatch, n.Return.Value.Span, "function `%s` returns void but a value was returned", fc.fn.Name)
	default:
		data.Value = fc.expr(n.Return.Value, result)
		fc.expectType(data.Value, result, "return value")
	}
	return &hir.Stmt{Kind: hir.StmtReturn, Span: n.Span, Data: data}
}

func (fc *funcChecker) ifStmt(n *ast.Node) *hir.Stmt {
	data := &hir.IfData{}
	data.Cond = fc.expr(n.If.Cond, fc.tc.builtins.Bool)
	fc.expectType(data.Cond, fc.tc.builtins.Bool, "if condition")
	data.Then = fc.block(n.If.Then)
	if els := n.If.Else; els != nil {
		switch els.Kind {
		case ast.NodeIf:
			data.Else = &hir.Block{Span: els.Span, Stmts: []*hir.Stmt{fc.ifStmt(els)}}
		default:
			data.Else = fc.block(els)
		}
	}
	return &hir.Stmt{Kind: hir.StmtIf, Span: n.Span, Data: data}
}

// expectType reports a mismatch unless either side is already erroneous.
func (fc *funcChecker) expectType(e *hir.Expr, want types.TypeID, what string) bool {
	if e == nil || e.Type == types.NoTypeID || want == types.NoTypeID || e.Type == want {
		return true
	}
	fc.tc.report(diag.SemaTypeMismatch, e.Span, "mismatched types in %s: expected %s, found %s",
		what, fc.tc.label(want), fc.tc.label(e.Type))
	return false
}
