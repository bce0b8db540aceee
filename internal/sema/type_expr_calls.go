package sema

import (
	"fmt"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/modpath"
	"lumen/internal/types"
)

func (fc *funcChecker) call(n *ast.Node) *hir.Expr {
	tc := fc.tc
	c := n.Call
	out := &hir.Expr{Kind: hir.ExprCall, Span: n.Span}
	data := &hir.CallData{}
	out.Data = data

	it, other := tc.lookupItem(fc.ms, c.Callee, itemFunc)
	if it == nil {
		switch {
		case other != nil:
			tc.report(diag.SemaUnresolvedFunction, c.CalleeSpan, "`%s` is a %s, not a function", c.Callee, other.kind)
		case len(c.Callee.Segments) > 1 && tc.qualifiedModule(fc.ms, qualifier(c)) == nil:
			tc.report(diag.SemaUnresolvedFunction, c.CalleeSpan, "unknown module `%s` in call to `%s`; is it imported?", qualifier(c), c.Callee)
		default:
			tc.report(diag.SemaUnresolvedFunction, c.CalleeSpan, "unresolved function `%s`", c.Callee)
		}
		for _, a := range c.Args {
			data.Args = append(data.Args, fc.expr(a, types.NoTypeID))
		}
		return out
	}

	callee := it.fn
	data.Symbol = callee.Symbol
	out.Type = callee.Result
	if len(c.Args) != len(callee.Params) {
		diag.ReportError(tc.reporter, diag.SemaArityMismatch, n.Span,
			fmt.Sprintf("function `%s` expects %d %s, found %d", callee.Name, len(callee.Params), plural(len(callee.Params), "argument"), len(c.Args))).
			WithNote(callee.NameSpan, "declared here").
			Emit()
	}
	for i, a := range c.Args {
		want := types.NoTypeID
		if i < len(callee.Params) {
			want = callee.Params[i].Type
		}
		arg := fc.expr(a, want)
		if i < len(callee.Params) {
			fc.expectType(arg, want, fmt.Sprintf("argument %d of `%s`", i+1, callee.Name))
		}
		data.Args = append(data.Args, arg)
	}
	return out
}

func qualifier(c *ast.Call) modpath.Path {
	segs := c.Callee.Normalize().Segments
	return modpath.Of(segs[:len(segs)-1]...)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
