package sema

import (
	"fmt"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/source"
	"lumen/internal/types"
)

// collectSignatures resolves parameter and result types of every function.
func (tc *typeChecker) collectSignatures(ms *moduleScope) {
	for _, fn := range ms.hir.Funcs {
		it := ms.items[fn.Name]
		decl := it.node.Function

		ext, isExtern := tc.checkAttrs(it.node.Attrs, true)
		if isExtern {
			if decl.Body != nil {
				tc.report(diag.SemaUnknownAttribute, ext.Span, "`#[extern]` applies only to body-less declarations")
			} else {
				fn.Extern = true
				fn.LinkName = linkName(ext, fn.Name)
			}
		}

		seen := make(map[string]source.Span, len(decl.Params))
		for _, p := range decl.Params {
			typ := tc.resolveType(ms, p.Type)
			if typ == tc.builtins.Void {
				tc.report(diag.SemaTypeMismatch, p.Type.Span, "parameter `%s` cannot have type void", p.Name)
				typ = types.NoTypeID
			}
			if prev, dup := seen[p.Name]; dup {
				diag.ReportError(tc.reporter, diag.SemaNameCollision, p.NameSpan,
					fmt.Sprintf("parameter `%s` is declared twice", p.Name)).
					WithNote(prev, "first declared here").
					Emit()
			}
			seen[p.Name] = p.NameSpan
			id := hir.LocalID(len(fn.Locals)) // #nosec G115 -- число параметров мало
			fn.Locals = append(fn.Locals, hir.Local{
				Name:    p.Name,
				Type:    typ,
				Mutable: p.Mutable,
				Param:   true,
				Span:    p.NameSpan,
			})
			fn.Params = append(fn.Params, hir.Param{
				Name:    p.Name,
				Local:   id,
				Type:    typ,
				Mutable: p.Mutable,
				Span:    p.Span,
			})
		}
		fn.Result = tc.resolveType(ms, decl.ReturnType)
	}
}

// collectGlobals types top-level lets. The initializer must be a literal,
// optionally negated.
func (tc *typeChecker) collectGlobals(ms *moduleScope) {
	for _, g := range ms.hir.Globals {
		it := ms.items[g.Name]
		tc.checkAttrs(it.node.Attrs, false)
		decl := it.node.Declare

		want := types.NoTypeID
		if decl.Type != nil {
			want = tc.resolveType(ms, decl.Type)
			if want == tc.builtins.Void {
				tc.report(diag.SemaTypeMismatch, decl.Type.Span, "global `%s` cannot have type void", g.Name)
				want = types.NoTypeID
			}
		}
		if !isLiteralExpr(decl.Value) {
			tc.report(diag.SemaInvalidGlobal, decl.Value.Span, "initializer of global `%s` must be a literal", g.Name)
			g.Type = want
			continue
		}
		fc := &funcChecker{tc: tc, ms: ms}
		g.Value = fc.expr(decl.Value, want)
		g.Type = g.Value.Type
		if want != types.NoTypeID {
			fc.expectType(g.Value, want, "global `"+g.Name+"`")
			g.Type = want
		}
	}
}

func isLiteralExpr(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.NodeUnary && n.Unary.Op == ast.OpNeg {
		n = n.Unary.Operand
		return n != nil && n.Kind == ast.NodeLiteral && (n.Literal.Kind == ast.LitInt || n.Literal.Kind == ast.LitFloat)
	}
	return n.Kind == ast.NodeLiteral
}
