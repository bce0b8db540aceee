package sema

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/types"
)

// expr types n. want guides literal typing only; the caller checks the
// result against it. The returned expression is never nil; its Type is
// NoTypeID after an error.
func (fc *funcChecker) expr(n *ast.Node, want types.TypeID) *hir.Expr {
	tc := fc.tc
	switch n.Kind {
	case ast.NodeLiteral:
		return fc.literal(n, n.Literal.Text, want)
	case ast.NodeIdent:
		return fc.ident(n)
	case ast.NodeCall:
		return fc.call(n)
	case ast.NodeBinary:
		return fc.binary(n, want)
	case ast.NodeUnary:
		return fc.unary(n, want)
	case ast.NodeAssign:
		tc.report(diag.SemaInvalidAssignTarget, n.Span, "assignment cannot be used as a value")
		fc.expr(n.Assign.Value, types.NoTypeID)
		return invalidExpr(n)
	case ast.NodeInvalid:
		return invalidExpr(n)
	default:
		tc.report(diag.SemaTypeMismatch, n.Span, "expected an expression, found %s", n.Kind)
		return invalidExpr(n)
	}
}

func invalidExpr(n *ast.Node) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: types.NoTypeID, Span: n.Span, Data: &hir.LiteralData{Kind: ast.LitInt, Text: "0"}}
}

// literal types a literal; text may carry a leading `-` for folded negation.
func (fc *funcChecker) literal(n *ast.Node, text string, want types.TypeID) *hir.Expr {
	tc := fc.tc
	lit := n.Literal
	if lit == nil && n.Kind == ast.NodeUnary {
		lit = n.Unary.Operand.Literal
	}
	out := &hir.Expr{Kind: hir.ExprLiteral, Span: n.Span, Data: &hir.LiteralData{Kind: lit.Kind, Text: text, Value: lit.Value}}
	switch lit.Kind {
	case ast.LitInt:
		typ := tc.builtins.I32
		if tc.types.IsIntegral(want) {
			typ = want
		}
		if !tc.types.IntFits(typ, text) {
			tc.report(diag.SemaTypeMismatch, n.Span, "integer literal %s does not fit in %s", text, tc.label(typ))
		}
		out.Type = typ
	case ast.LitFloat:
		out.Type = tc.builtins.F64
		if want == tc.builtins.F32 {
			out.Type = want
		}
	case ast.LitString:
		out.Type = tc.builtins.String
	case ast.LitChar:
		out.Type = tc.builtins.Char
	case ast.LitBool:
		out.Type = tc.builtins.Bool
	}
	return out
}

// untypedNumber reports literals whose type follows the context.
func untypedNumber(n *ast.Node) bool {
	if n.Kind == ast.NodeUnary && n.Unary.Op == ast.OpNeg {
		n = n.Unary.Operand
	}
	return n.Kind == ast.NodeLiteral && (n.Literal.Kind == ast.LitInt || n.Literal.Kind == ast.LitFloat)
}

func (fc *funcChecker) ident(n *ast.Node) *hir.Expr {
	tc := fc.tc
	path := n.Ident.Path
	if len(path.Segments) == 1 && fc.fn != nil {
		if id, ok := fc.lookupLocal(path.Segments[0]); ok {
			l := fc.fn.Local(id)
			return &hir.Expr{Kind: hir.ExprLocal, Type: l.Type, Span: n.Span, Data: &hir.LocalData{Local: id, Name: l.Name}}
		}
	}
	it, other := tc.lookupItem(fc.ms, path, itemGlobal)
	if it != nil {
		g := it.global
		return &hir.Expr{Kind: hir.ExprGlobal, Type: g.Type, Span: n.Span, Data: &hir.GlobalData{Symbol: g.Symbol, Name: g.Name}}
	}
	if other != nil {
		tc.report(diag.SemaUnresolvedIdentifier, n.Span, "`%s` is a %s, not a value", path, other.kind)
	} else {
		tc.report(diag.SemaUnresolvedIdentifier, n.Span, "unresolved identifier `%s`", path)
	}
	return invalidExpr(n)
}

func (fc *funcChecker) unary(n *ast.Node, want types.TypeID) *hir.Expr {
	tc := fc.tc
	u := n.Unary
	switch u.Op {
	case ast.OpNeg:
		if op := u.Operand; op.Kind == ast.NodeLiteral && (op.Literal.Kind == ast.LitInt || op.Literal.Kind == ast.LitFloat) {
			// -42 сворачивается в литерал, чтобы проверять диапазон вместе со знаком
			return fc.literal(n, "-"+op.Literal.Text, want)
		}
		operand := fc.expr(u.Operand, want)
		out := &hir.Expr{Kind: hir.ExprUnary, Type: operand.Type, Span: n.Span, Data: &hir.UnaryData{Op: u.Op, Operand: operand}}
		if operand.Type != types.NoTypeID {
			// float в MIR непрозрачен (Bytes), поэтому отрицать можно только литерал
			switch tc.types.MustLookup(operand.Type).Kind {
			case types.KindInt:
			case types.KindFloat:
				tc.report(diag.SemaTypeMismatch, n.Span, "cannot negate a value of type %s; only float literals can be negated", tc.label(operand.Type))
				out.Type = types.NoTypeID
			default:
				tc.report(diag.SemaTypeMismatch, n.Span, "cannot negate a value of type %s; expected a signed integer", tc.label(operand.Type))
				out.Type = types.NoTypeID
			}
		}
		return out
	case ast.OpNot:
		operand := fc.expr(u.Operand, tc.builtins.Bool)
		fc.expectType(operand, tc.builtins.Bool, "operand of `!`")
		return &hir.Expr{Kind: hir.ExprUnary, Type: tc.builtins.Bool, Span: n.Span, Data: &hir.UnaryData{Op: u.Op, Operand: operand}}
	default:
		mutable := u.Op == ast.OpRefMut
		if u.Operand.Kind != ast.NodeIdent {
			tc.report(diag.SemaInvalidAssignTarget, n.Span, "cannot take a reference to a temporary value; bind it to a variable first")
			fc.expr(u.Operand, types.NoTypeID)
			return invalidExpr(n)
		}
		operand := fc.ident(u.Operand)
		out := &hir.Expr{Kind: hir.ExprAddressOf, Span: n.Span, Data: &hir.AddressOfData{Mutable: mutable, Operand: operand}}
		if operand.Type != types.NoTypeID {
			out.Type = tc.types.Intern(types.MakeReference(operand.Type, mutable))
		}
		return out
	}
}

func (fc *funcChecker) binary(n *ast.Node, want types.TypeID) *hir.Expr {
	tc := fc.tc
	b := n.Binary
	out := &hir.Expr{Kind: hir.ExprBinary, Span: n.Span}

	if b.Op.IsLogical() {
		left := fc.expr(b.Left, tc.builtins.Bool)
		right := fc.expr(b.Right, tc.builtins.Bool)
		fc.expectType(left, tc.builtins.Bool, "operand of `"+b.Op.String()+"`")
		fc.expectType(right, tc.builtins.Bool, "operand of `"+b.Op.String()+"`")
		out.Type = tc.builtins.Bool
		out.Data = &hir.BinaryData{Op: b.Op, Left: left, Right: right}
		return out
	}

	hint := types.NoTypeID
	if !b.Op.IsComparison() && tc.types.IsIntegral(want) {
		hint = want
	}
	// литерал подстраивается под тип другой стороны
	var left, right *hir.Expr
	if untypedNumber(b.Left) && !untypedNumber(b.Right) {
		right = fc.expr(b.Right, hint)
		left = fc.expr(b.Left, pick(right.Type, hint))
	} else {
		left = fc.expr(b.Left, hint)
		right = fc.expr(b.Right, pick(left.Type, hint))
	}
	out.Data = &hir.BinaryData{Op: b.Op, Left: left, Right: right}
	if left.Type == types.NoTypeID || right.Type == types.NoTypeID {
		return out
	}
	if left.Type != right.Type {
		tc.report(diag.SemaTypeMismatch, b.OpPos, "mismatched operand types for `%s`: %s and %s",
			b.Op, tc.label(left.Type), tc.label(right.Type))
		return out
	}

	operand := tc.types.MustLookup(left.Type)
	switch {
	case b.Op == ast.OpEq || b.Op == ast.OpNe:
		if operand.Kind != types.KindBool && operand.Kind != types.KindChar && !tc.types.IsIntegral(left.Type) {
			tc.report(diag.SemaTypeMismatch, b.OpPos, "operator `%s` is not defined for %s", b.Op, tc.label(left.Type))
			return out
		}
		out.Type = tc.builtins.Bool
	case b.Op.IsComparison():
		if operand.Kind != types.KindChar && !tc.types.IsIntegral(left.Type) {
			tc.report(diag.SemaTypeMismatch, b.OpPos, "operator `%s` is not defined for %s", b.Op, tc.label(left.Type))
			return out
		}
		out.Type = tc.builtins.Bool
	default:
		if !tc.types.IsIntegral(left.Type) {
			tc.report(diag.SemaTypeMismatch, b.OpPos, "operator `%s` requires integer operands, found %s", b.Op, tc.label(left.Type))
			return out
		}
		out.Type = left.Type
	}
	return out
}

func pick(primary, fallback types.TypeID) types.TypeID {
	if primary != types.NoTypeID {
		return primary
	}
	return fallback
}
