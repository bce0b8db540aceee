package parser

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/token"
)

// parseType: `&` [mut] type | path.
func (p *Parser) parseType() (*ast.TypeExpr, bool) {
	if p.atOp("&") {
		start := p.advance().Span
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.TypeExpr{Kind: ast.TypeRef, Span: start.Cover(elem.Span), Mutable: mutable, Elem: elem}, true
	}
	if !p.at(token.Ident) {
		p.expectFailed(diag.SynExpectType, "expected type")
		return nil, false
	}
	path, span, ok := p.parsePath()
	if !ok {
		return nil, false
	}
	return &ast.TypeExpr{Kind: ast.TypeNamed, Span: span, Name: path}, true
}
