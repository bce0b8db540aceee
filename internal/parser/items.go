package parser

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/modpath"
	"lumen/internal/source"
	"lumen/internal/token"
)

// parseAttributes читает `#[name]` / `#[name(lit, ...)]` перед объявлением.
func (p *Parser) parseAttributes() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.atOp("#") {
		start := p.advance().Span
		if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after '#'"); !ok {
			return nil, false
		}
		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		attr := ast.Attr{Name: name.Text}
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) {
				tok := p.ts.Peek()
				if !tok.IsLiteral() {
					p.expectFailed(diag.SynExpectExpression, "expected literal attribute argument")
					return nil, false
				}
				p.advance()
				attr.Args = append(attr.Args, literalOf(tok))
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close attribute arguments"); !ok {
				return nil, false
			}
		}
		end, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute")
		if !ok {
			return nil, false
		}
		attr.Span = start.Cover(end.Span)
		attrs = append(attrs, attr)
	}
	return attrs, true
}

// parseImport: `import a::b::c;` (точка с запятой не обязательна).
func (p *Parser) parseImport() (ast.Import, bool) {
	p.advance() // import
	path, span, ok := p.parsePath()
	if !ok {
		return ast.Import{}, false
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	return ast.Import{Path: path, Span: span}, true
}

// parsePath: ident { '::' ident }.
func (p *Parser) parsePath() (modpath.Path, source.Span, bool) {
	first, ok := p.expectIdent()
	if !ok {
		return modpath.Path{}, first.Span, false
	}
	segs := []string{first.Text}
	span := first.Span
	for p.atOp("::") {
		p.advance()
		seg, ok := p.expectIdent()
		if !ok {
			return modpath.Path{}, span, false
		}
		segs = append(segs, seg.Text)
		span = span.Cover(seg.Span)
	}
	return modpath.Of(segs...), span, true
}

// parseFn: `fn name(params) [-> type] { body }` или `fn name(...);` для extern.
func (p *Parser) parseFn(attrs []ast.Attr) (*ast.Node, bool) {
	start := p.advance().Span // fn
	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}
	fn := &ast.Function{Name: name.Text, NameSpan: name.Span}
	node := &ast.Node{Kind: ast.NodeFunction, Function: fn}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	for !p.at(token.RParen) {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		fn.Params = append(fn.Params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance() // допускается завершающая запятая
	}
	end, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list")
	if !ok {
		return nil, false
	}
	node.Span = start.Cover(end.Span)

	if p.atOp("->") {
		p.advance()
		ret, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fn.ReturnType = ret
		node.Span = node.Span.Cover(ret.Span)
	}

	if p.at(token.Semicolon) {
		semi := p.advance()
		node.Span = node.Span.Cover(semi.Span)
		if _, isExtern := ast.FindAttr(attrs, "extern"); !isExtern {
			p.report(diag.SynMissingBody, diag.SevError, name.Span, "function `"+name.Text+"` has no body; only #[extern] functions may omit it")
		}
		return node, true
	}

	body, ok := p.parseBlock()
	if body != nil {
		fn.Body = body
		node.Span = node.Span.Cover(body.Span)
	}
	return node, ok
}

func (p *Parser) parseParam() (ast.Param, bool) {
	var param ast.Param
	startSpan := p.ts.Peek().Span
	if p.at(token.KwMut) {
		p.advance()
		param.Mutable = true
	}
	name, ok := p.expectIdent()
	if !ok {
		return param, false
	}
	param.Name, param.NameSpan = name.Text, name.Span
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' and parameter type"); !ok {
		return param, false
	}
	typ, ok := p.parseType()
	if !ok {
		return param, false
	}
	param.Type = typ
	param.Span = startSpan.Cover(typ.Span)
	return param, true
}

// parseStruct: `struct Name { field: T, ... }`.
func (p *Parser) parseStruct() (*ast.Node, bool) {
	start := p.advance().Span // struct
	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}
	st := &ast.Struct{Name: name.Text, NameSpan: name.Span}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) {
		fname, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' and field type"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		st.Fields = append(st.Fields, ast.Field{Name: fname.Text, NameSpan: fname.Span, Type: typ})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct")
	if !ok {
		return nil, false
	}
	return &ast.Node{Kind: ast.NodeStruct, Span: start.Cover(end.Span), Struct: st}, true
}
