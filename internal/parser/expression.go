package parser

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/token"
)

func (p *Parser) parseExpr() (*ast.Node, bool) {
	return p.parseBinaryExpr(precAssignment)
}

// parseBinaryExpr - precedence climbing; присваивание правоассоциативно.
func (p *Parser) parseBinaryExpr(minPrec int) (*ast.Node, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return nil, false
	}
	for {
		opTok := p.ts.Peek()
		info, isBinary := binaryOperator(opTok)
		if !isBinary || info.prec < minPrec {
			return left, true
		}
		p.advance()

		nextMinPrec := info.prec + 1
		if info.rightAssoc {
			nextMinPrec = info.prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return nil, false
		}
		span := left.Span.Cover(right.Span)
		if info.assign {
			left = &ast.Node{Kind: ast.NodeAssign, Span: span, Assign: &ast.Assign{Target: left, Value: right}}
			continue
		}
		left = &ast.Node{Kind: ast.NodeBinary, Span: span, Binary: &ast.Binary{
			Op: info.op, OpPos: opTok.Span, Left: left, Right: right,
		}}
	}
}

// parseUnaryExpr обрабатывает префиксы `-`, `!`, `&`, `&mut`.
func (p *Parser) parseUnaryExpr() (*ast.Node, bool) {
	tok := p.ts.Peek()
	var op ast.UnaryOp
	switch {
	case tok.Is("-"):
		op = ast.OpNeg
	case tok.Is("!"):
		op = ast.OpNot
	case tok.Is("&"):
		op = ast.OpRef
	default:
		return p.parsePrimary()
	}
	p.advance()
	if op == ast.OpRef && p.at(token.KwMut) {
		p.advance()
		op = ast.OpRefMut
	}
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return nil, false
	}
	return &ast.Node{Kind: ast.NodeUnary, Span: tok.Span.Cover(operand.Span), Unary: &ast.Unary{Op: op, Operand: operand}}, true
}

func (p *Parser) parsePrimary() (*ast.Node, bool) {
	tok := p.ts.Peek()
	switch {
	case tok.IsLiteral():
		p.advance()
		lit := literalOf(tok)
		return &ast.Node{Kind: ast.NodeLiteral, Span: tok.Span, Literal: &lit}, true
	case tok.Kind == token.Ident:
		return p.parseIdentOrCall()
	case tok.Kind == token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		if !ok {
			return nil, false
		}
		inner.Span = tok.Span.Cover(closeTok.Span)
		return inner, true
	case tok.Kind == token.Invalid:
		p.advance()
		return nil, false
	default:
		p.expectFailed(diag.SynExpectExpression, "expected expression")
		return nil, false
	}
}

func (p *Parser) parseIdentOrCall() (*ast.Node, bool) {
	path, span, ok := p.parsePath()
	if !ok {
		return nil, false
	}
	if !p.at(token.LParen) {
		return &ast.Node{Kind: ast.NodeIdent, Span: span, Ident: &ast.Ident{Path: path}}, true
	}
	p.advance()
	call := &ast.Call{Callee: path, CalleeSpan: span}
	for !p.at(token.RParen) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		call.Args = append(call.Args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list")
	if !ok {
		return nil, false
	}
	return &ast.Node{Kind: ast.NodeCall, Span: span.Cover(closeTok.Span), Call: call}, true
}

func literalOf(tok token.Token) ast.Literal {
	lit := ast.Literal{Text: tok.Text, Value: tok.Text}
	switch tok.Kind {
	case token.IntLit:
		lit.Kind = ast.LitInt
	case token.FloatLit:
		lit.Kind = ast.LitFloat
	case token.StringLit:
		lit.Kind, lit.Value = ast.LitString, tok.Value
	case token.CharLit:
		lit.Kind, lit.Value = ast.LitChar, tok.Value
	case token.KwTrue, token.KwFalse:
		lit.Kind = ast.LitBool
	}
	return lit
}
