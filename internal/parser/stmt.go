package parser

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/token"
)

// parseBlock: '{' stmt* '}'. Ошибка в операторе приводит к resyncStatement,
// закрывающая скобка блока при этом не теряется.
func (p *Parser) parseBlock() (*ast.Node, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil, false
	}
	block := &ast.Block{}
	node := &ast.Node{Kind: ast.NodeBlock, Span: open.Span, Block: block}

	for !p.at_or(token.RBrace, token.EOF) {
		if p.at(token.Semicolon) {
			p.advance() // пустые операторы
			continue
		}
		before := p.ts.Peek().Span
		stmt, ok := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		if !ok {
			p.resyncStatement()
			if p.ts.Peek().Span == before {
				p.advance()
			}
		}
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	if !ok {
		node.Span = node.Span.Cover(p.lastSpan)
		return node, false
	}
	node.Span = node.Span.Cover(closeTok.Span)
	return node, true
}

func (p *Parser) parseStmt() (*ast.Node, bool) {
	switch p.ts.Peek().Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.LBrace:
		return p.parseBlock()
	case token.KwFn, token.KwStruct, token.KwImport:
		p.err(diag.SynUnexpectedToken, "declarations are only allowed at the top level")
		return nil, false
	default:
		return p.parseExprStmt()
	}
}

// parseLet: `let [mut] name [: type] = expr ;`.
func (p *Parser) parseLet() (*ast.Node, bool) {
	start := p.advance().Span // let
	decl := &ast.Declare{}
	if p.at(token.KwMut) {
		p.advance()
		decl.Mutable = true
	}
	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}
	decl.Name, decl.NameSpan = name.Text, name.Span
	if p.at(token.Colon) {
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		decl.Type = typ
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let declaration"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	decl.Value = value
	node := &ast.Node{Kind: ast.NodeDeclare, Span: start.Cover(value.Span), Declare: decl}
	return node, p.finishStmt(node)
}

func (p *Parser) parseReturn() (*ast.Node, bool) {
	kw := p.advance()
	node := &ast.Node{Kind: ast.NodeReturn, Span: kw.Span, Return: &ast.Return{}}
	if !p.at_or(token.Semicolon, token.RBrace) {
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		node.Return.Value = value
		node.Span = node.Span.Cover(value.Span)
	}
	return node, p.finishStmt(node)
}

// parseIf: `if cond { } [else if ... | else { }]`.
func (p *Parser) parseIf() (*ast.Node, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	node := &ast.Node{Kind: ast.NodeIf, Span: kw.Span.Cover(then.Span), If: &ast.If{Cond: cond, Then: then}}
	if !p.at(token.KwElse) {
		return node, true
	}
	p.advance()
	var elseNode *ast.Node
	if p.at(token.KwIf) {
		elseNode, ok = p.parseIf()
	} else {
		elseNode, ok = p.parseBlock()
	}
	if elseNode != nil {
		node.If.Else = elseNode
		node.Span = node.Span.Cover(elseNode.Span)
	}
	return node, ok
}

func (p *Parser) parseExprStmt() (*ast.Node, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return expr, p.finishStmt(expr)
}

// finishStmt съедает ';' и расширяет span узла. Перед '}' точка с запятой не нужна.
func (p *Parser) finishStmt(node *ast.Node) bool {
	if p.at(token.Semicolon) {
		node.Span = node.Span.Cover(p.advance().Span)
		return true
	}
	if p.at_or(token.RBrace, token.EOF) {
		return true
	}
	// о мусорном символе уже сообщили; оператор битый, блок пересинхронизируется
	if p.at(token.Invalid) {
		return false
	}
	p.report(diag.SynExpectSemicolon, diag.SevError, p.lastSpan.Tail(), "expected ';' after statement")
	return true
}
