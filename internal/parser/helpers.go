package parser

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.ts.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan - на EOF указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.ts.Peek()
	if peek.Kind == token.EOF {
		return p.lastSpan.Tail()
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.expectFailed(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

// expectOp - как expect, но для оператора из Punct-серии.
func (p *Parser) expectOp(op string, code diag.Code, msg string) (token.Token, bool) {
	if p.atOp(op) {
		return p.advance(), true
	}
	p.expectFailed(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

func (p *Parser) expectFailed(code diag.Code, msg string) {
	// о токенах Invalid уже сообщил лексер
	if p.at(token.Invalid) {
		return
	}
	p.report(code, diag.SevError, p.getDiagnosticSpan(), fmt.Sprintf("%s, got %s", msg, describe(p.ts.Peek())))
}

func (p *Parser) expectIdent() (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	limited := p.opts.Enough()
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || limited {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Invalid:
		return "invalid token"
	}
	return fmt.Sprintf("%q", tok.Text)
}
