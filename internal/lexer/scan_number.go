package lexer

import (
	"lumen/internal/diag"
	"lumen/internal/token"
)

// Целые: [0-9]+, вещественные: [0-9]+ '.' [0-9]+.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.eatDigits()
	kind := token.IntLit
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.eatDigits()
		kind = token.FloatLit
	}
	if !lx.cursor.EOF() && isIdentStartByte(lx.cursor.Peek()) {
		lx.syncToSpace()
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "malformed number literal "+tok.Text)
		return tok
	}
	return lx.tokenFrom(kind, start)
}

func (lx *Lexer) eatDigits() {
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
