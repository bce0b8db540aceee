package lexer

import (
	"lumen/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.tokenFrom(token.Ident, start)
	if kw, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = kw
	}
	return tok
}
