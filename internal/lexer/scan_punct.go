package lexer

import (
	"lumen/internal/token"
)

var delimiters = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
}

func (lx *Lexer) scanDelimiter() token.Token {
	start := lx.cursor.Mark()
	kind := delimiters[lx.cursor.Bump()]
	return lx.tokenFrom(kind, start)
}

// scanPunctRun забирает максимальную серию знаков пунктуации; разбор на
// операторы делает парсер. Одиночные ':' и '=' получают свои виды.
func (lx *Lexer) scanPunctRun() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isPunctByte(lx.cursor.Peek()) && !lx.startsComment() {
		lx.cursor.Bump()
	}
	tok := lx.tokenFrom(token.Punct, start)
	switch tok.Text {
	case ":":
		tok.Kind = token.Colon
	case "=":
		tok.Kind = token.Assign
	}
	return tok
}
