package lexer

import (
	"strings"
	"unicode/utf8"

	"lumen/internal/diag"
	"lumen/internal/token"
)

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	value, ok := lx.scanQuoted('"', diag.LexUnterminatedString, "unterminated string literal")
	if !ok {
		return lx.tokenFrom(token.Invalid, start)
	}
	tok := lx.tokenFrom(token.StringLit, start)
	tok.Value = value
	return tok
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	value, ok := lx.scanQuoted('\'', diag.LexUnterminatedChar, "unterminated character literal")
	if !ok {
		return lx.tokenFrom(token.Invalid, start)
	}
	tok := lx.tokenFrom(token.CharLit, start)
	if utf8.RuneCountInString(value) != 1 {
		lx.errLex(diag.LexBadCharLength, tok.Span, "character literal must contain exactly one character")
		tok.Kind = token.Invalid
		return tok
	}
	tok.Value = value
	return tok
}

// scanQuoted читает литерал до закрывающей кавычки на той же строке.
// Неизвестный escape репортится, но литерал продолжается.
func (lx *Lexer) scanQuoted(quote byte, unterminated diag.Code, msg string) (string, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.errLex(unterminated, lx.cursor.SpanFrom(start), msg)
			return "", false
		}
		b := lx.cursor.Bump()
		switch b {
		case quote:
			return sb.String(), true
		case '\\':
			escStart := lx.cursor.Off - 1
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				continue
			}
			e := lx.cursor.Bump()
			if r, ok := unescape(e); ok {
				sb.WriteByte(r)
				continue
			}
			sp := lx.cursor.SpanFrom(Mark(escStart))
			lx.errLex(diag.LexBadEscape, sp, "invalid escape sequence "+lx.text(sp))
			sb.WriteByte(e)
		default:
			sb.WriteByte(b)
		}
	}
}

func unescape(e byte) (byte, bool) {
	switch e {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '0':
		return 0, true
	}
	return 0, false
}

// Unquote снимает кавычки и escape с сырого лексема; пара к scanQuoted.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			if r, ok := unescape(body[i]); ok {
				sb.WriteByte(r)
				continue
			}
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
