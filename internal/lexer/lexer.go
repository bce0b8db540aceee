package lexer

import (
	"fmt"
	"unicode/utf8"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	case isDelimiter(ch):
		return lx.scanDelimiter()
	case isPunctByte(ch):
		return lx.scanPunctRun()
	default:
		return lx.scanUnknown()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the rest of the file, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) tokenFrom(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// syncToSpace пропускает всё до ближайшего пробельного символа.
func (lx *Lexer) syncToSpace() {
	for !lx.cursor.EOF() && !isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	lx.cursor.Off += uint32(size) // #nosec G115 -- size <= 4
	lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("invalid character %q", r))
	lx.syncToSpace()
	return lx.tokenFrom(token.Invalid, start)
}
