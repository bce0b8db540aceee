package parser

import (
	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/token"
)

// operators в порядке убывания длины: серия пунктуации режется жадно.
var operators = []string{
	"->", "::", "==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "&", "!", "#", ":", "=",
}

// stream поверх лексера: режет Punct-серии на отдельные операторы.
type stream struct {
	lx       *lexer.Lexer
	queue    []token.Token
	reporter func(code diag.Code, sp source.Span, msg string)
}

func (s *stream) fill() {
	for len(s.queue) == 0 {
		tok := s.lx.Next()
		if tok.Kind != token.Punct {
			s.queue = append(s.queue, tok)
			return
		}
		s.queue = append(s.queue, s.split(tok)...)
	}
}

func (s *stream) Peek() token.Token {
	s.fill()
	return s.queue[0]
}

func (s *stream) Next() token.Token {
	s.fill()
	tok := s.queue[0]
	if tok.Kind != token.EOF {
		s.queue = s.queue[1:]
	}
	return tok
}

// split режет run по самому длинному совпадению с таблицей операторов.
func (s *stream) split(run token.Token) []token.Token {
	var out []token.Token
	text := run.Text
	off := run.Span.Start
	for len(text) > 0 {
		op := longestOperator(text)
		n := len(op)
		kind := token.Punct
		if n == 0 {
			n = 1
			kind = token.Invalid
		}
		sp := source.Span{File: run.Span.File, Start: off, End: off + uint32(n)} // #nosec G115 -- n <= 2
		switch op {
		case ":":
			kind = token.Colon
		case "=":
			kind = token.Assign
		}
		tok := token.Token{Kind: kind, Span: sp, Text: text[:n]}
		if kind == token.Invalid && s.reporter != nil {
			s.reporter(diag.SynUnexpectedToken, sp, "unexpected character '"+tok.Text+"'")
		}
		out = append(out, tok)
		text = text[n:]
		off += uint32(n) // #nosec G115
	}
	return out
}

func longestOperator(text string) string {
	for _, op := range operators {
		if len(op) <= len(text) && text[:len(op)] == op {
			return op
		}
	}
	return ""
}
