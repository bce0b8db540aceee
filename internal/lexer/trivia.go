package lexer

import (
	"lumen/internal/diag"
)

// skipTrivia пропускает пробелы, `// ...` до конца строки и `/* ... */`.
// Блочные комментарии не вложенные: первый `*/` закрывает комментарий.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) {
			lx.cursor.Bump()
			continue
		}
		b0, b1, ok := lx.cursor.Peek2()
		if !ok || b0 != '/' {
			return
		}
		switch b1 {
		case '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}

// startsComment: впереди `//` или `/*`.
func (lx *Lexer) startsComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && (b1 == '/' || b1 == '*')
}
