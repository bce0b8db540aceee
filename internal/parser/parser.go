package parser

import (
	"slices"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/modpath"
	"lumen/internal/source"
	"lumen/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один файл
type Parser struct {
	ts       *stream
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile разбирает один файл в модуль с логическим путём path.
// Импорты и тело идут в порядке исходника; при ошибках модуль помечен Broken,
// но содержит всё, что удалось разобрать.
func ParseFile(file *source.File, path modpath.Path, opts Options) *ast.Module {
	p := &Parser{
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.ts = &stream{
		lx: lexer.New(file, lexer.Options{Reporter: countingReporter{p}}),
		reporter: func(code diag.Code, sp source.Span, msg string) {
			p.report(code, diag.SevError, sp, msg)
		},
	}

	mod := &ast.Module{Path: path.Normalize(), File: file.ID}
	p.parseItems(mod)
	mod.Broken = p.opts.CurrentErrors > 0
	return mod
}

// countingReporter пропускает ошибки лексера через счётчик парсера.
type countingReporter struct{ p *Parser }

func (r countingReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, _ []diag.Note) {
	r.p.report(code, sev, sp, msg)
}

func (p *Parser) at(k token.Kind) bool {
	return p.ts.Peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.ts.Peek().Kind)
}

func (p *Parser) atOp(op string) bool {
	return p.ts.Peek().Is(op)
}

// parseItems - основной цикл верхнего уровня: пока не EOF - parseItem.
func (p *Parser) parseItems(mod *ast.Module) {
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		before := p.ts.Peek().Span
		if !p.parseItem(mod) {
			p.resyncTop()
		}
		if p.ts.Peek().Span == before {
			// защита от зацикливания: item не съел ни одного токена
			p.advance()
		}
	}
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem(mod *ast.Module) bool {
	attrs, ok := p.parseAttributes()
	if !ok {
		return false
	}

	var node *ast.Node
	switch p.ts.Peek().Kind {
	case token.KwImport:
		if len(attrs) > 0 {
			p.report(diag.SynAttributeNotAllowed, diag.SevError, attrs[0].Span, "attributes cannot be applied to imports")
		}
		imp, ok := p.parseImport()
		if !ok {
			return false
		}
		mod.Imports = append(mod.Imports, imp)
		return true
	case token.KwFn:
		node, ok = p.parseFn(attrs)
	case token.KwStruct:
		node, ok = p.parseStruct()
	case token.KwLet:
		node, ok = p.parseLet()
	default:
		if p.at(token.Invalid) {
			p.advance()
			return false
		}
		p.err(diag.SynUnexpectedToken, "expected `fn`, `import`, `let` or `struct`, got "+describe(p.ts.Peek()))
		return false
	}
	if node != nil {
		if len(attrs) > 0 {
			node.Attrs = attrs
			node.Span = attrs[0].Span.Cover(node.Span)
		}
		mod.Body = append(mod.Body, node)
	}
	return ok
}

// resyncTop - восстановление после ошибки на верхнем уровне: прокручиваем до
// стартового токена следующего item вне скобок, съедая ';'.
func (p *Parser) resyncTop() {
	depth := 0
	for !p.at(token.EOF) {
		tok := p.ts.Peek()
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.KwFn, token.KwImport, token.KwStruct, token.KwLet:
			if depth == 0 {
				return
			}
		case token.Punct:
			if depth == 0 && tok.Text == "#" {
				return
			}
		}
		p.advance()
	}
}

// resyncStatement отбрасывает токены до ';' (съедается) или до '}' текущего
// блока (не съедается); вложенные блоки пропускаются целиком.
func (p *Parser) resyncStatement() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.ts.Peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
