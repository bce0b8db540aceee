// Package testkit runs markdown scenario files through the driver.
//
// A scenario file holds cases introduced by a "Case: <name>" heading.
// Each case has one or more `lumen file=<path>` fences with sources and
// expectation fences: diagnostics, ast, hir, mir and modules. An
// expectation fence may name another module with `module=<key>`.
package testkit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExpectKind is the language of an expectation fence.
type ExpectKind string

const (
	ExpectDiagnostics ExpectKind = "diagnostics"
	ExpectAST         ExpectKind = "ast"
	ExpectHIR         ExpectKind = "hir"
	ExpectMIR         ExpectKind = "mir"
	ExpectModules     ExpectKind = "modules"
)

const sourceLang = "lumen"

// DefaultModule is the module an ast/hir/mir fence shows unless it says
// otherwise.
const DefaultModule = "src::main"

// File is one source file of a case.
type File struct {
	Path string
	Text string
}

// Expectation is one expectation fence.
type Expectation struct {
	Kind   ExpectKind
	Module string
	Text   string
	Line   int
}

// Case is one scenario.
type Case struct {
	Name   string
	Line   int
	Files  []File
	Expect []Expectation
}

// ExtractCases parses markdown and returns its cases in document order.
func ExtractCases(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var (
		cases   []Case
		current *Case
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		if len(current.Files) == 0 {
			return fmt.Errorf("line %d: case %q has no %s fence", current.Line, current.Name, sourceLang)
		}
		if len(current.Expect) == 0 {
			return fmt.Errorf("line %d: case %q has no expectation fence", current.Line, current.Name)
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			title := nodeText(n, markdown)
			name, ok := strings.CutPrefix(title, "Case: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, markdown)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang, attrs := fenceInfo(n, markdown)
			line := lineOf(n, markdown)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, lang)
			}
			body := fenceBody(n, markdown)
			switch ExpectKind(lang) {
			case ExpectDiagnostics, ExpectAST, ExpectHIR, ExpectMIR, ExpectModules:
				mod := attrs["module"]
				if mod == "" {
					mod = DefaultModule
				}
				current.Expect = append(current.Expect, Expectation{
					Kind:   ExpectKind(lang),
					Module: mod,
					Text:   strings.TrimRight(body, "\n"),
					Line:   line,
				})
			default:
				if lang != sourceLang {
					return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in case %q", line, lang, current.Name)
				}
				path := attrs["file"]
				if path == "" {
					path = "src/main.lm"
				}
				for _, f := range current.Files {
					if f.Path == path {
						return ast.WalkStop, fmt.Errorf("line %d: file %s given twice in case %q", line, path, current.Name)
					}
				}
				current.Files = append(current.Files, File{Path: path, Text: body})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// fenceInfo splits "lumen file=src/a.lm" into the language and attributes.
func fenceInfo(n *ast.FencedCodeBlock, src []byte) (string, map[string]string) {
	if n.Info == nil {
		return "", nil
	}
	fields := strings.Fields(string(n.Info.Segment.Value(src)))
	if len(fields) == 0 {
		return "", nil
	}
	attrs := make(map[string]string, len(fields)-1)
	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok {
			attrs[k] = v
		}
	}
	return fields[0], attrs
}

func fenceBody(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func nodeText(node ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func lineOf(node ast.Node, src []byte) int {
	start := 0
	if fc, ok := node.(*ast.FencedCodeBlock); ok && fc.Info != nil {
		start = fc.Info.Segment.Start
	} else if node.Lines().Len() > 0 {
		start = node.Lines().At(0).Start
	}
	return bytes.Count(src[:min(start, len(src))], []byte("\n")) + 1
}
