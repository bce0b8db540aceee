package diag

import (
	"fmt"
	"sort"
	"strings"

	"lumen/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics one per line
// (`error SEM3002 src/main.lm:1:21 message`), drops entries located in
// the built-in library and sorts every row (notes included) by position,
// so golden files do not depend on report order.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	rendered := renderDiagnostics(diags, fs, includeNotes, true)
	sortByPosition(rendered)
	return joinRendered(rendered)
}

// FormatShortDiagnostics is the same layout for CLI output. Stdlib paths
// are kept and the order of diags is preserved: pass Bag.Sorted() to get
// the print order. Notes follow their diagnostic.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return joinRendered(renderDiagnostics(diags, fs, includeNotes, false))
}

func renderDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes, skipInternal bool) []goldenDiagnostic {
	if fs == nil || len(diags) == 0 {
		return nil
	}
	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes, skipInternal)
	}
	return rendered
}

func sortByPosition(rendered []goldenDiagnostic) {
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Code < dj.Code
	})
}

func joinRendered(rendered []goldenDiagnostic) string {
	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes, skipInternal bool) []goldenDiagnostic {
	loc, ok := resolveSpan(fs, d.Primary)
	if ok && (!skipInternal || !isStdlibPath(loc.Path)) {
		out = append(out, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(fs, note.Span)
			if !nok || (skipInternal && isStdlibPath(nloc.Path)) {
				continue
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	if int(span.File) >= fs.Len() {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   file.RelPath(fs.BaseDir()),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func isStdlibPath(path string) bool {
	return strings.HasPrefix(path, "stdlib/")
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
