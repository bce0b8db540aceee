package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lumen/internal/diag"
	"lumen/internal/source"
)

type palette struct {
	err, warn, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.note
	}
}

// Pretty форматирует диагностики в человекочитаемый вид в порядке bag.Sorted():
//
//	src/main.lm:1:21: error SEM3002: unresolved identifier `x`
//	   1 | fn main() { let y = x; }
//	     |                     ^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Sorted() {
		prettyOne(w, &d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) suppressed\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", f.RelPath(fs.BaseDir()), start.Line, start.Col)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.loc.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.Label()),
		d.Code.ID(),
		d.Message)
	writeSnippet(w, f, start, end, opts.Context, p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, ne := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s: %s: %s\n",
			p.note.Sprint("note"),
			p.loc.Sprintf("%s:%d:%d", nf.RelPath(fs.BaseDir()), ns.Line, ns.Col),
			n.Msg)
		writeSnippet(w, nf, ns, ne, 0, p)
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	first := start.Line
	if context > 0 && int(first) > context {
		first -= uint32(context) // #nosec G115 -- context is small and positive
	} else if context > 0 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth+2, ln), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	prefix := expandTabs(prefixBytes(line, start.Col-1))
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = runewidth.StringWidth(expandTabs(prefixBytes(line, end.Col-1))) - runewidth.StringWidth(prefix)
		width = max(width, 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth+2, ""),
		strings.Repeat(" ", runewidth.StringWidth(prefix)),
		p.caret.Sprint(marker))
}

func prefixBytes(line string, n uint32) string {
	if int(n) > len(line) {
		return line
	}
	return line[:n]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
