package diag

import (
	"testing"

	"lumen/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/main.lm", []byte("a\nb\n"), 0)
	stdFile := fs.AddVirtual("stdlib/io.lm", []byte("x\n"))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: stdFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaTypeMismatch,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SemaNameCollision,
			Message:  "hidden",
			Primary:  source.Span{File: stdFile, Start: 0, End: 1},
		},
	}

	expected := "error SYN2001 src/main.lm:1:1 first line second\n" +
		"note SYN2001 src/main.lm:2:1 note line\n" +
		"warning SEM3005 src/main.lm:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsOrder(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/src/main.lm", []byte("a\nb\nc\n"), 0)

	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaTypeMismatch, Message: "early warning",
		Primary: source.Span{File: file, Start: 0, End: 1}})
	bag.Add(New(SevError, SemaNameCollision, source.Span{File: file, Start: 4, End: 5}, "late error").
		WithNote(source.Span{File: file, Start: 0, End: 1}, "first seen here"))

	expected := "error SEM3001 src/main.lm:3:1 late error\n" +
		"note SEM3001 src/main.lm:1:1 first seen here\n" +
		"warning SEM3005 src/main.lm:1:1 early warning"
	if got := FormatShortDiagnostics(bag.Sorted(), fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
