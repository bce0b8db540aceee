package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func TestPrettyUnderlinesSpan(t *testing.T) {
	fs := source.NewFileSetWithBase("/p")
	id := fs.Add("/p/src/main.lm", []byte("fn main() { let y = x; }\n"), 0)
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaUnresolvedIdentifier, source.Span{File: id, Start: 20, End: 21}, "unresolved identifier `x`"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	want := "src/main.lm:1:21: error SEM3002: unresolved identifier `x`\n" +
		"  1 | fn main() { let y = x; }\n" +
		"    | " + strings.Repeat(" ", 20) + "^\n"
	if buf.String() != want {
		t.Fatalf("pretty output mismatch:\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestJSONIncludesPositions(t *testing.T) {
	fs := source.NewFileSetWithBase("/p")
	id := fs.Add("/p/src/main.lm", []byte("fn f(){}\nfn f(){}\n"), 0)
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaNameCollision, source.Span{File: id, Start: 12, End: 13}, "duplicate"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"code": "SEM3001"`, `"start_line": 2`, `"start_col": 4`, `"count": 1`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}
