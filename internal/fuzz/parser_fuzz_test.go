package fuzztests

import (
	"testing"
	"time"

	"lumen/internal/diag"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/source"
	"lumen/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)

	// пограничные случаи восстановления после ошибок
	f.Add([]byte("fn test() { let x: i32 = 1\nlet y: i32 = 2; }"))
	f.Add([]byte("fn test() { x + y\nlet z: i32 = 3; }"))
	f.Add([]byte("{ let x = 1 }"))
	f.Add([]byte("fn f() { { { { } } } }"))
	f.Add([]byte("fn f( {}"))
	f.Add([]byte("@extern fn"))
	f.Add([]byte("struct S { a: i32, b: &mut S"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.lm", input))
		bag := diag.NewBag(128)

		done := make(chan error, 1)
		go func() {
			m := parser.ParseFile(file, modpath.Parse("src::fuzz"), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
			if m.Broken {
				// после восстановления спаны могут быть приблизительными
				done <- nil
				return
			}
			done <- testkit.CheckSpanInvariants(m, file)
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("span invariant: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
