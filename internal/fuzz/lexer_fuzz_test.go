package fuzztests

import (
	"testing"

	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.lm", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		toks := lx.All()
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}

		var prevEnd uint32
		for _, tok := range toks {
			sp := tok.Span
			if sp.Start < prevEnd || sp.End < sp.Start || int(sp.End) > len(input) {
				t.Fatalf("bad span %v after %d for %s in %q", sp, prevEnd, tok.Kind, truncateForLog(input, 200))
			}
			if tok.Kind != token.EOF && string(input[sp.Start:sp.End]) != tok.Text {
				t.Fatalf("token text %q does not match source %q", tok.Text, input[sp.Start:sp.End])
			}
			prevEnd = sp.End
		}
	})
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
