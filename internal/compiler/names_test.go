package compiler

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestEncodeName(t *testing.T) {
	cases := map[uint64]string{
		0:   "a",
		1:   "b",
		15:  "p",
		16:  "ba",
		17:  "bb",
		255: "pp",
		256: "baa",
	}
	for n, want := range cases {
		be.Equal(t, EncodeName(n), want)
	}
}

func TestNameCounterDistinct(t *testing.T) {
	var c NameCounter
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		name := c.Next()
		if name == "" {
			t.Fatalf("draw %d produced an empty name", i)
		}
		if _, dup := seen[name]; dup {
			t.Fatalf("draw %d repeated %q", i, name)
		}
		for _, r := range name {
			if r < 'a' || r > 'p' {
				t.Fatalf("name %q uses a letter outside a..p", name)
			}
		}
		seen[name] = struct{}{}
	}
	be.Equal(t, c.Count(), uint64(10000))
}

func TestContextDefaults(t *testing.T) {
	ctx := New(t.TempDir(), Options{})
	be.Equal(t, ctx.Options.Extension, "lm")
	be.Equal(t, ctx.Options.MaxDiagnostics, 100)
	be.Equal(t, ctx.Options.Prelude.String(), "std::mod")
	be.Equal(t, ctx.FreshName(), "a")
	be.Equal(t, ctx.FreshName(), "b")
}
