package testkit_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/testkit"
)

func TestPipelineScenarios(t *testing.T) {
	testkit.RunFile(t, "testdata/pipeline.md")
}

const twoFiles = "# Scenarios\n\n" +
	"Some prose that is ignored.\n\n" +
	"## Case: cycle\n\n" +
	"```lumen\nimport src::a; fn main() {}\n```\n\n" +
	"```lumen file=src/a.lm\nfn fa() {}\n```\n\n" +
	"```modules\nsrc::a\nsrc::main\nstd::mod\n```\n\n" +
	"```mir module=src::a\nmodule src::a\n```\n\n" +
	"## Case: second\n\n" +
	"```lumen\nfn main() {}\n```\n\n" +
	"```diagnostics\n```\n"

func TestExtractCases(t *testing.T) {
	cases, err := testkit.ExtractCases([]byte(twoFiles))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "cycle")
	be.Equal(t, c.Files, []testkit.File{
		{Path: "src/main.lm", Text: "import src::a; fn main() {}\n"},
		{Path: "src/a.lm", Text: "fn fa() {}\n"},
	})
	be.Equal(t, len(c.Expect), 2)
	be.Equal(t, c.Expect[0].Kind, testkit.ExpectModules)
	be.Equal(t, c.Expect[0].Module, testkit.DefaultModule)
	be.Equal(t, c.Expect[0].Text, "src::a\nsrc::main\nstd::mod")
	be.Equal(t, c.Expect[1].Kind, testkit.ExpectMIR)
	be.Equal(t, c.Expect[1].Module, "src::a")

	be.Equal(t, cases[1].Name, "second")
	be.Equal(t, cases[1].Expect[0].Text, "")
}

func TestExtractCasesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"fence outside case", "```lumen\nfn main() {}\n```\n", "outside of a case"},
		{"unknown language", "## Case: x\n\n```rust\nfn main() {}\n```\n", "unknown fence language"},
		{"duplicate file", "## Case: x\n\n```lumen\n```\n\n```lumen file=src/main.lm\n```\n", "given twice"},
		{"no files", "## Case: x\n\n```mir\n```\n", "has no lumen fence"},
		{"no expectation", "## Case: x\n\n```lumen\nfn main() {}\n```\n", "no expectation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testkit.ExtractCases([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunReportsMismatch(t *testing.T) {
	c := testkit.Case{
		Name:  "wrong",
		Files: []testkit.File{{Path: "src/main.lm", Text: "fn main() {}"}},
		Expect: []testkit.Expectation{
			{Kind: testkit.ExpectMIR, Module: testkit.DefaultModule, Text: "module src::other", Line: 7},
			{Kind: testkit.ExpectDiagnostics, Module: testkit.DefaultModule, Text: ""},
		},
	}
	res, mismatches, err := testkit.Run(c, t.TempDir())
	be.Err(t, err, nil)
	be.True(t, res.OK())
	be.Equal(t, len(mismatches), 1)
	be.True(t, strings.HasPrefix(mismatches[0].Got, "module src::main"))
	be.True(t, strings.HasPrefix(mismatches[0].String(), "line 7: mir of src::main differs"))
}

func TestRunWithoutMIR(t *testing.T) {
	c := testkit.Case{
		Name:  "broken",
		Files: []testkit.File{{Path: "src/main.lm", Text: "fn main() { let y = x; }"}},
		Expect: []testkit.Expectation{
			{Kind: testkit.ExpectMIR, Module: testkit.DefaultModule, Text: "<no mir>"},
		},
	}
	_, mismatches, err := testkit.Run(c, t.TempDir())
	be.Err(t, err, nil)
	be.Equal(t, len(mismatches), 0)
}
