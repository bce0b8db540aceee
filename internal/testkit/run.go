package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lumenast "lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/driver"
	"lumen/internal/hir"
	"lumen/internal/mir"
	"lumen/internal/modpath"
)

// Mismatch is an expectation the compilation did not meet.
type Mismatch struct {
	Expect Expectation
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("line %d: %s of %s differs\n--- want\n%s\n--- got\n%s",
		m.Expect.Line, m.Expect.Kind, m.Expect.Module, m.Expect.Text, m.Got)
}

// Run lays the case files out under dir, compiles the project and
// compares every expectation. The error reports tool failures and broken
// span invariants; expectation failures come back as mismatches.
func Run(c Case, dir string) (*driver.Result, []Mismatch, error) {
	for _, f := range c.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, err
		}
		if err := os.WriteFile(path, []byte(f.Text), 0o600); err != nil {
			return nil, nil, err
		}
	}
	res, err := driver.Compile(dir, driver.Options{})
	if err != nil {
		return res, nil, err
	}

	for _, m := range res.Context.Modules.Modules() {
		if m.Path.IsStd() || m.Broken {
			continue
		}
		if err := CheckSpanInvariants(m, res.Context.Files.Get(m.File)); err != nil {
			return res, nil, fmt.Errorf("module %s: %w", m.Path, err)
		}
	}

	var out []Mismatch
	for _, e := range c.Expect {
		got := strings.TrimRight(render(res, e), "\n")
		if got != e.Text {
			out = append(out, Mismatch{Expect: e, Got: got})
		}
	}
	return res, out, nil
}

func render(res *driver.Result, e Expectation) string {
	ctx := res.Context
	switch e.Kind {
	case ExpectDiagnostics:
		return diag.FormatGoldenDiagnostics(ctx.Bag.Items(), ctx.Files, false)
	case ExpectModules:
		return strings.Join(ctx.Modules.Keys(), "\n")
	case ExpectAST:
		m, ok := ctx.Modules.Get(modpath.Parse(e.Module))
		if !ok {
			return "<no module " + e.Module + ">"
		}
		return lumenast.DumpString(m)
	case ExpectHIR:
		if res.HIR == nil {
			return "<no hir>"
		}
		m := res.HIR.Module(e.Module)
		if m == nil {
			return "<no module " + e.Module + ">"
		}
		var sb strings.Builder
		if err := hir.NewPrinter(&sb, res.HIR.Types).PrintModule(m); err != nil {
			return "<print error: " + err.Error() + ">"
		}
		return sb.String()
	case ExpectMIR:
		if res.MIR == nil {
			return "<no mir>"
		}
		m := res.MIR.Module(e.Module)
		if m == nil {
			return "<no module " + e.Module + ">"
		}
		var sb strings.Builder
		if err := mir.NewPrinter(&sb).PrintModule(m); err != nil {
			return "<print error: " + err.Error() + ">"
		}
		return sb.String()
	}
	return ""
}

// RunFile runs every case of a scenario file as a subtest.
func RunFile(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	cases, err := ExtractCases(data)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	if len(cases) == 0 {
		t.Fatalf("%s: no cases", path)
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			_, mismatches, err := Run(c, t.TempDir())
			if err != nil {
				t.Fatalf("%s:%d: %v", path, c.Line, err)
			}
			for _, m := range mismatches {
				t.Errorf("%s:%s", path, m)
			}
		})
	}
}
