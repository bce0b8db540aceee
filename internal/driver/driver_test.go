package driver_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/compiler"
	"lumen/internal/diag"
	"lumen/internal/driver"
	"lumen/internal/hir"
	"lumen/internal/mir"
	"lumen/internal/observ"
	"lumen/internal/resolve"
	"lumen/internal/token"
	"lumen/internal/trace"
	"lumen/stdlib"
)

// writeProject lays out files (relative slash paths) under a temp root.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func compile(t *testing.T, files map[string]string, opts driver.Options) *driver.Result {
	t.Helper()
	res, err := driver.Compile(writeProject(t, files), opts)
	be.Err(t, err, nil)
	return res
}

func format(res *driver.Result) string {
	return diag.FormatGoldenDiagnostics(res.Context.Bag.Items(), res.Context.Files, false)
}

func expectClean(t *testing.T, res *driver.Result) {
	t.Helper()
	if !res.OK() || res.Context.Bag.Len() != 0 {
		t.Fatalf("expected clean compile, failed at %s:\n%s", res.Failed, format(res))
	}
}

func mainMIR(t *testing.T, res *driver.Result) string {
	t.Helper()
	var sb strings.Builder
	be.Err(t, mir.NewPrinter(&sb).PrintModule(res.MIR.Module("src::main")), nil)
	return sb.String()
}

func TestEmptyMain(t *testing.T) {
	res := compile(t, map[string]string{"src/main.lm": "fn main() {}"}, driver.Options{})
	expectClean(t, res)

	m, ok := res.Context.Modules.Get(res.HIR.Module("src::main").Path)
	be.True(t, ok)
	be.Equal(t, len(m.Body), 1)

	var sb strings.Builder
	be.Err(t, hir.NewPrinter(&sb, res.HIR.Types).PrintModule(res.HIR.Module("src::main")), nil)
	be.True(t, strings.Contains(sb.String(), "Block []"))

	be.Equal(t, mainMIR(t, res), "module src::main\n  Function src::main::main() -> Void\n    Block\n      Return\n")
}

func TestIntegerDeclaration(t *testing.T) {
	res := compile(t, map[string]string{"src/main.lm": "fn main() { let x: i32 = 42; }"}, driver.Options{})
	expectClean(t, res)
	be.True(t, strings.Contains(hir.DumpString(res.HIR), "DeclareVariable x: i32 = Literal(42)"))
	be.True(t, strings.Contains(mainMIR(t, res), "DeclareVariable x: Int(32) = Literal(42)"))
}

func TestUndefinedVariableStopsBeforeLowering(t *testing.T) {
	res := compile(t, map[string]string{"src/main.lm": "fn main() { let y = x; }"}, driver.Options{})
	be.Equal(t, res.Failed, driver.StageAnalyze)
	be.True(t, res.MIR == nil)

	items := res.Context.Bag.Items()
	be.Equal(t, len(items), 1)
	be.Equal(t, items[0].Code, diag.SemaUnresolvedIdentifier)
	be.Equal(t, string(res.Context.Files.Text(items[0].Primary)), "x")
}

func TestDuplicateFunction(t *testing.T) {
	src := "fn f(){} fn f(){}"
	res := compile(t, map[string]string{"src/main.lm": src}, driver.Options{})
	be.Equal(t, res.Failed, driver.StageAnalyze)
	items := res.Context.Bag.Items()
	be.Equal(t, len(items), 1)
	be.Equal(t, items[0].Code, diag.SemaNameCollision)
	be.Equal(t, int(items[0].Primary.Start), strings.LastIndex(src, "f("))
}

func TestStdlibImport(t *testing.T) {
	res := compile(t, map[string]string{"src/main.lm": "import std::io; fn main(){}"}, driver.Options{})
	expectClean(t, res)
	keys := res.Context.Modules.Keys()
	be.True(t, slices.Contains(keys, "src::main"))
	be.True(t, slices.Contains(keys, "std::io"))
	be.True(t, res.MIR.Module("std::io") != nil)
	be.True(t, res.MIR.Module("src::main") != nil)
	// встроенная библиотека целиком, даже неимпортированные модули
	be.Equal(t, len(res.MIR.Modules), len(stdlib.Modules())+1)
}

func TestImportCycleIsLegal(t *testing.T) {
	res := compile(t, map[string]string{
		"src/main.lm": "import src::a; fn main() {}",
		"src/a.lm":    "import src::b; fn fa() {}",
		"src/b.lm":    "import src::a; fn fb() {}",
	}, driver.Options{})
	expectClean(t, res)
	keys := res.Context.Modules.Keys()
	be.True(t, slices.Contains(keys, "src::a"))
	be.True(t, slices.Contains(keys, "src::b"))

	cycles := res.Graph.CycleNames()
	be.Equal(t, cycles, [][]string{{"src::a", "src::b"}})
	be.True(t, res.Graph.Topo.Cyclic)
}

func TestGraphOrderPutsImportsFirst(t *testing.T) {
	res := compile(t, map[string]string{
		"src/main.lm": "import src::util; fn main() {}",
		"src/util.lm": "fn helper() {}",
	}, driver.Options{StopAfter: driver.StageResolve})
	expectClean(t, res)
	be.True(t, res.HIR == nil)

	order := res.Graph.Order()
	be.True(t, slices.Index(order, "src::util") < slices.Index(order, "src::main"))
	be.True(t, slices.Index(order, "std::mod") < slices.Index(order, "src::util"))
	be.Equal(t, res.Graph.Imports("src::main"), []string{"src::util", "std::mod"})

	h1, ok := res.Graph.Hash("src::main")
	be.True(t, ok)
	h2, _ := res.Graph.Hash("src::util")
	be.True(t, h1 != h2)
}

func TestBorrowErrorsStopBeforeLowering(t *testing.T) {
	src := `
struct P { x: i32 }
fn take(p: P) {}
fn twice(p: P) { take(p); take(p); }
fn main() {}
`
	res := compile(t, map[string]string{"src/main.lm": src}, driver.Options{})
	be.Equal(t, res.Failed, driver.StageBorrow)
	be.True(t, res.MIR == nil)
	be.Equal(t, res.Context.Bag.Items()[0].Code, diag.OwnUseAfterMove)
}

func TestStopAfterAnalyze(t *testing.T) {
	res := compile(t, map[string]string{"src/main.lm": "fn main() {}"}, driver.Options{StopAfter: driver.StageAnalyze})
	expectClean(t, res)
	be.True(t, res.HIR != nil)
	be.True(t, res.MIR == nil)
}

func TestMissingEntryIsToolError(t *testing.T) {
	_, err := driver.Compile(t.TempDir(), driver.Options{})
	if !errors.Is(err, resolve.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestPassesAreTracedAndTimed(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDetail)
	timer := observ.NewTimer()
	var events []driver.PhaseEvent
	res := compile(t, map[string]string{"src/main.lm": "import std::io; fn main() {}"}, driver.Options{
		Tracer:   ring,
		Timer:    timer,
		Observer: func(ev driver.PhaseEvent) { events = append(events, ev) },
	})
	expectClean(t, res)

	var passes, modules []string
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Scope == trace.ScopePass && ev.Kind == trace.KindSpanBegin:
			passes = append(passes, ev.Name)
		case ev.Scope == trace.ScopeModule:
			modules = append(modules, ev.Name)
		}
	}
	be.Equal(t, passes, []string{"resolve", "analyze", "borrow", "lower"})
	be.True(t, slices.Contains(modules, "module:std::io"))

	var names []string
	for _, p := range timer.Phases() {
		names = append(names, p.Name)
	}
	be.Equal(t, names, passes)
	be.Equal(t, len(events), 8)
	be.Equal(t, events[0], driver.PhaseEvent{Name: "resolve", Status: driver.PhaseStart})
}

func TestStatusLines(t *testing.T) {
	var out strings.Builder
	opts := compiler.DefaultOptions()
	res := compile(t, map[string]string{"src/main.lm": "fn main() {}"}, driver.Options{Compiler: opts, Progress: &out})
	expectClean(t, res)
	// без Status строки не печатаются
	be.Equal(t, out.String(), "")

	opts.Status = true
	res = compile(t, map[string]string{"src/main.lm": "fn main() {}"}, driver.Options{Compiler: opts, Progress: &out})
	expectClean(t, res)
	be.Equal(t, out.String(), "resolve...\nanalyze...\nborrow...\nlower...\n")
}

func TestTokenize(t *testing.T) {
	root := writeProject(t, map[string]string{"a.lm": "fn main() { let s = \"oops; }"})
	res, err := driver.Tokenize(filepath.Join(root, "a.lm"), 10)
	be.Err(t, err, nil)
	be.Equal(t, res.Tokens[len(res.Tokens)-1].Kind, token.EOF)
	be.Equal(t, res.Tokens[0].Kind, token.KwFn)
	be.Equal(t, res.Bag.Items()[0].Code, diag.LexUnterminatedString)

	_, err = driver.Tokenize(filepath.Join(root, "missing.lm"), 10)
	be.True(t, err != nil)
}
