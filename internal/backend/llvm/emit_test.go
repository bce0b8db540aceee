package llvm_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/ast"
	"lumen/internal/backend/llvm"
	"lumen/internal/compiler"
	"lumen/internal/diag"
	"lumen/internal/mir"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/stdlib"
)

func lower(t *testing.T, main string) *mir.Program {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(100)
	coll := ast.NewCollection()
	add := func(path modpath.Path, name string, src []byte) {
		file := fs.Get(fs.AddVirtual(name, src))
		coll.Insert(parser.ParseFile(file, path, parser.Options{Reporter: diag.BagReporter{Bag: bag}}))
	}
	for _, p := range stdlib.Modules() {
		src, _ := stdlib.Source(p)
		add(p, stdlib.VirtualPath(p), src)
	}
	add(modpath.Of("src", "main"), "src/main.lm", []byte(main))
	prog, ok := sema.Analyze(coll, sema.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Prelude:  modpath.Parse("std::mod"),
	})
	if !ok {
		t.Fatalf("front end failed:\n%s", diag.FormatGoldenDiagnostics(bag.Items(), fs, false))
	}
	return mir.Lower(prog, mir.LowerOptions{Entry: "src::main"})
}

func emit(t *testing.T, main string) map[string]string {
	t.Helper()
	ctx := compiler.New(t.TempDir(), compiler.DefaultOptions())
	units, err := llvm.Emit(lower(t, main), llvm.Options{Names: ctx})
	be.Err(t, err, nil)
	out := make(map[string]string, len(units))
	for _, u := range units {
		out[u.Key] = u.Module.String()
	}
	return out
}

func contains(t *testing.T, text string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(text, w) {
			t.Errorf("missing %q in:\n%s", w, text)
		}
	}
}

func TestEmptyMain(t *testing.T) {
	ir := emit(t, "fn main() {}")
	main := ir["src::main"]
	contains(t, main,
		`target triple = "x86_64-unknown-linux-gnu"`,
		"define void @src.main.main()",
		"define i32 @main()",
		"call void @src.main.main()",
		"ret i32 0",
	)
	// только точка входа получает нативный main
	be.True(t, !strings.Contains(ir["std::io"], "@main()"))
}

func TestNamesComeFromCounter(t *testing.T) {
	ir := emit(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }
fn main() { let x = add(1, 2); if x > 2 { let y = x; } }
`)
	main := ir["src::main"]
	if regexp.MustCompile(`%[0-9]`).MatchString(main) {
		t.Fatalf("numbered values in:\n%s", main)
	}
	contains(t, main, "define i32 @src.main.add(i32 %", "alloca i32", "icmp sgt i32", "br i1")
}

func TestExternCalls(t *testing.T) {
	ir := emit(t, `
import std::io;
import std::math;
fn main() {
    io::println("hello");
    io::print_int(42);
    let r = math::sqrt(2.0);
}
`)
	main := ir["src::main"]
	contains(t, main,
		"declare void @lumen_println(i8* %",
		"declare void @lumen_print_i64(i64 %",
		"declare i64 @lumen_sqrt(i8* %",
		"alloca i128",
		"bitcast i128*",
		"call void @lumen_println(i8*",
		"call void @lumen_print_i64(i64 42)",
		`c"hello"`,
		"ptrtoint",
	)
	// 2.0 как биты f64
	contains(t, main, "i64 4611686018427387904")
	contains(t, ir["std::io"], "declare void @lumen_println(i8* %")
}

func TestOperators(t *testing.T) {
	ir := emit(t, `
fn f(a: u8, b: u8, c: bool, d: bool) -> bool {
    let q = a / b;
    let r = a % b;
    return c && d || !c && q < r;
}
fn g(x: i64) -> i64 { return -x; }
fn main() {}
`)
	main := ir["src::main"]
	contains(t, main, "udiv i8", "urem i8", "icmp ult i8", "phi i1", "xor i1", "sub i64 0")
}

func TestReferencesAndGlobals(t *testing.T) {
	ir := emit(t, `
let mut TOTAL: i64 = 0;
let NAME: str = "lumen";
let BIG: u64 = 18446744073709551615;
fn bump(r: &mut i64) {}
fn main() {
    let mut local: i64 = 1;
    bump(&mut local);
    bump(&mut TOTAL);
}
`)
	main := ir["src::main"]
	contains(t, main,
		"@src.main.TOTAL = global i64 0",
		"@src.main.NAME = constant i128",
		"@src.main.BIG = constant i64 -1",
		"define void @src.main.bump(i8* %",
		"inttoptr i64",
		"ptrtoint i64* @src.main.TOTAL",
	)
}

func TestCrossModuleDeclarations(t *testing.T) {
	ir := emit(t, "fn main() { let m = max(1, 2); }")
	contains(t, ir["src::main"], "declare i64 @std.mod.max(i64 %", "call i64 @std.mod.max(i64 1, i64 2)")
	contains(t, ir["std::mod"], "define i64 @std.mod.max(")
}

func TestMainIsRequired(t *testing.T) {
	ctx := compiler.New(t.TempDir(), compiler.DefaultOptions())
	_, err := llvm.Emit(lower(t, "fn helper() {}"), llvm.Options{Names: ctx})
	if !errors.Is(err, llvm.ErrNoMain) {
		t.Fatalf("expected ErrNoMain, got %v", err)
	}
}

func TestMainReturningExitCode(t *testing.T) {
	ir := emit(t, "fn main() -> i32 { return 3; }")
	contains(t, ir["src::main"], "define i32 @src.main.main()", "ret i32 3")
}
