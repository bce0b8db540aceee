package sema_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/stdlib"
)

type analyzed struct {
	prog *hir.Program
	ok   bool
	bag  *diag.Bag
	fs   *source.FileSet
}

// analyze parses the given modules (keyed by logical path) together with the
// whole built-in library and runs the analyzer.
func analyze(t *testing.T, modules map[string]string) analyzed {
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
	for key, src := range modules {
		p := modpath.Parse(key)
		add(p, strings.ReplaceAll(key, "::", "/")+".lm", []byte(src))
	}
	if bag.Len() != 0 {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	prog, ok := sema.Analyze(coll, sema.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Prelude:  modpath.Parse("std::mod"),
	})
	return analyzed{prog: prog, ok: ok, bag: bag, fs: fs}
}

func analyzeMain(t *testing.T, src string) analyzed {
	t.Helper()
	return analyze(t, map[string]string{"src::main": src})
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func dumpModule(t *testing.T, res analyzed, key string) string {
	t.Helper()
	m := res.prog.Module(key)
	if m == nil {
		t.Fatalf("module %s missing from program", key)
	}
	var sb strings.Builder
	if err := hir.NewPrinter(&sb, res.prog.Types).PrintModule(m); err != nil {
		t.Fatalf("print: %v", err)
	}
	return sb.String()
}

func expectClean(t *testing.T, res analyzed) {
	t.Helper()
	if !res.ok || res.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatGoldenDiagnostics(res.bag.Items(), res.fs, false))
	}
}

func expectCodes(t *testing.T, res analyzed, want ...diag.Code) {
	t.Helper()
	be.Equal(t, codes(res.bag), want)
	be.True(t, !res.ok)
}

func TestStdlibChecksCleanly(t *testing.T) {
	res := analyzeMain(t, "fn main() {}")
	expectClean(t, res)
	be.Equal(t, len(res.prog.Modules), len(stdlib.Modules())+1)
}

func TestEmptyMain(t *testing.T) {
	res := analyzeMain(t, "fn main() {}")
	expectClean(t, res)
	want := strings.Join([]string{
		"module src::main",
		"  Function src::main::main() -> void",
		"    Block []",
		"",
	}, "\n")
	be.Equal(t, dumpModule(t, res, "src::main"), want)
}

func TestIntegerDeclaration(t *testing.T) {
	res := analyzeMain(t, "fn main() { let x: i32 = 42; }")
	expectClean(t, res)
	be.True(t, strings.Contains(dumpModule(t, res, "src::main"), "DeclareVariable x: i32 = Literal(42)"))
}

func TestUndefinedVariable(t *testing.T) {
	src := "fn main() { let y = x; }"
	res := analyzeMain(t, src)
	expectCodes(t, res, diag.SemaUnresolvedIdentifier)
	sp := res.bag.Items()[0].Primary
	be.Equal(t, string(res.fs.Text(sp)), "x")
}

func TestDuplicateFunction(t *testing.T) {
	src := "fn f(){} fn f(){}"
	res := analyzeMain(t, src)
	expectCodes(t, res, diag.SemaNameCollision)
	d := res.bag.Items()[0]
	be.Equal(t, int(d.Primary.Start), strings.LastIndex(src, "f("))
	be.Equal(t, len(d.Notes), 1)
	be.Equal(t, len(res.prog.Module("src::main").Funcs), 1)
}

func TestCallsResolveThroughImportsAndPrelude(t *testing.T) {
	res := analyzeMain(t, `
import std::io;
import std::math;

fn main() {
    io::println("hi");
    print_int(max(1, 2));
    let s = math::square(-3);
}
`)
	expectClean(t, res)
	out := dumpModule(t, res, "src::main")
	be.True(t, strings.Contains(out, `Call(std::io::println, [Literal("hi")])`))
	be.True(t, strings.Contains(out, "Call(std::io::print_int, [Call(std::mod::max, [Literal(1), Literal(2)])])"))
	be.True(t, strings.Contains(out, "DeclareVariable s: i64 = Call(std::math::square, [Literal(-3)])"))
}

func TestCurrentModuleShadowsImports(t *testing.T) {
	res := analyzeMain(t, `
fn max(a: i32, b: i32) -> i32 { return a; }
fn main() { let m: i32 = max(1, 2); }
`)
	expectClean(t, res)
	be.True(t, strings.Contains(dumpModule(t, res, "src::main"), "Call(src::main::max"))
}

func TestCrossModuleStructs(t *testing.T) {
	res := analyze(t, map[string]string{
		"src::main": `
import src::geo;
fn take(p: geo::Point) {}
fn pass(p: Point) { take(p); }
`,
		"src::geo": "struct Point { x: i32, y: i32 }",
	})
	expectClean(t, res)
}

func TestLiteralAdaptation(t *testing.T) {
	res := analyzeMain(t, `
fn main() {
    let a: u8 = 255;
    let b: u8 = 256;
    let c: i8 = -128;
    let d: u64 = 1 + 2;
    let e = 3;
    let f = 1.5;
    let g: i64 = e;
}
`)
	expectCodes(t, res, diag.SemaTypeMismatch, diag.SemaTypeMismatch)
	out := dumpModule(t, res, "src::main")
	be.True(t, strings.Contains(out, "DeclareVariable d: u64 = Binary(+, Literal(1), Literal(2))"))
	be.True(t, strings.Contains(out, "DeclareVariable e: i32 = Literal(3)"))
	be.True(t, strings.Contains(out, "DeclareVariable f: f64 = Literal(1.5)"))
}

func TestOperatorRules(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"int arithmetic", "let a: i64 = 2; let b = a * 3 + 1;", nil},
		{"literal on the left", "let a: u16 = 2; let b: u16 = 10 - a;", nil},
		{"mixed widths", "let a: i64 = 2; let b: i32 = 1; let c = a + b;", []diag.Code{diag.SemaTypeMismatch}},
		{"float arithmetic", "let a = 1.5 + 2.5;", []diag.Code{diag.SemaTypeMismatch}},
		{"comparison", "let a = 1 < 2; let b: bool = a == true;", nil},
		{"logic needs bool", "let a = 1 && true;", []diag.Code{diag.SemaTypeMismatch}},
		{"not needs bool", "let a = !3;", []diag.Code{diag.SemaTypeMismatch}},
		{"negate unsigned", "let a: u32 = 1; let b = -a;", []diag.Code{diag.SemaTypeMismatch}},
		{"negate float literal", "let a = -1.5; let b: f32 = -0.5;", nil},
		{"negate float binding", "let a = 1.5; let b = -a;", []diag.Code{diag.SemaTypeMismatch}},
		{"if condition", "if 1 { }", []diag.Code{diag.SemaTypeMismatch}},
		{"string equality", `let a = "x" == "y";`, []diag.Code{diag.SemaTypeMismatch}},
		{"reference", "let mut a = 1; let r: &mut i32 = &mut a;", nil},
		{"reference to temporary", "let r = &(1 + 2);", []diag.Code{diag.SemaInvalidAssignTarget}},
		{"function from unimported module", "let v = yield_now();", []diag.Code{diag.SemaUnresolvedFunction}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := analyzeMain(t, "fn main() { "+tc.body+" }")
			be.Equal(t, codes(res.bag), tc.want)
			be.Equal(t, res.ok, len(tc.want) == 0)
		})
	}
}

func TestFloatNegationNeedsLiteral(t *testing.T) {
	res := analyzeMain(t, "fn f(x: f64) -> f64 { return -x; }")
	expectCodes(t, res, diag.SemaTypeMismatch)
	msg := res.bag.Items()[0].Message
	be.True(t, strings.Contains(msg, "only float literals can be negated"))
}

func TestVoidBinding(t *testing.T) {
	res := analyzeMain(t, "import std::thread; fn main() { let v = thread::yield_now(); }")
	expectCodes(t, res, diag.SemaTypeMismatch)
}

func TestCallChecks(t *testing.T) {
	res := analyzeMain(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }
fn main() {
    add(1);
    add(1, true);
    nothing();
    io::println("x");
}
`)
	expectCodes(t, res,
		diag.SemaArityMismatch,
		diag.SemaTypeMismatch,
		diag.SemaUnresolvedFunction,
		diag.SemaUnresolvedFunction,
	)
	be.True(t, strings.Contains(res.bag.Items()[3].Message, "unknown module `io`"))
}

func TestReturns(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"if else both return", "fn f(x: i32) -> i32 { if x > 0 { return 1; } else { return 2; } }", nil},
		{"else if chain", "fn f(x: i32) -> i32 { if x > 0 { return 1; } else if x < 0 { return 2; } else { return 0; } }", nil},
		{"missing else", "fn f(x: i32) -> i32 { if x > 0 { return 1; } }", []diag.Code{diag.SemaMissingReturn}},
		{"nested block", "fn f() -> bool { { return true; } }", nil},
		{"empty return in non-void", "fn f() -> i32 { return; }", []diag.Code{diag.SemaTypeMismatch}},
		{"value in void", "fn f() { return 1; }", []diag.Code{diag.SemaTypeMismatch}},
		{"wrong type", "fn f() -> bool { return 1; }", []diag.Code{diag.SemaTypeMismatch}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := analyzeMain(t, tc.src)
			be.Equal(t, codes(res.bag), tc.want)
		})
	}
}

func TestScopes(t *testing.T) {
	res := analyzeMain(t, `
fn f(x: i32) {
    let x = x + 1;
    {
        let x = true;
    }
    let y = 1;
    let y = 2;
}
`)
	expectCodes(t, res, diag.SemaNameCollision)
	fn := res.prog.Module("src::main").FindFunc("f")
	be.Equal(t, len(fn.Locals), 5)
	be.True(t, fn.Locals[0].Param)
}

func TestAssignments(t *testing.T) {
	res := analyzeMain(t, `
let G: i32 = 1;
fn f(mut p: i32) {
    p = 2;
    G = 3;
    q = 4;
    p = true;
}
`)
	expectCodes(t, res,
		diag.SemaInvalidAssignTarget,
		diag.SemaUnresolvedIdentifier,
		diag.SemaTypeMismatch,
	)
}

func TestGlobals(t *testing.T) {
	res := analyzeMain(t, `
let LIMIT: i64 = 10;
let NEG = -5;
let BAD = max(1, 2);
fn f() -> i64 { return LIMIT; }
`)
	expectCodes(t, res, diag.SemaInvalidGlobal)
	out := dumpModule(t, res, "src::main")
	be.True(t, strings.Contains(out, "Global src::main::LIMIT: i64 = Literal(10)"))
	be.True(t, strings.Contains(out, "Global src::main::NEG: i32 = Literal(-5)"))
	be.True(t, strings.Contains(out, "Return Global(src::main::LIMIT)"))
}

func TestStructs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"plain", "struct P { x: i32, y: i32 } fn f(p: P) -> P { return p; }", nil},
		{"self through reference", "struct Node { value: i32, next: &Node }", nil},
		{"self by value", "struct Node { next: Node }", []diag.Code{diag.SemaRecursiveType}},
		{"mutual", "struct A { b: B } struct B { a: A }", []diag.Code{diag.SemaRecursiveType}},
		{"duplicate field", "struct P { x: i32, x: i32 }", []diag.Code{diag.SemaNameCollision}},
		{"unknown field type", "struct P { x: Missing }", []diag.Code{diag.SemaUnknownType}},
		{"struct collides with fn", "struct P {} fn P() {}", []diag.Code{diag.SemaNameCollision}},
		{"struct used as value", "struct P {} fn f() { let p = P; }", []diag.Code{diag.SemaUnresolvedIdentifier}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := analyzeMain(t, tc.src)
			be.Equal(t, codes(res.bag), tc.want)
		})
	}
}

func TestAttributes(t *testing.T) {
	res := analyzeMain(t, `
#[extern("c_abs")]
fn my_abs(x: i32) -> i32;
#[extern]
fn raw();
#[inline]
fn g() {}
#[extern]
fn h() {}
#[extern(1)]
fn k();
`)
	expectCodes(t, res, diag.SemaUnknownAttribute, diag.SemaUnknownAttribute, diag.SemaUnknownAttribute)
	m := res.prog.Module("src::main")
	be.Equal(t, m.FindFunc("my_abs").LinkName, "c_abs")
	be.True(t, m.FindFunc("my_abs").Extern)
	be.Equal(t, m.FindFunc("raw").LinkName, "raw")
	be.True(t, !m.FindFunc("h").Extern)
}

func TestRecoveryKeepsChecking(t *testing.T) {
	res := analyzeMain(t, `
fn a() { let x = missing; let y: bool = 1; }
fn b() -> Unknown { return 1; }
fn c() { undefined_call(); }
`)
	// сигнатуры проверяются до тел функций
	expectCodes(t, res,
		diag.SemaUnknownType,
		diag.SemaUnresolvedIdentifier,
		diag.SemaTypeMismatch,
		diag.SemaUnresolvedFunction,
	)
}
