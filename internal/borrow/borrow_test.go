package borrow_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/ast"
	"lumen/internal/borrow"
	"lumen/internal/diag"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/sema"
	"lumen/internal/source"
)

const prelude = `
struct P { x: i32 }
fn take(p: P) {}
fn num(x: i32) {}
fn bump(r: &mut i32) {}
`

func check(t *testing.T, src string) (*diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(100)
	file := fs.Get(fs.AddVirtual("main.lm", []byte(prelude+src)))
	coll := ast.NewCollection()
	coll.Insert(parser.ParseFile(file, modpath.Of("src", "main"), parser.Options{Reporter: diag.BagReporter{Bag: bag}}))
	prog, ok := sema.Analyze(coll, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !ok || bag.Len() != 0 {
		t.Fatalf("front end failed: %s", diag.FormatGoldenDiagnostics(bag.Items(), fs, false))
	}
	ok = borrow.Check(prog, diag.BagReporter{Bag: bag})
	return bag, ok
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestAccepts(t *testing.T) {
	cases := map[string]string{
		"single move":          "fn f(p: P) { take(p); }",
		"copy values":          "fn f(x: i32) { num(x); num(x); let y = x; num(y); }",
		"scalars are copy":     "fn b(v: bool) {} fn c(v: char) {} fn f(x: u8, y: bool, z: char) { let w = x; b(y); b(y); c(z); c(z); }",
		"borrow then move":     "fn f(p: P) { let r = &p; take(p); }",
		"move in each branch":  "fn f(p: P, c: bool) { if c { take(p); } else { take(p); } }",
		"moved on return path": "fn f(p: P, c: bool) { if c { take(p); return; } take(p); }",
		"reassign restores":    "fn f(mut p: P, q: P) { take(p); p = q; take(p); }",
		"mutable assign":       "fn f() { let mut a = 1; a = 2; bump(&mut a); }",
		"mutable param":        "fn f(mut x: i32) { x = x + 1; }",
		"shadow after move":    "fn f(p: P) { take(p); let p = 1; num(p); }",
		"nested block":         "fn f(p: P) { { let q = p; take(q); } }",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			bag, ok := check(t, src)
			be.Equal(t, codes(bag), []diag.Code(nil))
			be.True(t, ok)
		})
	}
}

func TestRejects(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
		msg  string
	}{
		{"double move", "fn f(p: P) { take(p); take(p); }", diag.OwnUseAfterMove, "use of moved value `p`"},
		{"let moves", "fn f(p: P) { let q = p; take(p); }", diag.OwnUseAfterMove, "use of moved value `p`"},
		{"moved on one path", "fn f(p: P, c: bool) { if c { take(p); } take(p); }", diag.OwnUseAfterMove, "possibly moved"},
		{"moved on both paths", "fn f(p: P, c: bool) { if c { take(p); } else { let q = p; } take(p); }", diag.OwnUseAfterMove, "use of moved value `p`"},
		{"borrow after move", "fn f(p: P) { take(p); let r = &p; }", diag.OwnUseAfterMove, "use of moved value `p`"},
		{"return after move", "fn f(p: P) -> P { take(p); return p; }", diag.OwnUseAfterMove, "use of moved value `p`"},
		{"string moves", `fn s(v: str) {} fn f() { let v = "a"; s(v); s(v); }`, diag.OwnUseAfterMove, "use of moved value `v`"},
		{"float moves", "fn g(v: f64) {} fn f(v: f64) { g(v); g(v); }", diag.OwnUseAfterMove, "use of moved value `v`"},
		{"shared ref moves", "fn g(r: &i32) {} fn f(r: &i32) { g(r); g(r); }", diag.OwnUseAfterMove, "use of moved value `r`"},
		{"mut ref moves", "fn f(r: &mut i32) { bump(r); bump(r); }", diag.OwnUseAfterMove, "use of moved value `r`"},
		{"assign immutable local", "fn f() { let a = 1; a = 2; }", diag.OwnMutateImmutable, "immutable binding `a`"},
		{"assign immutable param", "fn f(x: i32) { x = 2; }", diag.OwnMutateImmutable, "immutable binding `x`"},
		{"mut borrow of immutable", "fn f() { let a = 1; bump(&mut a); }", diag.OwnMutBorrowOfImmutable, "binding `a` as mutable"},
		{"mut borrow of immutable global", "let G: i32 = 1; fn f() { bump(&mut G); }", diag.OwnMutBorrowOfImmutable, "global `G`"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bag, ok := check(t, tc.src)
			be.True(t, !ok)
			be.Equal(t, codes(bag), []diag.Code{tc.want})
			if msg := bag.Items()[0].Message; !strings.Contains(msg, tc.msg) {
				t.Fatalf("message %q does not mention %q", msg, tc.msg)
			}
		})
	}
}

func TestUseAfterMoveReportedPerUse(t *testing.T) {
	bag, _ := check(t, "fn f(p: P) { take(p); take(p); take(p); }")
	// после ошибки привязка снова считается перемещённой вторым use
	be.Equal(t, codes(bag), []diag.Code{diag.OwnUseAfterMove, diag.OwnUseAfterMove})
	be.Equal(t, len(bag.Items()[0].Notes), 1)
}

func TestMutableGlobalBorrow(t *testing.T) {
	bag, ok := check(t, "let mut COUNTER: i32 = 0; fn f() { bump(&mut COUNTER); }")
	be.True(t, ok)
	be.Equal(t, bag.Len(), 0)
}
