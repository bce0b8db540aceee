package parser_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/source"
)

func parse(t *testing.T, src string) (*ast.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lm", []byte(src)))
	bag := diag.NewBag(100)
	mod := parser.ParseFile(file, modpath.Of("src", "main"), parser.Options{
		MaxErrors: 100,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	return mod, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func parseClean(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, bag := parse(t, src)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, codes(bag))
	}
	if mod.Broken {
		t.Fatalf("module marked broken without diagnostics")
	}
	return mod
}

func TestParseFunctionDump(t *testing.T) {
	mod := parseClean(t, `
import std::io;

fn add(a: i32, mut b: i32,) -> i32 {
    b = b + 1;
    return a + b * 2;
}
`)
	want := strings.Join([]string{
		"module src::main",
		"  import std::io",
		"  Function add(a: i32, mut b: i32) -> i32",
		"    Block",
		"      Assign",
		"        Ident b",
		"        Binary +",
		"          Ident b",
		"          Literal int 1",
		"      Return",
		"        Binary +",
		"          Ident a",
		"          Binary *",
		"            Ident b",
		"            Literal int 2",
		"",
	}, "\n")
	be.Equal(t, ast.DumpString(mod), want)
}

func TestImportsKeepSourceOrder(t *testing.T) {
	mod := parseClean(t, "import b::c; import a; import std::math\nfn main() {}")
	var got []string
	for _, imp := range mod.Imports {
		got = append(got, imp.Path.String())
	}
	be.Equal(t, got, []string{"b::c", "a", "std::math"})
}

func TestPrecedence(t *testing.T) {
	cases := []struct {
		expr string
		root string
	}{
		{"a || b && c", "Binary ||"},
		{"a == b < c", "Binary =="},
		{"a - b - c", "Binary -"},
		{"-a * b", "Binary *"},
		{"a = b = c", "Assign"},
	}
	for _, tc := range cases {
		mod := parseClean(t, "fn f() { "+tc.expr+"; }")
		stmt := mod.Body[0].Function.Body.Block.Stmts[0]
		lines := strings.Split(ast.DumpString(&ast.Module{Body: []*ast.Node{stmt}}), "\n")
		if strings.TrimSpace(lines[1]) != tc.root {
			t.Fatalf("%q: root %q, want %q", tc.expr, strings.TrimSpace(lines[1]), tc.root)
		}
	}

	// левая ассоциативность: (a - b) - c
	mod := parseClean(t, "fn f() { a - b - c; }")
	bin := mod.Body[0].Function.Body.Block.Stmts[0].Binary
	be.Equal(t, bin.Left.Kind, ast.NodeBinary)
	be.Equal(t, bin.Right.Kind, ast.NodeIdent)

	// правая ассоциативность присваивания: a = (b = c)
	mod = parseClean(t, "fn f() { a = b = c; }")
	as := mod.Body[0].Function.Body.Block.Stmts[0].Assign
	be.Equal(t, as.Target.Kind, ast.NodeIdent)
	be.Equal(t, as.Value.Kind, ast.NodeAssign)
}

func TestUnaryRefMut(t *testing.T) {
	mod := parseClean(t, "fn f(x: &mut i32) { let y = &mut z; let w = !true; }")
	fn := mod.Body[0].Function
	be.Equal(t, fn.Params[0].Type.String(), "&mut i32")
	decl := fn.Body.Block.Stmts[0].Declare
	be.Equal(t, decl.Value.Unary.Op, ast.OpRefMut)
	be.Equal(t, fn.Body.Block.Stmts[1].Declare.Value.Unary.Op, ast.OpNot)
}

func TestAttributesAndExtern(t *testing.T) {
	mod := parseClean(t, `#[extern("lumen_print")] fn print(s: str);`)
	fn := mod.Body[0]
	be.Equal(t, len(fn.Attrs), 1)
	be.Equal(t, fn.Attrs[0].Name, "extern")
	be.Equal(t, fn.Attrs[0].Args[0].Value, "lumen_print")
	be.True(t, fn.Function.Body == nil)
	be.True(t, fn.Span.Contains(fn.Attrs[0].Span))
}

func TestMissingBodyWithoutExtern(t *testing.T) {
	_, bag := parse(t, "fn f();")
	be.Equal(t, codes(bag), []diag.Code{diag.SynMissingBody})
}

func TestAttributeOnImport(t *testing.T) {
	mod, bag := parse(t, "#[inline] import std::io;")
	be.Equal(t, codes(bag), []diag.Code{diag.SynAttributeNotAllowed})
	be.Equal(t, len(mod.Imports), 1)
}

func TestStructAndGlobal(t *testing.T) {
	mod := parseClean(t, "struct Point { x: i32, y: i32 }\nlet mut counter: i64 = 0;")
	be.Equal(t, mod.Body[0].Kind, ast.NodeStruct)
	be.Equal(t, len(mod.Body[0].Struct.Fields), 2)
	be.Equal(t, mod.Body[1].Kind, ast.NodeDeclare)
	be.True(t, mod.Body[1].Declare.Mutable)
}

func TestIfElseChain(t *testing.T) {
	mod := parseClean(t, "fn f(x: i32) -> i32 { if x < 0 { return 0; } else if x == 0 { return 1; } else { return 2; } }")
	stmt := mod.Body[0].Function.Body.Block.Stmts[0]
	be.Equal(t, stmt.Kind, ast.NodeIf)
	be.Equal(t, stmt.If.Else.Kind, ast.NodeIf)
	be.Equal(t, stmt.If.Else.If.Else.Kind, ast.NodeBlock)
}

func TestQualifiedCall(t *testing.T) {
	mod := parseClean(t, `fn main() { io::print("hi",); }`)
	call := mod.Body[0].Function.Body.Block.Stmts[0].Call
	be.Equal(t, call.Callee.String(), "io::print")
	be.Equal(t, len(call.Args), 1)
}

func TestSemicolonBeforeBraceOptional(t *testing.T) {
	parseClean(t, "fn f() -> i32 { return 1 }")
	parseClean(t, "fn f() { ;; g(); ; }")
}

func TestMissingSemicolon(t *testing.T) {
	mod, bag := parse(t, "fn f() { let a = 1 let b = 2; }")
	be.Equal(t, codes(bag), []diag.Code{diag.SynExpectSemicolon})
	be.Equal(t, len(mod.Body[0].Function.Body.Block.Stmts), 2)
	be.True(t, mod.Broken)
}

func TestRecoveryOneDiagnosticPerStatement(t *testing.T) {
	mod, bag := parse(t, `
fn main() {
    let = 1;
    let x = ;
    foo(1;
    let ok = 2;
}
fn after() {}
`)
	be.Equal(t, codes(bag), []diag.Code{
		diag.SynExpectIdentifier,
		diag.SynExpectExpression,
		diag.SynUnclosedDelimiter,
	})
	// закрывающая скобка main не потеряна: after разобрана как отдельная функция
	be.Equal(t, len(mod.Body), 2)
	be.Equal(t, mod.Body[1].Function.Name, "after")
	stmts := mod.Body[0].Function.Body.Block.Stmts
	be.Equal(t, len(stmts), 1)
	be.Equal(t, stmts[0].Declare.Name, "ok")
}

func TestStrayCharacterReportedOnce(t *testing.T) {
	mod, bag := parse(t, "fn main() { let x = 1 @ 2; let y = 1.5.2; let ok = 3; }")
	// лишнего "expected ';'" после уже отмеченного символа нет
	be.Equal(t, codes(bag), []diag.Code{diag.SynUnexpectedToken, diag.SynUnexpectedToken})
	be.True(t, strings.Contains(bag.Items()[0].Message, "'@'"))
	be.True(t, strings.Contains(bag.Items()[1].Message, "'.'"))
	stmts := mod.Body[0].Function.Body.Block.Stmts
	be.Equal(t, len(stmts), 3)
	be.Equal(t, stmts[2].Declare.Name, "ok")
	be.True(t, mod.Broken)
}

func TestTopLevelRecovery(t *testing.T) {
	mod, bag := parse(t, "return 1; fn ok() {}")
	be.Equal(t, codes(bag), []diag.Code{diag.SynUnexpectedToken})
	be.Equal(t, len(mod.Body), 1)
}

func TestUnclosedBlockAtEOF(t *testing.T) {
	mod, bag := parse(t, "fn main() { let x = 1;")
	be.Equal(t, codes(bag), []diag.Code{diag.SynUnclosedDelimiter})
	be.Equal(t, len(mod.Body), 1)
}

func TestLexErrorsCountAsBroken(t *testing.T) {
	mod, bag := parse(t, `fn main() { let s = "abc; }`)
	be.True(t, mod.Broken)
	be.Equal(t, codes(bag)[0], diag.LexUnterminatedString)
}

func TestMaxErrorsLimit(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lm", []byte("fn f() { let = 1; let = 2; let = 3; }")))
	bag := diag.NewBag(100)
	mod := parser.ParseFile(file, modpath.Of("m"), parser.Options{
		MaxErrors: 1,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	be.Equal(t, bag.Len(), 1)
	be.True(t, mod.Broken)
}

func TestSpansNest(t *testing.T) {
	mod := parseClean(t, `
fn main() {
    let mut x: i32 = 1 + 2;
    if x > 1 { x = x - 1; } else { print("no"); }
}
`)
	for _, item := range mod.Body {
		var check func(parent *ast.Node)
		check = func(parent *ast.Node) {
			for _, c := range ast.Children(parent) {
				if !parent.Span.Contains(c.Span) {
					t.Fatalf("%s span %v does not contain child %s %v", parent.Kind, parent.Span, c.Kind, c.Span)
				}
				check(c)
			}
		}
		check(item)
	}
}
