package lexer_test

import (
	"fmt"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter, *source.File) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lm", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter, file
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, reporter, _ := makeTestLexer(input)
	toks := lx.All()
	toks = toks[:len(toks)-1] // EOF
	if fmt.Sprint(kindsOf(toks)) != fmt.Sprint(expected) {
		t.Fatalf("input %q:\n got %v\nwant %v\ndiags %v", input, kindsOf(toks), expected, reporter.codes())
	}
	return toks
}

func TestFunctionHeader(t *testing.T) {
	toks := expectTokens(t, "fn add(mut a: i32, b: i32) -> i32 { return a + b; }",
		token.KwFn, token.Ident, token.LParen, token.KwMut, token.Ident, token.Colon, token.Ident,
		token.Comma, token.Ident, token.Colon, token.Ident, token.RParen, token.Punct, token.Ident,
		token.LBrace, token.KwReturn, token.Ident, token.Punct, token.Ident, token.Semicolon, token.RBrace)
	if toks[12].Text != "->" {
		t.Fatalf("arrow lexeme = %q", toks[12].Text)
	}
}

func TestPunctuationRunsCoalesce(t *testing.T) {
	toks := expectTokens(t, "x=-1; a::b; #[extern] y = 2",
		token.Ident, token.Punct, token.IntLit, token.Semicolon,
		token.Ident, token.Punct, token.Ident, token.Semicolon,
		token.Punct, token.LBracket, token.Ident, token.RBracket,
		token.Ident, token.Assign, token.IntLit)
	if toks[1].Text != "=-" || toks[5].Text != "::" || toks[8].Text != "#" {
		t.Fatalf("unexpected runs %q %q %q", toks[1].Text, toks[5].Text, toks[8].Text)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	expectTokens(t, "a // line\n/* block * / still */ b /* x */+/* y */c",
		token.Ident, token.Ident, token.Punct, token.Ident)
	// не вложенные: первый */ закрывает
	expectTokens(t, "/* a /* b */ c */", token.Ident, token.Punct)
}

func TestNumbers(t *testing.T) {
	toks := expectTokens(t, "42 3.25 7.x", token.IntLit, token.FloatLit, token.IntLit, token.Punct, token.Ident)
	if toks[1].Text != "3.25" {
		t.Fatalf("float text %q", toks[1].Text)
	}
}

func TestStringsAndChars(t *testing.T) {
	toks := expectTokens(t, `"a\tb\n\"q\"\\\0" 'x' '\''`, token.StringLit, token.CharLit, token.CharLit)
	if toks[0].Value != "a\tb\n\"q\"\\\x00" {
		t.Fatalf("string value %q", toks[0].Value)
	}
	if toks[1].Value != "x" || toks[2].Value != "'" {
		t.Fatalf("char values %q %q", toks[1].Value, toks[2].Value)
	}
}

func TestLexErrorsRecover(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []diag.Code
		kinds []token.Kind
	}{
		{"unterminated string", "\"abc\nfoo", []diag.Code{diag.LexUnterminatedString}, []token.Kind{token.Invalid, token.Ident}},
		{"unterminated char", "'a\nb", []diag.Code{diag.LexUnterminatedChar}, []token.Kind{token.Invalid, token.Ident}},
		{"bad escape", `"a\qb" c`, []diag.Code{diag.LexBadEscape}, []token.Kind{token.StringLit, token.Ident}},
		{"char too long", "'ab' c", []diag.Code{diag.LexBadCharLength}, []token.Kind{token.Invalid, token.Ident}},
		{"block comment", "a /* never", []diag.Code{diag.LexUnterminatedBlockComment}, []token.Kind{token.Ident}},
		{"unknown char", "a ЖЖЖ+b c", []diag.Code{diag.LexUnknownChar}, []token.Kind{token.Ident, token.Invalid, token.Ident}},
		{"bad number", "12ab c", []diag.Code{diag.LexBadNumber}, []token.Kind{token.Invalid, token.Ident}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, reporter, _ := makeTestLexer(tt.input)
			toks := lx.All()
			got := kindsOf(toks[:len(toks)-1])
			if fmt.Sprint(got) != fmt.Sprint(tt.kinds) {
				t.Fatalf("kinds %v, want %v", got, tt.kinds)
			}
			if fmt.Sprint(reporter.codes()) != fmt.Sprint(tt.codes) {
				t.Fatalf("codes %v, want %v", reporter.codes(), tt.codes)
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _, _ := makeTestLexer("let x")
	if lx.Peek().Kind != token.KwLet || lx.Peek().Kind != token.KwLet {
		t.Fatal("Peek must be idempotent")
	}
	if lx.Next().Kind != token.KwLet || lx.Next().Kind != token.Ident || lx.Next().Kind != token.EOF {
		t.Fatal("unexpected sequence")
	}
	if lx.Next().Kind != token.EOF {
		t.Fatal("EOF must be sticky")
	}
}

// Для каждого токена source[span] совпадает с лексемом, а строковые
// литералы после снятия escape дают Value.
func TestSpansMatchLexemes(t *testing.T) {
	inputs := []string{
		"fn main() { let s: str = \"hi\\n\"; io::print(s); }",
		"import std::io;\n#[extern(\"lumen_print\")]\nfn print(s: str);\n",
		"let c = '\\t'; /* c */ let f = 1.5; // end",
		"if a<=b&&!c { x = y * -2; } else { }",
		"\"bad \\q escape\" 'zz' 12abc @@@ ЖЖ",
	}
	for _, in := range inputs {
		lx, _, file := makeTestLexer(in)
		for _, tok := range lx.All() {
			if int(tok.Span.End) > len(file.Content) || tok.Span.Start > tok.Span.End {
				t.Fatalf("%q: span %v out of range", in, tok.Span)
			}
			if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
				t.Fatalf("%q: span text %q != lexeme %q", in, got, tok.Text)
			}
			if tok.Kind == token.StringLit || tok.Kind == token.CharLit {
				if lexer.Unquote(tok.Text) != tok.Value {
					t.Fatalf("%q: unquote(%q) != %q", in, tok.Text, tok.Value)
				}
			}
		}
	}
}
