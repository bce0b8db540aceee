package token

import "testing"

func TestKeywordLookup(t *testing.T) {
	for word, want := range keywords {
		got, ok := LookupKeyword(word)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v", word, got, ok)
		}
		if !got.IsKeyword() {
			t.Fatalf("%v must be a keyword kind", got)
		}
	}
	if _, ok := LookupKeyword("Fn"); ok {
		t.Fatal("keywords are case-sensitive")
	}
	if _, ok := LookupKeyword("i32"); ok {
		t.Fatal("type names are identifiers")
	}
}

func TestKindString(t *testing.T) {
	if Punct.String() != "Punct" || KwStruct.String() != "KwStruct" {
		t.Fatal("unexpected names")
	}
	if Kind(200).String() != "Kind(200)" {
		t.Fatalf("got %s", Kind(200).String())
	}
}
