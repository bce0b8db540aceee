package types

import (
	"testing"

	"lumen/internal/modpath"
	"lumen/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Bool == NoTypeID || b.I32 == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	void, _ := in.Lookup(b.Void)
	if void.Kind != KindVoid {
		t.Fatalf("expected void kind, got %v", void.Kind)
	}
	for _, name := range []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "bool", "f32", "f64", "str", "char", "void"} {
		id, ok := in.Builtin(name)
		if !ok {
			t.Fatalf("builtin %q missing", name)
		}
		if got := Label(in, id); got != name {
			t.Fatalf("label of %q is %q", name, got)
		}
	}
	if _, ok := in.Builtin("int"); ok {
		t.Fatalf("`int` must not be a builtin")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	ref1 := in.Intern(MakeReference(in.Builtins().String, false))
	ref2 := in.Intern(MakeReference(in.Builtins().String, false))
	if ref1 != ref2 {
		t.Fatalf("reference types should be deduplicated")
	}
	if in.Intern(MakeInt(Width32)) != in.Builtins().I32 {
		t.Fatalf("i32 should map to the builtin id")
	}
}

func TestReferenceMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().I32
	mut := in.Intern(MakeReference(elem, true))
	imm := in.Intern(MakeReference(elem, false))
	if mut == imm {
		t.Fatalf("mutable and immutable references must differ")
	}
	if Label(in, mut) != "&mut i32" {
		t.Fatalf("unexpected label %q", Label(in, mut))
	}
	if in.IsCopy(mut) || in.IsCopy(imm) {
		t.Fatalf("references are not copy")
	}
}

func TestStructsAreNominal(t *testing.T) {
	in := NewInterner()
	mod := modpath.Of("src", "main")
	a := in.RegisterStruct(mod, "Point", source.Span{})
	b := in.RegisterStruct(mod, "Point", source.Span{})
	if a == b {
		t.Fatalf("struct registrations must produce distinct ids")
	}
	in.SetStructFields(a, []StructField{{Name: "x", Type: in.Builtins().I32}})
	if len(in.StructFields(a)) != 1 || len(in.StructFields(b)) != 0 {
		t.Fatalf("fields leaked between structs")
	}
	if in.IsCopy(a) {
		t.Fatalf("structs are not copy")
	}
}

func TestIntFits(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		text string
		want bool
	}{
		{b.I8, "127", true},
		{b.I8, "128", false},
		{b.U8, "255", true},
		{b.U8, "256", false},
		{b.I32, "2147483647", true},
		{b.I32, "2147483648", false},
		{b.U64, "18446744073709551615", true},
		{b.I64, "9223372036854775808", false},
		{b.Bool, "1", false},
	}
	for _, tc := range cases {
		if got := in.IntFits(tc.id, tc.text); got != tc.want {
			t.Fatalf("IntFits(%s, %s) = %v, want %v", Label(in, tc.id), tc.text, got, tc.want)
		}
	}
}
