package layout_test

import (
	"errors"
	"testing"

	"lumen/internal/layout"
	"lumen/internal/modpath"
	"lumen/internal/source"
	"lumen/internal/types"
)

func TestPrimitiveSizes(t *testing.T) {
	in := types.NewInterner()
	le := layout.New(layout.X86_64LinuxGNU(), in)
	b := in.Builtins()
	cases := []struct {
		id    types.TypeID
		size  int
		align int
	}{
		{b.Void, 0, 1},
		{b.Bool, 1, 1},
		{b.I8, 1, 1},
		{b.U16, 2, 2},
		{b.I32, 4, 4},
		{b.I64, 8, 8},
		{b.F32, 4, 4},
		{b.F64, 8, 8},
		{b.Char, 4, 4},
		{b.String, 16, 8},
		{in.Intern(types.MakeReference(b.String, true)), 8, 8},
	}
	for _, tc := range cases {
		l, err := le.LayoutOf(tc.id)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", types.Label(in, tc.id), err)
		}
		if l.Size != tc.size || l.Align != tc.align {
			t.Fatalf("%s: got size=%d align=%d, want %d/%d", types.Label(in, tc.id), l.Size, l.Align, tc.size, tc.align)
		}
	}
}

func TestStructPadding(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	st := in.RegisterStruct(modpath.Of("src", "main"), "Mixed", source.Span{})
	in.SetStructFields(st, []types.StructField{
		{Name: "flag", Type: b.Bool},
		{Name: "count", Type: b.I64},
		{Name: "small", Type: b.I16},
	})
	le := layout.New(layout.X86_64LinuxGNU(), in)
	l, err := le.LayoutOf(st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("got size=%d align=%d, want 24/8", l.Size, l.Align)
	}
	off, _ := le.FieldOffset(st, 2)
	if off != 16 {
		t.Fatalf("field `small` at %d, want 16", off)
	}
}

func TestRecursiveStructReportsCycle(t *testing.T) {
	in := types.NewInterner()
	mod := modpath.Of("src", "main")
	a := in.RegisterStruct(mod, "A", source.Span{})
	bID := in.RegisterStruct(mod, "B", source.Span{})
	in.SetStructFields(a, []types.StructField{{Name: "b", Type: bID}})
	in.SetStructFields(bID, []types.StructField{{Name: "a", Type: a}})

	le := layout.New(layout.X86_64LinuxGNU(), in)
	_, err := le.SizeOf(a)
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.LayoutError, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.LayoutErrRecursiveUnsized || len(lerr.Cycle) != 3 {
		t.Fatalf("unexpected error %+v", lerr)
	}

	// через ссылку рекурсия допустима
	c := in.RegisterStruct(mod, "C", source.Span{})
	in.SetStructFields(c, []types.StructField{{Name: "next", Type: in.Intern(types.MakeReference(c, false))}})
	if size, err := le.SizeOf(c); err != nil || size != 8 {
		t.Fatalf("self reference through & should be sized: size=%d err=%v", size, err)
	}
}
