package mir_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/mir"
)

func TestFileRoundTrip(t *testing.T) {
	p := lower(t, `
import std::io;
let GREETING: str = "hello";
fn main() {
    io::println(GREETING);
    let big: u64 = 18446744073709551615;
}
`)
	path := filepath.Join(t.TempDir(), "target", "app.mir")
	be.Err(t, mir.WriteFile(path, p), nil)

	got, err := mir.ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, mir.DumpString(got), mir.DumpString(p))
	be.Equal(t, got.Entry, "src::main")
	be.Err(t, mir.Validate(got), nil)
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"schema": mir.SchemaVersion + 1})
	be.Err(t, err, nil)
	_, err = mir.Decode(bytes.NewReader(data))
	if !errors.Is(err, mir.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := mir.Decode(bytes.NewReader([]byte{0xc1, 0x00}))
	be.True(t, err != nil)
}
