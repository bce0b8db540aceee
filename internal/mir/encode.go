package mir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever the encoded layout changes.
const SchemaVersion uint16 = 1

// ErrSchemaMismatch is returned when a file was written by another layout.
var ErrSchemaMismatch = errors.New("mir: schema version mismatch")

type filePayload struct {
	Schema  uint16   `msgpack:"schema"`
	Program *Program `msgpack:"program"`
}

// Encode writes p in the binary MIR format.
func Encode(w io.Writer, p *Program) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&filePayload{Schema: SchemaVersion, Program: p})
}

// Decode reads a program written by Encode.
func Decode(r io.Reader) (*Program, error) {
	var payload filePayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode mir: %w", err)
	}
	if payload.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: file has %d, want %d", ErrSchemaMismatch, payload.Schema, SchemaVersion)
	}
	if payload.Program == nil {
		return nil, errors.New("decode mir: empty program")
	}
	return payload.Program, nil
}

// WriteFile encodes p into path, replacing it atomically.
func WriteFile(path string, p *Program) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "mir-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, p); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadFile decodes the program stored at path.
func ReadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
