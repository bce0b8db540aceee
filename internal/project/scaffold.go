package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EntryRel is the entry file relative to the project root.
const EntryRel = "src/main.lm"

const defaultMain = `import std::io;

fn main() {
    io::println("Hello, Lumen!");
}
`

// ScaffoldResult lists what Scaffold wrote.
type ScaffoldResult struct {
	Root        string
	Name        string
	CreatedMain bool
}

// Scaffold creates lumen.toml and src/main.lm in dir. The project name is
// derived from the directory name. An existing manifest is an error; an
// existing entry file is kept.
func Scaffold(dir string) (ScaffoldResult, error) {
	target, err := filepath.Abs(dir)
	if err != nil {
		return ScaffoldResult{}, err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return ScaffoldResult{}, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return ScaffoldResult{}, fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return ScaffoldResult{}, fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "lumen-project"
	}

	manifestPath := filepath.Join(target, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return ScaffoldResult{}, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	data, err := DefaultManifest(name).Encode()
	if err != nil {
		return ScaffoldResult{}, err
	}
	if err := os.WriteFile(manifestPath, data, 0o600); err != nil {
		return ScaffoldResult{}, fmt.Errorf("failed to write manifest: %w", err)
	}

	res := ScaffoldResult{Root: target, Name: name}
	mainPath := filepath.Join(target, filepath.FromSlash(EntryRel))
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(mainPath), 0o755); err != nil {
			return ScaffoldResult{}, fmt.Errorf("failed to create src: %w", err)
		}
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return ScaffoldResult{}, fmt.Errorf("failed to write %s: %w", EntryRel, err)
		}
		res.CreatedMain = true
	}
	return res, nil
}
