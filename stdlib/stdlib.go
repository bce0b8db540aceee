// Package stdlib embeds the sources of the built-in `std::*` modules.
// They are compiled exactly like user code.
package stdlib

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"lumen/internal/modpath"
)

//go:embed std/*.lm
var files embed.FS

// Ext is the extension of embedded sources.
const Ext = "lm"

// Source returns the text of the std module p.
func Source(p modpath.Path) ([]byte, bool) {
	if !p.IsStd() {
		return nil, false
	}
	data, err := fs.ReadFile(files, fsPath(p))
	if err != nil {
		return nil, false
	}
	return data, true
}

// VirtualPath is the name under which the module is registered in the file set.
// Diagnostics located under "stdlib/" are hidden from golden output.
func VirtualPath(p modpath.Path) string {
	return "stdlib/" + fsPath(p)
}

// Modules lists every embedded module, sorted.
func Modules() []modpath.Path {
	entries, err := fs.ReadDir(files, "std")
	if err != nil {
		panic("internal compiler error: stdlib: " + err.Error())
	}
	out := make([]modpath.Path, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), "."+Ext)
		out = append(out, modpath.Of("std", name))
	}
	slices.SortFunc(out, modpath.Path.Compare)
	return out
}

func fsPath(p modpath.Path) string {
	return path.Join(p.Normalize().Segments...) + "." + Ext
}
