// Package modpath models logical module identities such as `std::io` or `src::main`.
package modpath

import (
	"path/filepath"
	"slices"
	"strings"
)

// Sep separates segments in the rendered form.
const Sep = "::"

// Path is an ordered list of segments plus an optional file extension.
// Values are immutable: every constructor returns a fresh Path.
type Path struct {
	Segments []string
	Ext      string
}

// Single builds a one-segment path.
func Single(seg string) Path {
	return Path{Segments: []string{seg}}
}

// Of builds a path from segments.
func Of(segs ...string) Path {
	return Path{Segments: slices.Clone(segs)}
}

// Parse reads the `a::b::c` form. Empty segments are dropped.
func Parse(s string) Path {
	return Path{Segments: strings.Split(s, Sep)}.Normalize()
}

// Entry is the path of the program entry, `src/main.<ext>`.
func Entry(ext string) Path {
	return Of("src", "main").WithExtension(ext)
}

// Join returns p with seg appended.
func (p Path) Join(seg string) Path {
	out := Path{Segments: make([]string, 0, len(p.Segments)+1), Ext: p.Ext}
	out.Segments = append(out.Segments, p.Segments...)
	out.Segments = append(out.Segments, seg)
	return out
}

// WithExtension returns p with its extension replaced.
func (p Path) WithExtension(ext string) Path {
	return Path{Segments: slices.Clone(p.Segments), Ext: strings.TrimPrefix(ext, ".")}
}

// Normalize drops empty and "." segments and the extension; the result is a collection key.
func (p Path) Normalize() Path {
	out := Path{Segments: make([]string, 0, len(p.Segments))}
	for _, s := range p.Segments {
		s = strings.TrimSpace(s)
		if s == "" || s == "." {
			continue
		}
		out.Segments = append(out.Segments, s)
	}
	return out
}

// IsStd reports whether the path belongs to the built-in library.
func (p Path) IsStd() bool {
	return len(p.Segments) > 0 && p.Segments[0] == "std"
}

// Last returns the final segment or "".
func (p Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Empty reports whether p has no segments.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// Equal compares segment-wise; the extension is ignored.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.Normalize().Segments, other.Normalize().Segments)
}

// Compare orders paths segment by segment.
func (p Path) Compare(other Path) int {
	return slices.Compare(p.Normalize().Segments, other.Normalize().Segments)
}

// String renders the logical form `a::b`.
func (p Path) String() string {
	return strings.Join(p.Segments, Sep)
}

// Key is the normalized rendered form used to index module collections.
func (p Path) Key() string {
	return p.Normalize().String()
}

// Mangle renders the path with dots, for backend symbol names.
func (p Path) Mangle() string {
	return strings.Join(p.Normalize().Segments, ".")
}

// FilePath maps the path onto the project tree: root/a/b.<ext>.
func (p Path) FilePath(root, ext string) string {
	if p.Ext != "" {
		ext = p.Ext
	}
	parts := append([]string{root}, p.Normalize().Segments...)
	return filepath.Join(parts...) + "." + ext
}
