package borrow

import (
	"maps"

	"lumen/internal/hir"
	"lumen/internal/source"
)

// moveInfo records where a binding lost its value. definite is false when
// the move happened on some but not all incoming paths.
type moveInfo struct {
	span     source.Span
	definite bool
}

// moveSet - состояние перемещений в точке программы.
type moveSet map[hir.LocalID]moveInfo

func (s moveSet) clone() moveSet {
	return maps.Clone(s)
}

// join merges the states at the end of two branches. A binding moved on
// either path stays moved; it is definite only if moved on both.
func join(a, b moveSet) moveSet {
	out := make(moveSet, len(a)+len(b))
	for id, ma := range a {
		mb, both := b[id]
		ma.definite = both && ma.definite && mb.definite
		out[id] = ma
	}
	for id, mb := range b {
		if _, seen := a[id]; !seen {
			mb.definite = false
			out[id] = mb
		}
	}
	return out
}
