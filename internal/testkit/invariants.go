package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/ast"
	"lumen/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed module:
// every node span points into sf and lies within its content, and every
// child span is contained in its parent's span.
func CheckSpanInvariants(m *ast.Module, sf *source.File) error {
	if m == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	if m.File != sf.ID {
		return fmt.Errorf("module %s points to file id %d, want %d", m.Path, m.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var firstErr error
	var check func(parent, n *ast.Node) bool
	check = func(parent, n *ast.Node) bool {
		sp := n.Span
		switch {
		case sp.File != sf.ID:
			firstErr = fmt.Errorf("%s span %v: file mismatch, want %d", n.Kind, sp, sf.ID)
		case sp.End < sp.Start || sp.End > size:
			firstErr = fmt.Errorf("%s span %v outside content of %d bytes", n.Kind, sp, size)
		case parent != nil && !parent.Span.Contains(sp):
			firstErr = fmt.Errorf("%s span %v is outside parent %s span %v", n.Kind, sp, parent.Kind, parent.Span)
		}
		if firstErr != nil {
			return false
		}
		for _, c := range ast.Children(n) {
			if !check(n, c) {
				return false
			}
		}
		return true
	}
	for _, item := range m.Body {
		if item.Kind == ast.NodeInvalid {
			continue
		}
		if !check(nil, item) {
			return firstErr
		}
	}
	return nil
}
