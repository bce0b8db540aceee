package sema

import (
	"errors"
	"fmt"
	"strings"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/layout"
	"lumen/internal/source"
	"lumen/internal/types"
)

// resolveType maps a syntactic type onto the interner. nil means void.
// Unknown names are reported and yield NoTypeID.
func (tc *typeChecker) resolveType(ms *moduleScope, te *ast.TypeExpr) types.TypeID {
	if te == nil {
		return tc.builtins.Void
	}
	switch te.Kind {
	case ast.TypeRef:
		elem := tc.resolveType(ms, te.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		if elem == tc.builtins.Void {
			tc.report(diag.SemaUnknownType, te.Span, "cannot reference `void`")
			return types.NoTypeID
		}
		return tc.types.Intern(types.MakeReference(elem, te.Mutable))
	default:
		if len(te.Name.Segments) == 1 {
			if id, ok := tc.types.Builtin(te.Name.Segments[0]); ok {
				return id
			}
		}
		it, _ := tc.lookupItem(ms, te.Name, itemStruct)
		if it == nil {
			tc.report(diag.SemaUnknownType, te.Span, "unknown type `%s`", te.Name)
			return types.NoTypeID
		}
		return it.typ
	}
}

func (tc *typeChecker) resolveStructFields(ms *moduleScope) {
	for _, sd := range ms.hir.Structs {
		it := ms.items[sd.Name]
		tc.checkAttrs(it.node.Attrs, false)
		decl := it.node.Struct
		fields := make([]types.StructField, 0, len(decl.Fields))
		seen := make(map[string]source.Span, len(decl.Fields))
		for _, f := range decl.Fields {
			if prev, dup := seen[f.Name]; dup {
				diag.ReportError(tc.reporter, diag.SemaNameCollision, f.NameSpan,
					fmt.Sprintf("field `%s` is declared twice in struct `%s`", f.Name, decl.Name)).
					WithNote(prev, "first declared here").
					Emit()
				continue
			}
			seen[f.Name] = f.NameSpan
			typ := tc.resolveType(ms, f.Type)
			if typ == tc.builtins.Void {
				tc.report(diag.SemaTypeMismatch, f.Type.Span, "field `%s` cannot have type void", f.Name)
				typ = types.NoTypeID
			}
			fields = append(fields, types.StructField{Name: f.Name, Type: typ, Span: f.NameSpan})
		}
		tc.types.SetStructFields(sd.Type, fields)
	}
}

// checkRecursiveStructs reports each by-value cycle once, at the first
// struct of the cycle in module order.
func (tc *typeChecker) checkRecursiveStructs(ms *moduleScope) {
	for _, sd := range ms.hir.Structs {
		_, err := tc.layout.LayoutOf(sd.Type)
		var lerr *layout.LayoutError
		if !errors.As(err, &lerr) || lerr.Kind != layout.LayoutErrRecursiveUnsized {
			continue
		}
		inCycle := false
		for _, id := range lerr.Cycle {
			if id == sd.Type {
				inCycle = true
			}
		}
		if !inCycle || tc.cycleReported(lerr.Cycle) {
			continue
		}
		names := make([]string, 0, len(lerr.Cycle))
		for _, id := range lerr.Cycle {
			names = append(names, tc.label(id))
		}
		diag.ReportError(tc.reporter, diag.SemaRecursiveType, ms.items[sd.Name].span,
			fmt.Sprintf("recursive type `%s` has infinite size", sd.Name)).
			WithNote(sd.Span, "cycle: "+strings.Join(names, " -> ")+"; use a reference (`&T`) to break it").
			Emit()
	}
}

func (tc *typeChecker) cycleReported(cycle []types.TypeID) bool {
	if tc.reportedCycles == nil {
		tc.reportedCycles = make(map[types.TypeID]struct{})
	}
	for _, id := range cycle {
		if _, ok := tc.reportedCycles[id]; ok {
			return true
		}
	}
	for _, id := range cycle {
		tc.reportedCycles[id] = struct{}{}
	}
	return false
}
