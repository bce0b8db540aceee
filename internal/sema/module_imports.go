package sema

import (
	"lumen/internal/modpath"
)

// qualifiedModule matches a qualifier such as `io` or `std::io` against the
// imports of ms: a full-path match wins, otherwise a single-segment
// qualifier matches the last segment of an import.
func (tc *typeChecker) qualifiedModule(ms *moduleScope, qual modpath.Path) *moduleScope {
	key := qual.Key()
	for _, imp := range ms.imports {
		if imp.Key() == key {
			return tc.modules[key]
		}
	}
	if len(qual.Segments) == 1 {
		for _, imp := range ms.imports {
			if imp.Last() == qual.Segments[0] {
				return tc.modules[imp.Key()]
			}
		}
	}
	return nil
}

// lookupItem resolves a possibly qualified item name. Unqualified names are
// searched in the current module, then every import in source order, then
// the prelude. The second result is false when nothing of the given kind
// exists; found reports whatever other item shadows the name locally.
func (tc *typeChecker) lookupItem(ms *moduleScope, path modpath.Path, kind itemKind) (it *item, found *item) {
	path = path.Normalize()
	if len(path.Segments) == 0 {
		return nil, nil
	}
	name := path.Last()
	if len(path.Segments) > 1 {
		target := tc.qualifiedModule(ms, modpath.Of(path.Segments[:len(path.Segments)-1]...))
		if target == nil {
			return nil, nil
		}
		cand := target.items[name]
		if cand != nil && cand.kind == kind {
			return cand, cand
		}
		return nil, cand
	}

	if cand := ms.items[name]; cand != nil {
		if cand.kind == kind {
			return cand, cand
		}
		found = cand
	}
	if kind == itemGlobal {
		// глобалы видны без квалификатора только в своём модуле
		return nil, found
	}
	for _, imp := range ms.imports {
		target := tc.modules[imp.Key()]
		if target == nil {
			continue
		}
		if cand := target.items[name]; cand != nil && cand.kind == kind {
			return cand, cand
		}
	}
	return nil, found
}
