package sema

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
)

// checkAttrs validates attributes of a declaration. Only functions accept
// #[extern] or #[extern("link_name")]. It returns the extern attribute if
// present and valid.
func (tc *typeChecker) checkAttrs(attrs []ast.Attr, isFunc bool) (ast.Attr, bool) {
	var (
		ext   ast.Attr
		found bool
	)
	for _, a := range attrs {
		if a.Name != "extern" || !isFunc {
			tc.report(diag.SemaUnknownAttribute, a.Span, "unknown attribute `#[%s]`", a.Name)
			continue
		}
		if found {
			tc.report(diag.SemaUnknownAttribute, a.Span, "duplicate `#[extern]` attribute")
			continue
		}
		if len(a.Args) > 1 || (len(a.Args) == 1 && a.Args[0].Kind != ast.LitString) {
			tc.report(diag.SemaUnknownAttribute, a.Span, "`#[extern]` takes at most one string argument: the link name")
			continue
		}
		ext, found = a, true
	}
	return ext, found
}

// linkName is the native symbol of an extern function.
func linkName(ext ast.Attr, fallback string) string {
	if len(ext.Args) == 1 && ext.Args[0].Value != "" {
		return ext.Args[0].Value
	}
	return fallback
}
