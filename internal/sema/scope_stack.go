package sema

import (
	"lumen/internal/hir"
)

// funcChecker holds per-function state: the lexical scope stack maps names to
// local slots. scopes[0] holds the parameters.
type funcChecker struct {
	tc     *typeChecker
	ms     *moduleScope
	fn     *hir.Func // nil при проверке инициализаторов глобалов
	scopes []map[string]hir.LocalID
}

func (fc *funcChecker) push() {
	fc.scopes = append(fc.scopes, make(map[string]hir.LocalID))
}

func (fc *funcChecker) pop() {
	fc.scopes = fc.scopes[:len(fc.scopes)-1]
}

// lookupLocal searches scopes innermost first.
func (fc *funcChecker) lookupLocal(name string) (hir.LocalID, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if id, ok := fc.scopes[i][name]; ok {
			return id, true
		}
	}
	return hir.NoLocalID, false
}

// declared returns the slot of name in the innermost scope only.
func (fc *funcChecker) declared(name string) (hir.LocalID, bool) {
	if len(fc.scopes) == 0 {
		return hir.NoLocalID, false
	}
	id, ok := fc.scopes[len(fc.scopes)-1][name]
	return id, ok
}

func (fc *funcChecker) bind(name string, id hir.LocalID) {
	fc.scopes[len(fc.scopes)-1][name] = id
}
