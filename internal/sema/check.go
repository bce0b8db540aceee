// Package sema checks a resolved AST collection and produces typed HIR.
//
// Analysis runs in two sub-phases. Declaration collection registers every
// item of every module (structs first get their fields, then function
// signatures and globals). Body checking then walks each function with a
// stack of lexical scopes, types every expression and resolves every
// identifier to a local slot or an absolute symbol.
package sema

import (
	"fmt"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/hir"
	"lumen/internal/layout"
	"lumen/internal/modpath"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Options configure the analyzer.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner // nil - новый интернер
	Prelude  modpath.Path    // неявный импорт каждого модуля, кроме самого себя
	Target   layout.Target   // для проверки рекурсивных типов
}

// Analyze checks every module of coll. ok is false when at least one error
// was reported; the program is returned either way so tools can dump it.
func Analyze(coll *ast.Collection, opts Options) (prog *hir.Program, ok bool) {
	tc := newTypeChecker(coll, opts)
	tc.run()
	return tc.prog, tc.errors == 0
}

type itemKind uint8

const (
	itemFunc itemKind = iota + 1
	itemStruct
	itemGlobal
)

func (k itemKind) String() string {
	switch k {
	case itemFunc:
		return "function"
	case itemStruct:
		return "struct"
	case itemGlobal:
		return "global"
	}
	return "item"
}

// item - запись в пространстве имён модуля.
type item struct {
	kind   itemKind
	span   source.Span
	node   *ast.Node
	fn     *hir.Func
	typ    types.TypeID
	global *hir.Global
}

type moduleScope struct {
	ast     *ast.Module
	hir     *hir.Module
	items   map[string]*item
	imports []modpath.Path // явные импорты в порядке исходника, затем prelude
}

type typeChecker struct {
	coll     *ast.Collection
	opts     Options
	reporter diag.Reporter
	types    *types.Interner
	builtins types.Builtins
	layout   *layout.LayoutEngine
	modules  map[string]*moduleScope
	order    []*moduleScope
	prog     *hir.Program
	errors   int

	reportedCycles map[types.TypeID]struct{}
}

func newTypeChecker(coll *ast.Collection, opts Options) *typeChecker {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	if opts.Target.PtrSize == 0 {
		opts.Target = layout.X86_64LinuxGNU()
	}
	tc := &typeChecker{
		coll:     coll,
		opts:     opts,
		types:    in,
		builtins: in.Builtins(),
		layout:   layout.New(opts.Target, in),
		modules:  make(map[string]*moduleScope, coll.Len()),
		prog:     &hir.Program{Types: in},
	}
	tc.reporter = countingReporter{inner: opts.Reporter, errors: &tc.errors}
	return tc
}

func (tc *typeChecker) run() {
	for _, m := range tc.coll.Modules() {
		ms := &moduleScope{
			ast:   m,
			hir:   &hir.Module{Path: m.Path, File: m.File, Std: m.Path.IsStd()},
			items: make(map[string]*item),
		}
		for _, imp := range m.Imports {
			ms.hir.Imports = append(ms.hir.Imports, imp.Path.Key())
			ms.imports = append(ms.imports, imp.Path.Normalize())
		}
		if !tc.opts.Prelude.Empty() && !m.Path.Equal(tc.opts.Prelude) {
			ms.imports = append(ms.imports, tc.opts.Prelude.Normalize())
		}
		tc.modules[m.Path.Key()] = ms
		tc.order = append(tc.order, ms)
		tc.prog.Modules = append(tc.prog.Modules, ms.hir)
	}

	for _, ms := range tc.order {
		tc.declareItems(ms)
	}
	for _, ms := range tc.order {
		tc.resolveStructFields(ms)
	}
	for _, ms := range tc.order {
		tc.checkRecursiveStructs(ms)
	}
	for _, ms := range tc.order {
		tc.collectSignatures(ms)
		tc.collectGlobals(ms)
	}
	for _, ms := range tc.order {
		for _, fn := range ms.hir.Funcs {
			it := ms.items[fn.Name]
			if it == nil || it.fn != fn || it.node.Function.Body == nil {
				continue
			}
			tc.checkFuncBody(ms, fn, it.node.Function)
		}
	}
}

// declareItems registers every top-level name of the module. A later
// declaration with a taken name is reported and dropped.
func (tc *typeChecker) declareItems(ms *moduleScope) {
	for _, n := range ms.ast.Body {
		name, span := n.Name()
		if name == "" {
			continue
		}
		var kind itemKind
		switch n.Kind {
		case ast.NodeFunction:
			kind = itemFunc
		case ast.NodeStruct:
			kind = itemStruct
		case ast.NodeDeclare:
			kind = itemGlobal
		default:
			continue
		}
		if prev, dup := ms.items[name]; dup {
			diag.ReportError(tc.reporter, diag.SemaNameCollision, span,
				fmt.Sprintf("`%s` is already declared in module %s", name, ms.ast.Path)).
				WithNote(prev.span, fmt.Sprintf("previous %s declaration of `%s`", prev.kind, name)).
				Emit()
			continue
		}
		it := &item{kind: kind, span: span, node: n}
		switch kind {
		case itemFunc:
			it.fn = &hir.Func{
				Name:     name,
				Symbol:   hir.Symbol(ms.ast.Path, name),
				Span:     n.Span,
				NameSpan: span,
				Result:   tc.builtins.Void,
			}
			ms.hir.Funcs = append(ms.hir.Funcs, it.fn)
		case itemStruct:
			it.typ = tc.types.RegisterStruct(ms.ast.Path, name, span)
			ms.hir.Structs = append(ms.hir.Structs, hir.StructDecl{Name: name, Type: it.typ, Span: n.Span})
		case itemGlobal:
			it.global = &hir.Global{
				Name:    name,
				Symbol:  hir.Symbol(ms.ast.Path, name),
				Mutable: n.Declare.Mutable,
				Span:    n.Span,
			}
			ms.hir.Globals = append(ms.hir.Globals, it.global)
		}
		ms.items[name] = it
	}
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) label(id types.TypeID) string {
	return types.Label(tc.types, id)
}

// countingReporter forwards diagnostics and counts errors.
type countingReporter struct {
	inner  diag.Reporter
	errors *int
}

func (r countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		*r.errors++
	}
	if r.inner != nil {
		r.inner.Report(code, sev, primary, msg, notes)
	}
}
