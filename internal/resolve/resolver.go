// Package resolve loads the module graph reachable from the entry module.
package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lumen/internal/ast"
	"lumen/internal/compiler"
	"lumen/internal/diag"
	"lumen/internal/modpath"
	"lumen/internal/parser"
	"lumen/internal/source"
	"lumen/stdlib"
)

// ErrEntryNotFound is returned when the entry file itself is missing.
var ErrEntryNotFound = errors.New("entry module not found")

// Loaded describes one module added to the collection.
type Loaded struct {
	Path   modpath.Path
	File   string
	Std    bool
	Broken bool
}

// Resolver наполняет ctx.Modules, начиная с entry. Обход - очередь FIFO,
// импорты ставятся в очередь в порядке исходника, поэтому результат
// детерминирован. Циклы допустимы: уже загруженный модуль пропускается.
type Resolver struct {
	ctx *compiler.Context

	// OnLoad вызывается для каждого загруженного модуля (для трассировки).
	OnLoad func(Loaded)

	missing map[string]struct{}
}

func New(ctx *compiler.Context) *Resolver {
	return &Resolver{ctx: ctx, missing: make(map[string]struct{})}
}

type request struct {
	path    modpath.Path
	site    source.Span
	hasSite bool
}

// Resolve loads entry and everything it transitively imports.
// ok is false if any error was recorded while resolving.
func (r *Resolver) Resolve(entry modpath.Path) (ok bool, err error) {
	before := r.ctx.Bag.ErrorCount()
	queue := []request{{path: entry.Normalize()}}

	for len(queue) > 0 {
		req := queue[0]
		queue = queue[1:]

		if r.ctx.Modules.Has(req.path) {
			continue
		}
		if _, seen := r.missing[req.path.Key()]; seen {
			continue
		}

		mod, err := r.load(req)
		if err != nil {
			return false, err
		}
		if mod == nil {
			continue
		}
		if !r.ctx.Modules.Insert(mod) {
			panic(fmt.Sprintf("internal compiler error: module %s inserted twice", mod.Path))
		}
		for _, imp := range mod.Imports {
			queue = append(queue, request{path: imp.Path.Normalize(), site: imp.Span, hasSite: true})
		}
		if prelude := r.ctx.Options.Prelude; !mod.Path.Equal(prelude) {
			queue = append(queue, request{path: prelude.Normalize()})
		}
	}
	return r.ctx.Bag.ErrorCount() == before, nil
}

// load reads and parses one module. A nil module with nil error means the
// problem was reported as a diagnostic.
func (r *Resolver) load(req request) (*ast.Module, error) {
	var (
		fileID  source.FileID
		display string
		isStd   = req.path.IsStd()
	)

	if isStd {
		text, ok := stdlib.Source(req.path)
		if !ok {
			r.reportMissing(req, fmt.Sprintf("unknown standard library module `%s`", req.path))
			return nil, nil
		}
		display = stdlib.VirtualPath(req.path)
		fileID = r.ctx.Files.AddVirtual(display, text)
	} else {
		display = req.path.FilePath(r.ctx.Root, r.ctx.Options.Extension)
		id, err := r.ctx.Files.Load(display)
		switch {
		case err == nil:
			fileID = id
		case errors.Is(err, fs.ErrNotExist):
			if !req.hasSite {
				return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, display)
			}
			r.reportMissing(req, fmt.Sprintf("module `%s` not found (looked for %s)", req.path, r.relative(display)))
			return nil, nil
		default:
			if !req.hasSite {
				return nil, fmt.Errorf("read %s: %w", display, err)
			}
			r.report(diag.ResIOError, req.site, fmt.Sprintf("cannot read module `%s`: %v", req.path, unwrapPathError(err)))
			r.missing[req.path.Key()] = struct{}{}
			return nil, nil
		}
	}

	file := r.ctx.Files.Get(fileID)
	mod := parser.ParseFile(file, req.path, parser.Options{
		MaxErrors: uint(max(r.ctx.Options.MaxDiagnostics, 0)), // #nosec G115 -- неотрицательно
		Reporter:  r.ctx.Reporter(),
	})
	if r.OnLoad != nil {
		r.OnLoad(Loaded{Path: mod.Path, File: display, Std: isStd, Broken: mod.Broken})
	}
	return mod, nil
}

func (r *Resolver) reportMissing(req request, msg string) {
	r.missing[req.path.Key()] = struct{}{}
	r.report(diag.ResModuleNotFound, req.site, msg)
}

func (r *Resolver) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(r.ctx.Reporter(), code, sp, msg).Emit()
}

func (r *Resolver) relative(path string) string {
	if rel, err := filepath.Rel(r.ctx.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
