// Package compiler holds the state shared by every pass of one compilation.
package compiler

import (
	"fmt"
	"io"
	"path/filepath"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
)

// Context is owned by the driver and handed to each pass in turn.
// It holds the project root, the diagnostic sink, the file set,
// the name counter, the module collection and the options; pass-specific
// state lives in the passes.
type Context struct {
	Root    string
	Files   *source.FileSet
	Bag     *diag.Bag
	Names   NameCounter
	Modules *ast.Collection
	Options Options

	// Progress получает строки статуса, когда Options.Status включён.
	Progress io.Writer
}

// New creates a context for the project rooted at root.
func New(root string, opts Options) *Context {
	opts = opts.withDefaults()
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Context{
		Root:    root,
		Files:   source.NewFileSetWithBase(root),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Modules: ast.NewCollection(),
		Options: opts,
	}
}

// Reporter returns a reporter writing into the context's bag.
func (c *Context) Reporter() diag.Reporter {
	return diag.BagReporter{Bag: c.Bag}
}

// FreshName draws the next name from the context counter.
func (c *Context) FreshName() string {
	return c.Names.Next()
}

// Statusf prints a progress line when the status flag is on.
func (c *Context) Statusf(format string, args ...any) {
	if !c.Options.Status || c.Progress == nil {
		return
	}
	fmt.Fprintf(c.Progress, format+"\n", args...)
}
