// Package driver sequences the compiler passes over one project:
// resolve, analyze, borrow check and lower. Each pass records its
// diagnostics in the shared context; the driver stops after the first
// pass that reported an error.
package driver

import (
	"errors"
	"fmt"
	"io"

	"lumen/internal/borrow"
	"lumen/internal/compiler"
	"lumen/internal/hir"
	"lumen/internal/mir"
	"lumen/internal/modpath"
	"lumen/internal/observ"
	"lumen/internal/resolve"
	"lumen/internal/sema"
	"lumen/internal/trace"
)

// Stage names a pass of the pipeline, in execution order.
type Stage uint8

const (
	StageNone Stage = iota
	StageResolve
	StageAnalyze
	StageBorrow
	StageLower
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolve"
	case StageAnalyze:
		return "analyze"
	case StageBorrow:
		return "borrow"
	case StageLower:
		return "lower"
	}
	return "none"
}

// Options configure one run of the pipeline.
type Options struct {
	Compiler compiler.Options
	// StopAfter - последняя выполняемая стадия; StageNone означает StageLower.
	StopAfter Stage
	Tracer    trace.Tracer
	Observer  PhaseObserver
	Timer     *observ.Timer
	// Progress получает строки статуса при Compiler.Status.
	Progress io.Writer
}

// Result is what the pipeline produced before it stopped.
type Result struct {
	Context *compiler.Context
	Graph   *ModuleGraph
	HIR     *hir.Program
	MIR     *mir.Program
	// Failed is the pass that reported errors, StageNone on success.
	Failed Stage
}

// OK reports whether every executed pass succeeded.
func (r *Result) OK() bool {
	return r.Failed == StageNone
}

// EntryKey is the module key of the program entry.
func EntryKey() string {
	return modpath.Of("src", "main").Key()
}

// Compile runs the pipeline over the project rooted at root. Compile-time
// problems end up in Result.Context.Bag; the returned error is reserved for
// tool failures (missing entry file, I/O) and internal errors.
func Compile(root string, opts Options) (*Result, error) {
	ctx := compiler.New(root, opts.Compiler)
	ctx.Progress = opts.Progress
	stop := opts.StopAfter
	if stop == StageNone {
		stop = StageLower
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	r := &runner{ctx: ctx, tracer: tracer, observer: opts.Observer, timer: opts.Timer}
	res := &Result{Context: ctx}

	root0 := trace.Begin(tracer, trace.ScopeDriver, "compile", 0)
	r.parent = root0.ID()
	defer root0.End(ctx.Root)

	// resolve
	var ok bool
	err := r.pass(StageResolve, func() (string, error) {
		res2 := resolve.New(ctx)
		res2.OnLoad = func(l resolve.Loaded) {
			trace.Point(tracer, trace.ScopeModule, "module:"+l.Path.Key(), l.File, r.current)
		}
		var err error
		ok, err = res2.Resolve(modpath.Entry(ctx.Options.Extension))
		if err != nil {
			return "", err
		}
		res.Graph = buildModuleGraph(ctx)
		for _, cycle := range res.Graph.CycleNames() {
			trace.Point(tracer, trace.ScopeModule, "import-cycle", fmt.Sprint(cycle), r.current)
		}
		return fmt.Sprintf("modules=%d", ctx.Modules.Len()), nil
	})
	if err != nil {
		return res, err
	}
	if !ok {
		res.Failed = StageResolve
		return res, nil
	}
	if stop == StageResolve {
		return res, nil
	}

	// analyze
	_ = r.pass(StageAnalyze, func() (string, error) {
		res.HIR, ok = sema.Analyze(ctx.Modules, sema.Options{
			Reporter: ctx.Reporter(),
			Prelude:  ctx.Options.Prelude,
		})
		return fmt.Sprintf("modules=%d", len(res.HIR.Modules)), nil
	})
	if !ok {
		res.Failed = StageAnalyze
		return res, nil
	}
	if stop == StageAnalyze {
		return res, nil
	}

	// borrow
	_ = r.pass(StageBorrow, func() (string, error) {
		ok = borrow.Check(res.HIR, ctx.Reporter())
		return "", nil
	})
	if !ok {
		res.Failed = StageBorrow
		return res, nil
	}
	if stop == StageBorrow {
		return res, nil
	}

	// lower
	err = r.pass(StageLower, func() (string, error) {
		res.MIR = mir.Lower(res.HIR, mir.LowerOptions{Entry: EntryKey()})
		if err := mir.Validate(res.MIR); err != nil {
			return "", errors.Join(errors.New("internal compiler error: invalid MIR"), err)
		}
		return fmt.Sprintf("funcs=%d", len(res.MIR.Funcs())), nil
	})
	return res, err
}

type runner struct {
	ctx      *compiler.Context
	tracer   trace.Tracer
	observer PhaseObserver
	timer    *observ.Timer
	parent   uint64
	current  uint64
}

// pass wraps one stage with a trace span, a timer phase, an observer
// event and a status line.
func (r *runner) pass(stage Stage, fn func() (string, error)) error {
	name := stage.String()
	r.ctx.Statusf("%s...", name)
	span := trace.Begin(r.tracer, trace.ScopePass, name, r.parent)
	r.current = span.ID()
	idx := r.timer.Begin(name)
	if r.observer != nil {
		r.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	errsBefore := r.ctx.Bag.ErrorCount()

	note, err := fn()

	if errs := r.ctx.Bag.ErrorCount() - errsBefore; errs > 0 {
		span.WithExtra("errors", fmt.Sprint(errs))
	}
	r.timer.End(idx, note)
	elapsed := span.End(note)
	if r.observer != nil {
		r.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed})
	}
	return err
}
