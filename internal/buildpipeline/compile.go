package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lumen/internal/compiler"
	"lumen/internal/driver"
	"lumen/internal/observ"
	"lumen/internal/trace"
)

// CompileRequest configures the front end of the pipeline.
type CompileRequest struct {
	Root      string
	Options   compiler.Options
	StopAfter driver.Stage
	Tracer    trace.Tracer // nil: трейсер из ctx (trace.FromContext)
	Timer     *observ.Timer
	Progress  ProgressSink
	// Status получает строки статуса при Options.Status.
	Status io.Writer
}

// CompileResult wraps what the driver produced.
type CompileResult struct {
	Driver *driver.Result
}

// Compile runs the driver and reports its passes as progress events.
// It returns ErrCompileFailed when the driver stopped on diagnostics;
// the result is still filled so the caller can print them.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, errors.New("missing compile request")
	}
	if req.Root == "" {
		return result, errors.New("missing project root")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	tracer := req.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	observer := &phaseObserver{sink: req.Progress}
	res, err := driver.Compile(req.Root, driver.Options{
		Compiler:  req.Options,
		StopAfter: req.StopAfter,
		Tracer:    tracer,
		Timer:     req.Timer,
		Observer:  observer.OnPhase,
		Progress:  req.Status,
	})
	result.Driver = res
	if err != nil {
		emit(req.Progress, Event{Stage: observer.current, Status: StatusError, Err: err})
		return result, err
	}
	if !res.OK() {
		err = fmt.Errorf("%w: %d error(s) in %s", ErrCompileFailed, res.Context.Bag.ErrorCount(), res.Failed)
		emit(req.Progress, Event{Stage: stageOf(res.Failed), Status: StatusError, Err: err})
		return result, err
	}
	return result, nil
}

type phaseObserver struct {
	sink    ProgressSink
	current Stage
}

// OnPhase translates driver phase events into pipeline events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage := Stage(ev.Name)
	switch ev.Status {
	case driver.PhaseStart:
		p.current = stage
		emit(p.sink, Event{Stage: stage, Status: StatusWorking})
	case driver.PhaseEnd:
		emit(p.sink, Event{Stage: stage, Status: StatusDone, Elapsed: ev.Elapsed})
	}
}
