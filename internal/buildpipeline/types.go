package buildpipeline

import (
	"errors"
	"slices"
	"time"

	"lumen/internal/driver"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageAnalyze Stage = "analyze"
	StageBorrow  Stage = "borrow"
	StageLower   Stage = "lower"
	// StageEmit генерирует LLVM IR и пишет артефакты.
	StageEmit Stage = "emit"
	// StageCompile - clang по каждому модулю и по рантайму.
	StageCompile Stage = "compile"
	StageLink    Stage = "link"
	StageRun     Stage = "run"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageResolve, StageAnalyze, StageBorrow, StageLower, StageEmit, StageCompile, StageLink, StageRun}

// StagesThrough returns Stages up to and including last.
func StagesThrough(last Stage) []Stage {
	i := slices.Index(Stages, last)
	if i < 0 {
		return Stages
	}
	return Stages[:i+1]
}

func stageOf(s driver.Stage) Stage {
	return Stage(s.String())
}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one module, or for the whole pipeline when
// Module is empty.
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from
// several goroutines during StageCompile.
type ProgressSink interface {
	OnEvent(Event)
}

// ErrCompileFailed is returned when the front end reported error
// diagnostics; the diagnostics themselves are in the result context.
var ErrCompileFailed = errors.New("compilation failed")

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
