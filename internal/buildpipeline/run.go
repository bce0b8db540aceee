package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// RunRequest describes one execution of a built program.
type RunRequest struct {
	Path     string
	Args     []string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Progress ProgressSink
}

// Run executes the program and returns its exit status. A non-zero exit
// is not an error; err is set only when the program could not be started
// or was killed by ctx.
func Run(ctx context.Context, req RunRequest) (int, error) {
	start := time.Now()
	emit(req.Progress, Event{Stage: StageRun, Status: StatusWorking})
	// #nosec G204 -- путь указывает на только что собранный бинарник
	cmd := exec.CommandContext(ctx, req.Path, req.Args...)
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		emit(req.Progress, Event{Stage: StageRun, Status: StatusDone, Elapsed: time.Since(start)})
		return 0, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		emit(req.Progress, Event{Stage: StageRun, Status: StatusDone, Elapsed: time.Since(start)})
		return exitErr.ExitCode(), nil
	}
	err = fmt.Errorf("run %s: %w", req.Path, err)
	emit(req.Progress, Event{Stage: StageRun, Status: StatusError, Err: err})
	return -1, err
}
