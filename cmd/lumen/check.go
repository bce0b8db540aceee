package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lumen/internal/buildpipeline"
	"lumen/internal/driver"
	"lumen/internal/observ"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Check a project without generating code",
		Long:  `Check resolves, type checks and borrow checks every module of the project`,
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	res, err := compileTarget(cmd, g, target, driver.StageBorrow)
	if err != nil {
		return err
	}
	if !g.quiet && g.format != formatJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %s: %d module(s), no errors\n", target.Name(), res.Context.Modules.Len())
	}
	return nil
}

// session bundles what every pipeline command sets up: the tracer, the
// timer and the cleanup.
type session struct {
	g       globalOptions
	req     buildpipeline.CompileRequest
	timer   *observ.Timer
	cleanup func(failed bool)
	failed  bool
	stderr  io.Writer
}

func newSession(cmd *cobra.Command, g globalOptions, target projectTarget, stopAfter driver.Stage) (*session, error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	var timer *observ.Timer
	if g.timings {
		timer = observ.NewTimer()
	}
	return &session{
		g: g,
		req: buildpipeline.CompileRequest{
			Root:      target.Root,
			Options:   g.compilerOptions(),
			StopAfter: stopAfter,
			Timer:     timer,
		},
		timer:   timer,
		cleanup: cleanup,
		stderr:  cmd.ErrOrStderr(),
	}, nil
}

// finish prints timings and releases the tracer.
func (s *session) finish() {
	if s.timer != nil {
		fmt.Fprint(s.stderr, s.timer.Summary())
	}
	s.cleanup(s.failed)
}

// report prints the diagnostics of res and converts a compile failure
// into a reportedError.
func (s *session) report(cmd *cobra.Command, res *driver.Result, err error) error {
	s.failed = err != nil
	if res != nil && res.Context != nil {
		w := cmd.ErrOrStderr()
		if s.g.format == formatJSON {
			w = cmd.OutOrStdout()
		}
		if perr := s.g.printDiagnostics(w, res.Context.Bag, res.Context.Files); perr != nil {
			return perr
		}
	}
	if errors.Is(err, buildpipeline.ErrCompileFailed) {
		return reportedError{code: exitFailure}
	}
	return err
}

// compileTarget runs the front end up to stopAfter and prints the
// diagnostics.
func compileTarget(cmd *cobra.Command, g globalOptions, target projectTarget, stopAfter driver.Stage) (*driver.Result, error) {
	s, err := newSession(cmd, g, target, stopAfter)
	if err != nil {
		return nil, err
	}
	defer s.finish()

	var res buildpipeline.CompileResult
	if g.useTUI() {
		last := buildpipeline.StageLower
		if stopAfter != driver.StageNone {
			last = buildpipeline.Stage(stopAfter.String())
		}
		stages := buildpipeline.StagesThrough(last)
		res, err = runWithUI("lumen "+cmd.Name(), stages, func(sink buildpipeline.ProgressSink) (buildpipeline.CompileResult, error) {
			req := s.req
			req.Progress = sink
			return buildpipeline.Compile(cmd.Context(), &req)
		})
	} else {
		req := s.req
		req.Progress = progressSink(g, cmd.ErrOrStderr())
		res, err = buildpipeline.Compile(cmd.Context(), &req)
	}
	if err := s.report(cmd, res.Driver, err); err != nil {
		return res.Driver, err
	}
	return res.Driver, nil
}
