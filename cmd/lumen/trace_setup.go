package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lumen/internal/trace"
)

// setupTracing reads the trace flags, builds the tracer and attaches it to
// the command context, where the pipeline picks it up with
// trace.FromContext. The cleanup spills a ring tracer when failed is set,
// then flushes and closes.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	pf := cmd.Root().PersistentFlags()

	output, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, usageError{err}
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, usageError{err}
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, usageError{err}
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}

	cfg := trace.Config{Level: level, Mode: mode, Format: format, OutputPath: output, RingSize: ringSize}
	if output == "" || output == "-" {
		// stderr команды; Close трейсера не должен его закрыть
		cfg.Output = struct{ io.Writer }{cmd.ErrOrStderr()}
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func(failed bool) {
		if ring, ok := tracer.(*trace.RingTracer); ok && failed {
			if err := ring.Spill(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: spill error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
