// Package main implements the lumen CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lumen/internal/prof"
	"lumen/internal/trace"
	"lumen/internal/version"
)

// Коды выхода.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks argument and flag problems; they exit with 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// reportedError means the diagnostics are already printed; main only
// sets the exit code.
type reportedError struct{ code int }

func (e reportedError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// profiling is the session started by the root pre-run hook.
var profiling *prof.Session

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lumen",
		Short:         "Lumen language compiler and toolchain",
		Long:          `Lumen compiles a project of .lm modules into a native executable through LLVM IR`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			profiling = s
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newNewCmd(),
		newInitCmd(),
		newBuildCmd(),
		newCheckCmd(),
		newRunCmd(),
		newTokenizeCmd(),
		newDumpCmd(),
		newGraphCmd(),
		newVersionCmd(),
	)

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("ui", "auto", "progress view (auto|on|off)")
	pf.String("format", "pretty", "diagnostic format (pretty|short|json)")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "text", "trace format (text|json)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring); ring writes only when the command fails")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "events kept by the ring trace mode")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:], os.Stderr))
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if perr := profiling.Stop(); perr != nil {
		fmt.Fprintf(stderr, "profile: %v\n", perr)
	}
	profiling = nil
	if err == nil {
		return exitOK
	}
	var reported reportedError
	if errors.As(err, &reported) {
		return reported.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) || isCobraUsageError(err) {
		return exitUsage
	}
	return exitFailure
}

// usageArgs wraps a cobra positional-args validator so that its errors count
// as usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
