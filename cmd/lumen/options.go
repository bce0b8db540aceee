package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lumen/internal/compiler"
	"lumen/internal/diag"
	"lumen/internal/diagfmt"
	"lumen/internal/source"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

type diagFormat string

const (
	formatPretty diagFormat = "pretty"
	formatShort  diagFormat = "short"
	formatJSON   diagFormat = "json"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	ui             uiMode
	format         diagFormat
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		g   globalOptions
		err error
	)
	if g.color, err = pf.GetString("color"); err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch g.color {
	case "auto", "on", "off":
	default:
		return g, usageError{fmt.Errorf("invalid --color value %q (expected auto|on|off)", g.color)}
	}
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics <= 0 {
		return g, usageError{fmt.Errorf("--max-diagnostics must be positive, got %d", g.maxDiagnostics)}
	}

	uiValue, err := pf.GetString("ui")
	if err != nil {
		return g, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if g.ui, err = readUIMode(uiValue); err != nil {
		return g, usageError{err}
	}

	formatValue, err := pf.GetString("format")
	if err != nil {
		return g, fmt.Errorf("failed to get format flag: %w", err)
	}
	if g.format, err = readDiagFormat(formatValue); err != nil {
		return g, usageError{err}
	}

	color.NoColor = !g.useColor(os.Stdout)
	return g, nil
}

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func readDiagFormat(value string) (diagFormat, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "pretty":
		return formatPretty, nil
	case "short":
		return formatShort, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("invalid --format value %q (expected pretty|short|json)", value)
	}
}

func (g globalOptions) useColor(f *os.File) bool {
	switch g.color {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f)
}

// useTUI: интерактивный прогресс только на терминале и не в quiet.
func (g globalOptions) useTUI() bool {
	if g.quiet {
		return false
	}
	switch g.ui {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}

func (g globalOptions) compilerOptions() compiler.Options {
	opts := compiler.DefaultOptions()
	opts.MaxDiagnostics = g.maxDiagnostics
	return opts
}

// printDiagnostics writes the bag in the selected format. Nothing is
// printed for an empty bag except with --format json.
func (g globalOptions) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || fs == nil {
		return nil
	}
	// одинаковые диагностики печатаем один раз
	bag.Dedup()
	switch g.format {
	case formatJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              g.maxDiagnostics,
		})
	case formatShort:
		if bag.Len() == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Sorted(), fs, true))
		return err
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     g.useColor(os.Stderr),
			ShowNotes: true,
			Context:   2,
		})
		if dropped := bag.Dropped(); dropped > 0 {
			_, err := fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", dropped)
			return err
		}
		return nil
	}
}

func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
