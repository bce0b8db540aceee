package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"lumen/internal/ast"
	"lumen/internal/backend/llvm"
	"lumen/internal/compiler"
	"lumen/internal/driver"
	"lumen/internal/hir"
	"lumen/internal/mir"
	"lumen/internal/modpath"
)

type dumpStage string

const (
	dumpAST  dumpStage = "ast"
	dumpHIR  dumpStage = "hir"
	dumpMIR  dumpStage = "mir"
	dumpLLVM dumpStage = "llvm"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] [dir]",
		Short: "Print an intermediate representation",
		Long: `Dump compiles the project up to --stage and prints that stage for the
user modules. --mir-file prints a .mir file written by lumen build instead.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: runDump,
	}
	cmd.Flags().String("stage", "mir", "stage to print (ast|hir|mir|llvm)")
	cmd.Flags().StringSlice("module", nil, "only print these module keys")
	cmd.Flags().Bool("std", false, "include stdlib modules")
	cmd.Flags().String("mir-file", "", "print a binary MIR file instead of compiling")
	return cmd
}

type dumpOptions struct {
	stage   dumpStage
	modules []string
	std     bool
}

// wants reports whether module key is printed.
func (o dumpOptions) wants(key string) bool {
	if len(o.modules) > 0 {
		return slices.Contains(o.modules, key)
	}
	return o.std || !modpath.Parse(key).IsStd()
}

func runDump(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	stageValue, err := cmd.Flags().GetString("stage")
	if err != nil {
		return err
	}
	opts := dumpOptions{stage: dumpStage(stageValue)}
	if opts.modules, err = cmd.Flags().GetStringSlice("module"); err != nil {
		return err
	}
	if opts.std, err = cmd.Flags().GetBool("std"); err != nil {
		return err
	}
	mirFile, err := cmd.Flags().GetString("mir-file")
	if err != nil {
		return err
	}

	stopAfter := driver.StageNone
	switch opts.stage {
	case dumpAST:
		stopAfter = driver.StageResolve
	case dumpHIR:
		stopAfter = driver.StageBorrow
	case dumpMIR, dumpLLVM:
	default:
		return usageError{fmt.Errorf("invalid --stage value %q (expected ast|hir|mir|llvm)", stageValue)}
	}

	out := cmd.OutOrStdout()
	if mirFile != "" {
		if opts.stage != dumpMIR && opts.stage != dumpLLVM {
			return usageError{fmt.Errorf("--mir-file works with --stage mir or llvm, not %s", opts.stage)}
		}
		prog, err := mir.ReadFile(mirFile)
		if err != nil {
			return err
		}
		names := compiler.New(filepath.Dir(mirFile), g.compilerOptions())
		return dumpProgram(out, prog, names, opts)
	}

	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	res, err := compileTarget(cmd, g, target, stopAfter)
	if err != nil {
		return err
	}

	switch opts.stage {
	case dumpAST:
		for _, key := range res.Context.Modules.Keys() {
			m, _ := res.Context.Modules.Get(modpath.Parse(key))
			if !opts.wants(key) {
				continue
			}
			ast.Dump(out, m)
		}
		return nil
	case dumpHIR:
		p := hir.NewPrinter(out, res.HIR.Types)
		for _, m := range res.HIR.Modules {
			if !opts.wants(m.Path.Key()) {
				continue
			}
			if err := p.PrintModule(m); err != nil {
				return err
			}
		}
		return nil
	}
	return dumpProgram(out, res.MIR, res.Context, opts)
}

func dumpProgram(out io.Writer, prog *mir.Program, names llvm.Namer, opts dumpOptions) error {
	if opts.stage == dumpMIR {
		p := mir.NewPrinter(out)
		for _, m := range prog.Modules {
			if !opts.wants(m.Key) {
				continue
			}
			if err := p.PrintModule(m); err != nil {
				return err
			}
		}
		return nil
	}

	units, err := llvm.Emit(prog, llvm.Options{Names: names})
	if err != nil {
		return err
	}
	for _, u := range units {
		if !opts.wants(u.Key) {
			continue
		}
		if _, err := fmt.Fprintf(out, "; module %s\n%s\n", u.Key, u.Module); err != nil {
			return err
		}
	}
	return nil
}
