package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/buildpipeline"
	"lumen/internal/driver"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [dir]",
		Short: "Build a lumen project into a native executable",
		Long: `Build runs the whole pipeline, writes target/<name>.mir, emits LLVM IR
per module and links the executable with clang.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, target, err := buildFromFlags(cmd, args)
			if err != nil {
				return err
			}
			g, _ := readGlobalOptions(cmd)
			if !g.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", formatPathForOutput(target.Root, res.OutputPath))
			}
			return nil
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "executable name (default: package name)")
	cmd.Flags().String("opt", "", "clang optimization level 0|1|2|3|s|z (default: lumen.toml [build] opt)")
	cmd.Flags().String("target", "", "LLVM target triple")
	cmd.Flags().IntP("jobs", "j", 0, "parallel clang invocations (default: number of CPUs)")
	cmd.Flags().Bool("keep-tmp", false, "preserve the .ll and object files under target/.tmp")
	cmd.Flags().Bool("print-commands", false, "print clang and ar invocations")
}

// buildFromFlags builds the project named by args with the command flags.
func buildFromFlags(cmd *cobra.Command, args []string) (buildpipeline.BuildResult, projectTarget, error) {
	var result buildpipeline.BuildResult
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return result, projectTarget{}, err
	}
	target, err := resolveTarget(args)
	if err != nil {
		return result, target, err
	}

	flags := cmd.Flags()
	output, err := flags.GetString("output")
	if err != nil {
		return result, target, err
	}
	opt, err := flags.GetString("opt")
	if err != nil {
		return result, target, err
	}
	triple, err := flags.GetString("target")
	if err != nil {
		return result, target, err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return result, target, err
	}
	keepTmp, err := flags.GetBool("keep-tmp")
	if err != nil {
		return result, target, err
	}
	printCommands, err := flags.GetBool("print-commands")
	if err != nil {
		return result, target, err
	}
	if output == "" {
		output = target.Name()
	}
	if opt == "" {
		opt = target.Opt()
	}

	s, err := newSession(cmd, g, target, driver.StageNone)
	if err != nil {
		return result, target, err
	}
	defer s.finish()

	req := buildpipeline.BuildRequest{
		CompileRequest: s.req,
		OutDir:         target.OutDir(),
		OutputName:     output,
		Opt:            opt,
		TargetTriple:   triple,
		KeepTmp:        keepTmp,
		PrintCommands:  printCommands,
		CommandOutput:  cmd.ErrOrStderr(),
		Jobs:           jobs,
	}

	if g.useTUI() {
		stages := buildpipeline.StagesThrough(buildpipeline.StageLink)
		result, err = runWithUI("lumen "+cmd.Name(), stages, func(sink buildpipeline.ProgressSink) (buildpipeline.BuildResult, error) {
			r := req
			r.Progress = sink
			return buildpipeline.Build(cmd.Context(), &r)
		})
	} else {
		req.Progress = progressSink(g, cmd.ErrOrStderr())
		result, err = buildpipeline.Build(cmd.Context(), &req)
	}
	if err := s.report(cmd, result.Compile.Driver, err); err != nil {
		return result, target, err
	}
	if keepTmp && !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "tmp dir: %s\n", formatPathForOutput(target.Root, result.TmpDir))
	}
	return result, target, nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
