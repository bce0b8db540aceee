package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lumen/internal/buildpipeline"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [dir] [-- args...]",
		Short: "Build a lumen project and run the executable",
		Long: `Run builds the project like ` + "`lumen build`" + ` and then executes it.
Arguments after -- are passed to the program; its exit status becomes the
exit status of lumen.`,
		Args: func(cmd *cobra.Command, args []string) error {
			before, _ := splitArgsAtDash(cmd, args)
			if len(before) > 1 {
				return usageError{fmt.Errorf("accepts at most 1 project dir before --, received %d", len(before))}
			}
			return nil
		},
		RunE: runExecution,
	}
	addBuildFlags(cmd)
	return cmd
}

func runExecution(cmd *cobra.Command, args []string) error {
	before, programArgs := splitArgsAtDash(cmd, args)
	res, _, err := buildFromFlags(cmd, before)
	if err != nil {
		return err
	}
	code, err := buildpipeline.Run(cmd.Context(), buildpipeline.RunRequest{
		Path:   res.OutputPath,
		Args:   programArgs,
		Stdin:  os.Stdin,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return reportedError{code: code}
	}
	return nil
}

// splitArgsAtDash separates cobra positional args from the ones after --.
func splitArgsAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}
