package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lumen/internal/project"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a lumen project in a directory",
		Long: `Initialize a lumen project by creating lumen.toml and a hello-world
src/main.lm. Without [dir] the current directory is used; a missing
directory is created.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return scaffold(cmd, dir)
		},
	}
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new lumen project directory",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := os.Stat(name); err == nil {
				return fmt.Errorf("destination %q already exists", name)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			return scaffold(cmd, name)
		},
	}
}

func scaffold(cmd *cobra.Command, dir string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	res, err := project.Scaffold(dir)
	if err != nil {
		return err
	}
	if g.quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created project %s in %s\n", res.Name, res.Root)
	fmt.Fprintf(out, "  %s\n", project.ManifestName)
	if res.CreatedMain {
		fmt.Fprintf(out, "  %s\n", filepath.FromSlash(project.EntryRel))
	}
	return nil
}
