package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"lumen/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Go        string `json:"go"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show lumen build information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case short:
				_, err = fmt.Fprintln(out, version.Version)
			case g.format == formatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(versionPayload{
					Tool:      "lumen",
					Version:   version.Version,
					GitCommit: version.GitCommit,
					BuildDate: version.BuildDate,
					Go:        runtime.Version(),
				})
			default:
				_, err = fmt.Fprint(out, version.Banner())
			}
			return err
		},
	}
	cmd.Flags().Bool("short", false, "print only the version number")
	return cmd
}
