package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/driver"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [dir]",
		Short: "Print the module import graph",
		Long: `Graph resolves every module and prints them so that each module follows
its imports. Import cycles are legal and listed as notes.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: runGraph,
	}
}

type graphModuleJSON struct {
	Module  string   `json:"module"`
	Imports []string `json:"imports"`
	Hash    string   `json:"hash,omitempty"`
}

type graphJSON struct {
	Order  []graphModuleJSON `json:"order"`
	Cycles [][]string        `json:"cycles"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	if g.format == formatJSON {
		// диагностики идут в stdout только для check/build
		g.format = formatShort
	}
	res, err := compileTarget(cmd, g, target, driver.StageResolve)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f, _ := cmd.Root().PersistentFlags().GetString("format"); f == string(formatJSON) {
		return printGraphJSON(out, res.Graph)
	}
	return printGraph(out, res.Graph)
}

func printGraph(w io.Writer, mg *driver.ModuleGraph) error {
	for _, key := range mg.Order() {
		imports := mg.Imports(key)
		line := key
		if len(imports) > 0 {
			line += " -> " + strings.Join(imports, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, cycle := range mg.CycleNames() {
		path := append(append([]string{}, cycle...), cycle[0])
		if _, err := fmt.Fprintf(w, "note: import cycle %s\n", strings.Join(path, " -> ")); err != nil {
			return err
		}
	}
	return nil
}

func printGraphJSON(w io.Writer, mg *driver.ModuleGraph) error {
	out := graphJSON{Cycles: mg.CycleNames()}
	for _, key := range mg.Order() {
		entry := graphModuleJSON{Module: key, Imports: mg.Imports(key)}
		if entry.Imports == nil {
			entry.Imports = []string{}
		}
		if h, ok := mg.Hash(key); ok {
			entry.Hash = hex.EncodeToString(h[:])
		}
		out.Order = append(out.Order, entry)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
