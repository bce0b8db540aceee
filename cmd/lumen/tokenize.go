package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lumen/internal/driver"
	"lumen/internal/source"
	"lumen/internal/token"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [flags] file.lm",
		Short: "Tokenize a lumen source file",
		Long:  `Tokenize prints the token stream of one file; with --format json as a JSON array`,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE:  runTokenize,
	}
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Value string `json:"value,omitempty"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Tokenize(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if g.format == formatJSON {
		err = printTokensJSON(out, result.Tokens, result.Files)
	} else {
		err = printTokens(out, result.Tokens, result.Files)
	}
	if err != nil {
		return err
	}

	if result.Bag.Len() > 0 {
		diagOpts := g
		if diagOpts.format == formatJSON {
			diagOpts.format = formatShort
		}
		if err := diagOpts.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.Files); err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return reportedError{code: exitFailure}
	}
	return nil
}

func printTokens(w io.Writer, toks []token.Token, fs *source.FileSet) error {
	for _, tok := range toks {
		start, _ := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%d:%d\t%s", start.Line, start.Col, tok.Kind)
		if tok.Text != "" {
			line += fmt.Sprintf("\t%q", tok.Text)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func printTokensJSON(w io.Writer, toks []token.Token, fs *source.FileSet) error {
	out := make([]tokenJSON, 0, len(toks))
	for _, tok := range toks {
		start, _ := fs.Resolve(tok.Span)
		out = append(out, tokenJSON{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Value: tok.Value,
			Start: tok.Span.Start,
			End:   tok.Span.End,
			Line:  start.Line,
			Col:   start.Col,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
