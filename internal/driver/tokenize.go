package driver

import (
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/token"
)

// TokenizeResult holds the token stream of a single file.
type TokenizeResult struct {
	Files  *source.FileSet
	File   *source.File
	Bag    *diag.Bag
	Tokens []token.Token
}

// Tokenize lexes one file outside of any project. Lexical errors go to the
// result bag; the error is returned only when the file cannot be read.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", path, err)
	}
	bag := diag.NewBag(maxDiagnostics)
	file := fs.Get(id)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{Files: fs, File: file, Bag: bag, Tokens: lx.All()}, nil
}
