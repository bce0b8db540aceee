package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a token the lexer already reported.
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	StringLit
	CharLit

	// Punct is a coalesced run of ASCII punctuation, e.g. "->" or "==-".
	Punct
	Semicolon // ;
	Colon     // :
	Assign    // =
	Comma     // ,
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]

	KwFn     // fn
	KwLet    // let
	KwMut    // mut
	KwReturn // return
	KwIf     // if
	KwElse   // else
	KwImport // import
	KwStruct // struct
	KwTrue   // true
	KwFalse  // false
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	CharLit:   "CharLit",
	Punct:     "Punct",
	Semicolon: "Semicolon",
	Colon:     "Colon",
	Assign:    "Assign",
	Comma:     "Comma",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	KwFn:      "KwFn",
	KwLet:     "KwLet",
	KwMut:     "KwMut",
	KwReturn:  "KwReturn",
	KwIf:      "KwIf",
	KwElse:    "KwElse",
	KwImport:  "KwImport",
	KwStruct:  "KwStruct",
	KwTrue:    "KwTrue",
	KwFalse:   "KwFalse",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= KwFn && k <= KwFalse
}
