package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedChar         Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexBadEscape                Code = 1005
	LexBadCharLength            Code = 1006
	LexBadNumber                Code = 1007

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectSemicolon     Code = 2002
	SynExpectIdentifier    Code = 2003
	SynExpectType          Code = 2004
	SynExpectExpression    Code = 2005
	SynUnclosedDelimiter   Code = 2006
	SynAttributeNotAllowed Code = 2007
	SynMissingBody         Code = 2008

	// Семантические
	SemaInfo                 Code = 3000
	SemaNameCollision        Code = 3001
	SemaUnresolvedIdentifier Code = 3002
	SemaUnresolvedFunction   Code = 3003
	SemaArityMismatch        Code = 3004
	SemaTypeMismatch         Code = 3005
	SemaUnknownType          Code = 3006
	SemaMissingReturn        Code = 3007
	SemaInvalidAssignTarget  Code = 3008
	SemaRecursiveType        Code = 3009
	SemaUnknownAttribute     Code = 3010
	SemaInvalidGlobal        Code = 3011

	// Разрешение модулей
	ResInfo           Code = 4000
	ResModuleNotFound Code = 4001
	ResIOError        Code = 4002

	// Владение
	OwnInfo                 Code = 5000
	OwnUseAfterMove         Code = 5001
	OwnMutateImmutable      Code = 5002
	OwnMutBorrowOfImmutable Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Invalid character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedChar:         "Unterminated character literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadEscape:                "Invalid escape sequence",
		LexBadCharLength:            "Character literal must contain exactly one character",
		LexBadNumber:                "Malformed number literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Missing semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynAttributeNotAllowed:      "Attribute not allowed here",
		SynMissingBody:              "Function without body",
		SemaInfo:                    "Semantic information",
		SemaNameCollision:           "Name collision",
		SemaUnresolvedIdentifier:    "Unresolved identifier",
		SemaUnresolvedFunction:      "Unresolved function",
		SemaArityMismatch:           "Wrong number of arguments",
		SemaTypeMismatch:            "Type mismatch",
		SemaUnknownType:             "Unknown type",
		SemaMissingReturn:           "Missing return in function",
		SemaInvalidAssignTarget:     "Invalid assignment target",
		SemaRecursiveType:           "Recursive type has infinite size",
		SemaUnknownAttribute:        "Unknown attribute",
		SemaInvalidGlobal:           "Global initializer must be a literal",
		ResInfo:                     "Module resolution information",
		ResModuleNotFound:           "Module not found",
		ResIOError:                  "I/O error",
		OwnInfo:                     "Ownership information",
		OwnUseAfterMove:             "Use of moved value",
		OwnMutateImmutable:          "Assignment to immutable binding",
		OwnMutBorrowOfImmutable:     "Mutable borrow of immutable binding",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OWN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
