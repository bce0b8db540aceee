// Package token defines lexical token kinds of the Lumen language.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Token.Value holds the unescaped contents of string and character literals.
//   - Punctuation is delivered as maximal runs (Kind Punct); splitting into
//     operators happens in the parser. Lone ';', ':' and '=' get their own kinds.
//   - Built-in type names (i32, bool, str, ...) are identifiers.
package token
