// Package hir provides the High-level Intermediate Representation for Lumen.
//
// HIR is the typed, name-resolved output of semantic analysis. Every
// expression carries a TypeID, every identifier is resolved either to a
// function-local slot or to an absolute module-level symbol, and calls name
// their callee by absolute symbol.
//
// The HIR layer is the input for:
// - the ownership checker (internal/borrow)
// - lowering to MIR (internal/mir)
package hir

// LocalID identifies a local variable or parameter within a function.
type LocalID uint32

// NoLocalID marks the absence of a local.
const NoLocalID LocalID = ^LocalID(0)
