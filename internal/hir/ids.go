// Package hir is the shared, mutable program graph the call-site
// adaptation layer reads and rewrites: procedures, formals, calls, and the
// statement/expression trees of their bodies. Parent/child links are plain
// pointers into the graph's arena-backed slices, following the rest of the
// compiler's pointer-linked intermediate representations.
package hir

// FuncID identifies a Func within a Module's function arena.
type FuncID uint32

const NoFuncID FuncID = 0

// LocalID identifies a local variable or formal within a single Func.
type LocalID uint32

const NoLocalID LocalID = 0
