// Package shape infers a deduplicated structural type catalog from a value tree.
//
// Every value is reduced to its shape: a scalar kind, an object shape
// (ordered field names with child shapes) or an array shape (the shape of
// the first element). Shapes are hash-consed through an Interner: the first
// node built with a given signature becomes canonical and receives the next
// identifier (1, 2, 3, ...); every later node with the same signature keeps
// its own storage but records the canonical identifier.
//
// Rendering turns a node tree back into a value tree, replacing duplicate
// objects and arrays with reference markers (the decimal identifier as a
// string). Scalars are never replaced. The catalog maps each identifier to
// its canonical rendering, with the top level never collapsed.
//
// # State
//
// An Interner is per-run state. Build mutates the Interner it is given, so
// concurrent runs must each own an Interner. Infer creates a fresh one per
// call and is safe to call from multiple goroutines.
//
// # Equality
//
// By default two shapes are equal when their signatures are equal; a
// signature collision merges different shapes. NewInterner(Strict()) adds an
// exact structural comparison inside each signature bucket.
package shape
