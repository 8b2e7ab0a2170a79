// Package value provides the generic, order-preserving JSON value model that
// the shape inference core consumes and produces.
//
// A value tree is built from plain Go values:
//   - nil for JSON null
//   - bool
//   - json.Number (as produced by the decoders) or any Go numeric type
//   - string
//   - *Object for objects, keeping member insertion order
//   - []any for arrays
//
// This package imports nothing internal. Decoding (JSON, YAML) and encoding
// (ordered JSON, YAML nodes) live here so the core never touches raw text.
package value
