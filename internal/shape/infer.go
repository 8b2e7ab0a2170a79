package shape

import "github.com/roach88/jsonshape/internal/value"

// Options configures a single inference run.
type Options struct {
	// Strict backs signature equality with structural comparison.
	Strict bool

	// MaxDepth bounds nesting (0 = DefaultMaxDepth).
	MaxDepth int
}

// Result is the outcome of one inference run.
type Result struct {
	// Root is the shape of the whole document.
	Root *Node

	// RootID is the catalog identifier of Root.
	RootID int

	// Document is the document rendered with duplicates collapsed. The root
	// itself is never collapsed.
	Document any

	// Catalog maps "1".."N" to canonical renderings.
	Catalog *value.Object

	// Refs lists the identifiers emitted as markers in Document.
	Refs []int

	// Shapes is N, the number of distinct shapes.
	Shapes int
}

// Infer runs Builder and Renderer over v with a fresh Interner.
// No partial result is returned on error.
func Infer(v any, opts Options) (*Result, error) {
	var iopts []Option
	if opts.Strict {
		iopts = append(iopts, Strict())
	}
	in := NewInterner(iopts...)

	b := &Builder{Interner: in, MaxDepth: opts.MaxDepth}
	root, err := b.Build(v)
	if err != nil {
		return nil, err
	}

	rootID, _ := in.Find(root)
	doc := Render(root, RenderOptions{Collapse: true, SkipTop: true})
	return &Result{
		Root:     root,
		RootID:   rootID,
		Document: doc.Value,
		Catalog:  in.Catalog(),
		Refs:     doc.Refs,
		Shapes:   in.Len(),
	}, nil
}

// Value returns the result as {"types": catalog, "result": document}.
func (r *Result) Value() *value.Object {
	return value.NewObject(
		value.M("types", r.Catalog),
		value.M("result", r.Document),
	)
}

// ExpandDocument returns Document with every marker substituted.
func (r *Result) ExpandDocument() (any, error) {
	return Expand(r.Document, r.Catalog)
}
