package shape

import "github.com/roach88/jsonshape/internal/value"

// RenderOptions controls reference collapsing.
type RenderOptions struct {
	// Collapse replaces duplicate objects and arrays with reference markers.
	Collapse bool

	// SkipTop renders the top node structurally even when it is a duplicate.
	// Children still collapse. Catalog entries use it so a definition never
	// renders as a reference to itself.
	SkipTop bool
}

// Rendering is the output of Render.
type Rendering struct {
	// Value is a value tree: kind names as strings, *value.Object for
	// objects, single-element []any for arrays, markers as strings.
	Value any

	// Refs lists every identifier emitted as a marker, in emission order.
	Refs []int
}

// Render turns a shape tree back into a value tree.
//
// Scalars always render as their kind name. An object or array that carries
// a canonical identifier renders as Reference(id) when opts.Collapse is set,
// except at the top when opts.SkipTop is set.
func Render(n *Node, opts RenderOptions) Rendering {
	r := &renderer{collapse: opts.Collapse, refs: []int{}}
	v := r.render(n, opts.SkipTop)
	return Rendering{Value: v, Refs: r.refs}
}

type renderer struct {
	collapse bool
	refs     []int
}

func (r *renderer) render(n *Node, skip bool) any {
	if r.collapse && !skip && !n.IsScalar() && n.ref != 0 {
		r.refs = append(r.refs, n.ref)
		return Reference(n.ref)
	}

	switch n.form {
	case FormScalar:
		return n.kind.String()
	case FormObject:
		obj := &value.Object{Members: make([]value.Member, 0, len(n.fields))}
		for _, f := range n.fields {
			obj.Members = append(obj.Members, value.Member{Key: f.Name, Value: r.render(f.Node, false)})
		}
		return obj
	case FormArray:
		return []any{r.render(n.elem, false)}
	}

	panic(newEmptyTypeNodeError())
}
