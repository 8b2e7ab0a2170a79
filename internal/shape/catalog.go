package shape

import (
	"fmt"

	"github.com/roach88/jsonshape/internal/value"
)

// Catalog renders every registered shape keyed by its decimal identifier,
// in identifier order. Each entry's top level is rendered structurally and
// its duplicate children collapse to markers.
func (in *Interner) Catalog() *value.Object {
	cat := &value.Object{Members: make([]value.Member, 0, len(in.shapes))}
	for i, n := range in.shapes {
		r := Render(n, RenderOptions{Collapse: true, SkipTop: true})
		cat.Members = append(cat.Members, value.Member{Key: Reference(i + 1), Value: r.Value})
	}
	return cat
}

// Expand replaces every reference marker in v with its catalog entry,
// recursively, until no markers remain. Inputs are not modified.
func Expand(v any, catalog *value.Object) (any, error) {
	e := &expander{catalog: catalog, active: map[int]bool{}}
	return e.expand(v, "$")
}

type expander struct {
	catalog *value.Object
	active  map[int]bool // identifiers being expanded on the current path
}

func (e *expander) expand(v any, path string) (any, error) {
	switch val := v.(type) {
	case string:
		id, ok := ParseReference(val)
		if !ok {
			return val, nil
		}
		entry, ok := e.catalog.Get(Reference(id))
		if !ok {
			return nil, &Error{
				Code:    ErrCodeUnknownReference,
				Message: fmt.Sprintf("no catalog entry for reference %d", id),
				Path:    path,
			}
		}
		if e.active[id] {
			return nil, &Error{
				Code:    ErrCodeReferenceCycle,
				Message: fmt.Sprintf("catalog entry %d refers to itself", id),
				Path:    path,
			}
		}
		e.active[id] = true
		defer delete(e.active, id)
		return e.expand(entry, path)

	case *value.Object:
		if val == nil {
			return nil, nil
		}
		out := &value.Object{Members: make([]value.Member, 0, len(val.Members))}
		for _, m := range val.Members {
			child, err := e.expand(m.Value, fieldPath(path, m.Key))
			if err != nil {
				return nil, err
			}
			out.Members = append(out.Members, value.Member{Key: m.Key, Value: child})
		}
		return out, nil

	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			child, err := e.expand(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	}

	return v, nil
}
