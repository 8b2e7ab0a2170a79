package shape

import (
	"encoding/json"
	"strconv"

	"github.com/roach88/jsonshape/internal/value"
)

// DefaultMaxDepth bounds nesting when Builder.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Builder turns value trees into shape trees, interning every node.
//
// Build is post-order: children are built and interned before their parent,
// because the parent's signature depends on theirs. Each call mutates the
// Builder's Interner.
type Builder struct {
	Interner *Interner

	// MaxDepth is the deepest container nesting accepted (0 = DefaultMaxDepth).
	MaxDepth int
}

// NewBuilder creates a Builder over in.
func NewBuilder(in *Interner) *Builder {
	return &Builder{Interner: in}
}

// Build computes the shape of v.
//
// Accepted values: nil, bool, json.Number and Go numeric types, string,
// *value.Object, map[string]any (keys visited in RFC 8785 order) and []any.
// Arrays are typed from their first element only; an empty array becomes an
// array of Unknown. Anything else fails with UNSUPPORTED_VALUE_KIND.
func (b *Builder) Build(v any) (*Node, error) {
	return b.build(v, "$", 0)
}

func (b *Builder) maxDepth() int {
	if b.MaxDepth > 0 {
		return b.MaxDepth
	}
	return DefaultMaxDepth
}

func (b *Builder) build(v any, path string, depth int) (*Node, error) {
	if depth > b.maxDepth() {
		return nil, newDepthError(path, b.maxDepth())
	}

	var n *Node
	switch val := v.(type) {
	case nil:
		n = NewScalar(Null)
	case bool:
		n = NewScalar(Boolean)
	case json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		n = NewScalar(Number)
	case string:
		n = NewScalar(String)

	case *value.Object:
		if val == nil {
			n = NewScalar(Null)
			break
		}
		fields := make([]Field, 0, len(val.Members))
		for _, m := range val.Members {
			child, err := b.build(m.Value, fieldPath(path, m.Key), depth+1)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: m.Key, Node: child})
		}
		n = NewObject(fields...)

	case map[string]any:
		keys := value.SortedKeys(val)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			child, err := b.build(val[k], fieldPath(path, k), depth+1)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: k, Node: child})
		}
		n = NewObject(fields...)

	case []any:
		var elem *Node
		if len(val) == 0 {
			elem = NewScalar(Unknown)
			if _, _, err := b.Interner.Intern(elem); err != nil {
				return nil, err
			}
		} else {
			// only the first element is inspected
			var err error
			elem, err = b.build(val[0], path+"[0]", depth+1)
			if err != nil {
				return nil, err
			}
		}
		n = NewArray(elem)

	default:
		return nil, newUnsupportedError(path, v)
	}

	if _, _, err := b.Interner.Intern(n); err != nil {
		return nil, err
	}
	return n, nil
}

// fieldPath appends key to path, quoting keys that are not plain identifiers.
func fieldPath(path, key string) string {
	if isPlainKey(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
