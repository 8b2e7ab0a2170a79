package shape

// Interner assigns identifiers to shapes, first seen wins.
//
// Identifiers start at 1 and grow by one per newly registered shape. An
// identifier always denotes the first node registered for it. An Interner
// is not safe for concurrent use.
type Interner struct {
	strict  bool
	buckets map[uint64][]int // signature -> identifiers
	shapes  []*Node          // shapes[id-1] is canonical for id
}

// Option configures an Interner.
type Option func(*Interner)

// Strict makes equal signatures insufficient: shapes in the same signature
// bucket must also be structurally equal. Without it a signature collision
// merges two different shapes.
func Strict() Option {
	return func(in *Interner) { in.strict = true }
}

// NewInterner creates an empty Interner.
func NewInterner(opts ...Option) *Interner {
	in := &Interner{buckets: make(map[uint64][]int)}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// IsStrict reports whether structural comparison backs signature equality.
func (in *Interner) IsStrict() bool { return in.strict }

// Len returns the number of registered shapes (the highest identifier).
func (in *Interner) Len() int { return len(in.shapes) }

// Intern registers n if no equal shape exists yet and returns its new
// identifier. Otherwise n records the existing identifier (see Node.Ref)
// and Intern returns it with existed=true. n itself is never replaced.
//
// Re-interning a canonical node returns its identifier without marking it.
func (in *Interner) Intern(n *Node) (id int, existed bool, err error) {
	if n == nil || !n.valid() {
		return 0, false, newEmptyTypeNodeError()
	}

	if id, ok := in.find(n); ok {
		if in.shapes[id-1] != n && n.ref == 0 {
			n.ref = id
		}
		return id, true, nil
	}

	in.shapes = append(in.shapes, n)
	id = len(in.shapes)
	sig := n.Signature()
	in.buckets[sig] = append(in.buckets[sig], id)
	return id, false, nil
}

// Find returns the identifier of a registered shape equal to n without
// registering or marking n.
func (in *Interner) Find(n *Node) (int, bool) {
	if n == nil || !n.valid() {
		return 0, false
	}
	return in.find(n)
}

func (in *Interner) find(n *Node) (int, bool) {
	bucket := in.buckets[n.Signature()]
	if len(bucket) == 0 {
		return 0, false
	}
	if !in.strict {
		return bucket[0], true
	}
	for _, id := range bucket {
		if in.shapes[id-1].Equal(n) {
			return id, true
		}
	}
	return 0, false
}

// Lookup returns the canonical node for id.
func (in *Interner) Lookup(id int) (*Node, bool) {
	if id < 1 || id > len(in.shapes) {
		return nil, false
	}
	return in.shapes[id-1], true
}

// Shapes returns the canonical nodes ordered by identifier.
func (in *Interner) Shapes() []*Node {
	out := make([]*Node, len(in.shapes))
	copy(out, in.shapes)
	return out
}
