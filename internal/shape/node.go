package shape

// Form says which of the three shapes a Node holds.
type Form int

const (
	// FormNone marks a node built without content. It is never valid.
	FormNone Form = iota
	FormScalar
	FormObject
	FormArray
)

// Field is one named child of an object shape.
type Field struct {
	Name string
	Node *Node
}

// Node is the shape of one value.
//
// Content is write-once: it is fixed by the constructor and the signature
// is memoized on first use. The only later mutation is the one-time
// assignment of the canonical identifier by an Interner.
type Node struct {
	form   Form
	kind   Kind
	fields []Field
	elem   *Node

	sig    uint64
	hashed bool

	// ref is the canonical identifier when this node duplicates an earlier
	// shape; 0 on canonical nodes.
	ref int
}

// NewScalar creates a scalar shape.
func NewScalar(k Kind) *Node {
	return &Node{form: FormScalar, kind: k}
}

// NewObject creates an object shape. Field order is significant.
func NewObject(fields ...Field) *Node {
	return &Node{form: FormObject, fields: fields}
}

// NewArray creates an array shape whose element shape is elem.
func NewArray(elem *Node) *Node {
	return &Node{form: FormArray, elem: elem}
}

// F is shorthand for Field.
func F(name string, n *Node) Field {
	return Field{Name: name, Node: n}
}

// Form returns the node's form.
func (n *Node) Form() Form { return n.form }

// Kind returns the scalar kind. Only meaningful for FormScalar.
func (n *Node) Kind() Kind { return n.kind }

// Fields returns the object fields in order. Callers must not modify them.
func (n *Node) Fields() []Field { return n.fields }

// Elem returns the element shape of an array node.
func (n *Node) Elem() *Node { return n.elem }

// IsScalar reports whether n is a scalar shape.
func (n *Node) IsScalar() bool { return n.form == FormScalar }

// Ref returns the canonical identifier this node duplicates, if any.
func (n *Node) Ref() (int, bool) {
	return n.ref, n.ref != 0
}

// valid reports whether the node has content. Children are checked one level
// deep; deeper levels were validated when they were interned.
func (n *Node) valid() bool {
	switch n.form {
	case FormScalar:
		return true
	case FormObject:
		for _, f := range n.fields {
			if f.Node == nil {
				return false
			}
		}
		return true
	case FormArray:
		return n.elem != nil
	}
	return false
}

// Equal reports exact structural equality, ignoring signatures and
// assigned identifiers.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || n.form != o.form {
		return false
	}

	switch n.form {
	case FormScalar:
		return n.kind == o.kind
	case FormObject:
		if len(n.fields) != len(o.fields) {
			return false
		}
		for i := range n.fields {
			if n.fields[i].Name != o.fields[i].Name || !n.fields[i].Node.Equal(o.fields[i].Node) {
				return false
			}
		}
		return true
	case FormArray:
		return n.elem.Equal(o.elem)
	}
	return false
}
