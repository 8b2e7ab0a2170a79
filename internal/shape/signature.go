package shape

import "hash/fnv"

// Signature fold constants. Objects and arrays start from different seeds so
// an empty object never matches an array.
const (
	objectSeed uint64 = 1
	arraySeed  uint64 = 2

	// foldMul scales every folded component.
	foldMul uint64 = 13

	// posMul shifts the accumulator before each component, which makes the
	// fold order-sensitive: {"a","b"} and {"b","a"} differ.
	posMul uint64 = 31
)

// Signature returns the memoized structural hash of n.
//
// Scalar values do not participate: every string has the signature of
// String. The signature is computed once; content must not change after
// the first call.
//
// Signature panics with an EMPTY_TYPE_NODE *Error when n has no content.
func (n *Node) Signature() uint64 {
	if !n.hashed {
		n.sig = n.computeSignature()
		n.hashed = true
	}
	return n.sig
}

func (n *Node) computeSignature() uint64 {
	if !n.valid() {
		panic(newEmptyTypeNodeError())
	}

	switch n.form {
	case FormScalar:
		return hashString(n.kind.String())

	case FormObject:
		h := objectSeed
		for _, f := range n.fields {
			h = h*posMul + hashString(f.Name)*foldMul
			h = h*posMul + f.Node.Signature()*foldMul
		}
		return h

	case FormArray:
		return arraySeed*posMul + n.elem.Signature()*foldMul
	}

	panic(newEmptyTypeNodeError())
}

// hashString is FNV-1a 64; stable across processes.
func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
