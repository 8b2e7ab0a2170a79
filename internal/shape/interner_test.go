package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternAssignsSequentialIDs(t *testing.T) {
	in := NewInterner()

	for i, n := range []*Node{
		NewScalar(Number),
		NewScalar(String),
		NewArray(NewScalar(String)),
		NewObject(F("a", NewScalar(Number))),
	} {
		id, existed, err := in.Intern(n)
		require.NoError(t, err)
		assert.False(t, existed)
		assert.Equal(t, i+1, id)

		_, hasRef := n.Ref()
		assert.False(t, hasRef, "canonical nodes carry no reference")
	}

	assert.Equal(t, 4, in.Len())
}

func TestInternMarksDuplicate(t *testing.T) {
	in := NewInterner()
	first := NewObject(F("a", NewScalar(Number)))
	second := NewObject(F("a", NewScalar(Number)))

	id1, _, err := in.Intern(first)
	require.NoError(t, err)
	id2, existed, err := in.Intern(second)
	require.NoError(t, err)

	assert.True(t, existed)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, in.Len(), "duplicates are never registered twice")

	ref, ok := second.Ref()
	assert.True(t, ok)
	assert.Equal(t, id1, ref)

	canonical, ok := in.Lookup(id1)
	require.True(t, ok)
	assert.Same(t, first, canonical, "first registered node stays canonical")
}

func TestInternCanonicalAgainIsNotMarked(t *testing.T) {
	in := NewInterner()
	n := NewScalar(Boolean)

	id, _, err := in.Intern(n)
	require.NoError(t, err)
	again, existed, err := in.Intern(n)
	require.NoError(t, err)

	assert.True(t, existed)
	assert.Equal(t, id, again)
	_, hasRef := n.Ref()
	assert.False(t, hasRef)
}

func TestInternRejectsEmptyNode(t *testing.T) {
	in := NewInterner()

	for _, n := range []*Node{nil, {}, NewArray(nil), NewObject(F("x", nil))} {
		_, _, err := in.Intern(n)
		require.Error(t, err)
		assert.True(t, IsEmptyTypeNode(err))
	}
	assert.Equal(t, 0, in.Len())
}

func TestFindDoesNotRegister(t *testing.T) {
	in := NewInterner()
	_, _, err := in.Intern(NewScalar(Number))
	require.NoError(t, err)

	probe := NewScalar(Number)
	id, ok := in.Find(probe)
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, hasRef := probe.Ref()
	assert.False(t, hasRef)

	_, ok = in.Find(NewScalar(String))
	assert.False(t, ok)
	assert.Equal(t, 1, in.Len())
}

func TestLookupOutOfRange(t *testing.T) {
	in := NewInterner()
	_, ok := in.Lookup(0)
	assert.False(t, ok)
	_, ok = in.Lookup(1)
	assert.False(t, ok)
}

// collide forces two different shapes onto the same signature.
func collide(a, b *Node) {
	a.sig, a.hashed = 42, true
	b.sig, b.hashed = 42, true
}

func TestSignatureCollisionMergesByDefault(t *testing.T) {
	in := NewInterner()
	a := NewObject(F("x", NewScalar(Number)))
	b := NewObject(F("y", NewScalar(String)))
	collide(a, b)

	_, _, err := in.Intern(a)
	require.NoError(t, err)
	id, existed, err := in.Intern(b)
	require.NoError(t, err)

	assert.True(t, existed, "hash equality is treated as shape equality")
	assert.Equal(t, 1, id)
	assert.Equal(t, 1, in.Len())
}

func TestStrictInternerSeparatesCollisions(t *testing.T) {
	in := NewInterner(Strict())
	assert.True(t, in.IsStrict())

	a := NewObject(F("x", NewScalar(Number)))
	b := NewObject(F("y", NewScalar(String)))
	c := NewObject(F("y", NewScalar(String)))
	collide(a, b)
	c.sig, c.hashed = 42, true

	idA, _, err := in.Intern(a)
	require.NoError(t, err)
	idB, existed, err := in.Intern(b)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEqual(t, idA, idB)

	idC, existed, err := in.Intern(c)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, idB, idC, "strict mode still deduplicates equal shapes in a bucket")
	assert.Equal(t, 2, in.Len())
}

func TestNodeEqual(t *testing.T) {
	a := NewObject(F("a", NewArray(NewScalar(Number))))
	b := NewObject(F("a", NewArray(NewScalar(Number))))
	c := NewObject(F("a", NewArray(NewScalar(String))))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.False(t, NewScalar(Null).Equal(NewObject()))
}
