package shape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonshape/internal/value"
)

// decode parses src as JSON, failing the test on error.
func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := value.DecodeJSON(strings.NewReader(src))
	require.NoError(t, err)
	return v
}

// marshal renders a value tree as compact JSON for readable assertions.
func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := value.Marshal(v, value.EncodeOptions{})
	require.NoError(t, err)
	return string(data)
}

// build runs a fresh builder over src.
func build(t *testing.T, src string) (*Node, *Interner) {
	t.Helper()
	in := NewInterner()
	root, err := NewBuilder(in).Build(decode(t, src))
	require.NoError(t, err)
	return root, in
}
