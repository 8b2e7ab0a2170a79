package value

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONPreservesOrder(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"z": 1, "a": {"y": [], "b": null}, "m": "s"}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok, "expected *Object, got %T", v)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, _ := obj.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())
}

func TestDecodeJSONScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{`null`, nil},
		{`true`, true},
		{`false`, false},
		{`42`, json.Number("42")},
		{`-2.5e3`, json.Number("-2.5e3")},
		{`"text"`, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := DecodeJSON(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestDecodeJSONEmptyArrayIsNotNil(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"a": 1, "b": 2, "a": "last"}`))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, "last", a)
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"empty", "", "empty document"},
		{"whitespace only", "  \n", "empty document"},
		{"trailing value", `{} {}`, "unexpected data after top-level value"},
		{"trailing garbage", `[1] x`, "invalid character"},
		{"truncated object", `{"a": 1`, io.ErrUnexpectedEOF.Error()},
		{"truncated array", `[1, 2`, io.ErrUnexpectedEOF.Error()},
		{"bad syntax", `{"a" 1}`, "invalid character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, IsInputReadError(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestDecodeYAMLPreservesOrder(t *testing.T) {
	src := `
servers:
  - host: a
    port: 80
primary:
  host: c
  port: 82
  weight: 1.5
  enabled: true
  note: ~
`
	v, err := DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"servers", "primary"}, obj.Keys())

	primary, _ := obj.Get("primary")
	p := primary.(*Object)
	assert.Equal(t, []string{"host", "port", "weight", "enabled", "note"}, p.Keys())

	port, _ := p.Get("port")
	assert.Equal(t, json.Number("82"), port)
	weight, _ := p.Get("weight")
	assert.Equal(t, json.Number("1.5"), weight)
	enabled, _ := p.Get("enabled")
	assert.Equal(t, true, enabled)
	note, ok := p.Get("note")
	assert.True(t, ok)
	assert.Nil(t, note)
}

func TestDecodeYAMLAcceptsJSON(t *testing.T) {
	v, err := DecodeYAML(strings.NewReader(`{"b": [1, "x"], "a": false}`))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	b, _ := obj.Get("b")
	assert.Equal(t, []any{json.Number("1"), "x"}, b)
}

func TestDecodeYAMLExpandsAliases(t *testing.T) {
	src := `
base: &base
  x: 1
copy: *base
`
	v, err := DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	copied, _ := v.(*Object).Get("copy")
	assert.Equal(t, []string{"x"}, copied.(*Object).Keys())
}

func TestDecodeYAMLQuotedNumberIsString(t *testing.T) {
	v, err := DecodeYAML(strings.NewReader(`id: "42"`))
	require.NoError(t, err)

	id, _ := v.(*Object).Get("id")
	assert.Equal(t, "42", id)
}

func TestDecodeYAMLErrors(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, IsInputReadError(err))
	assert.Contains(t, err.Error(), "empty document")

	_, err = DecodeYAML(strings.NewReader("? [a, b]\n: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping keys must be scalars")

	_, err = DecodeYAML(strings.NewReader("a: [1, 2\n"))
	require.Error(t, err)
	assert.True(t, IsInputReadError(err))
}

func TestDecodeJSONNestingLimit(t *testing.T) {
	deep := strings.Repeat("[", MaxNestingDepth+1) + strings.Repeat("]", MaxNestingDepth+1)
	_, err := DecodeJSON(strings.NewReader(deep))
	require.Error(t, err)
	assert.True(t, IsInputReadError(err))
	assert.ErrorIs(t, err, ErrTooDeep)

	deep = strings.Repeat(`{"a":`, MaxNestingDepth+1) + "1" + strings.Repeat("}", MaxNestingDepth+1)
	_, err = DecodeJSON(strings.NewReader(deep))
	assert.ErrorIs(t, err, ErrTooDeep)

	atLimit := strings.Repeat("[", MaxNestingDepth) + strings.Repeat("]", MaxNestingDepth)
	_, err = DecodeJSON(strings.NewReader(atLimit))
	assert.NoError(t, err)
}

func TestDecodeJSONNormalizesKeys(t *testing.T) {
	// precomposed and decomposed spellings of the same key
	v, err := DecodeJSON(strings.NewReader("{\"caf\u00e9\": 1, \"cafe\u0301\": \"x\"}"))
	require.NoError(t, err)

	obj := v.(*Object)
	require.Equal(t, 1, obj.Len())
	assert.Equal(t, "caf\u00e9", obj.Members[0].Key)
	assert.Equal(t, "x", obj.Members[0].Value)

	// the re-encoded object decodes to the same members
	data, err := Marshal(obj, EncodeOptions{})
	require.NoError(t, err)
	again, err := DecodeJSON(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, obj, again)
}

func TestDecodeJSONNormalizesStrings(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader("[\"cafe\u0301\"]"))
	require.NoError(t, err)
	assert.Equal(t, []any{"caf\u00e9"}, v)
}

func TestDecodeYAMLNormalizesKeys(t *testing.T) {
	v, err := DecodeYAML(strings.NewReader("caf\u00e9: 1\ncafe\u0301: x\n"))
	require.NoError(t, err)

	obj := v.(*Object)
	require.Equal(t, 1, obj.Len())
	assert.Equal(t, []string{"caf\u00e9"}, obj.Keys())
	assert.Equal(t, "x", obj.Members[0].Value)
}
