package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/jsonshape/internal/value"
)

func TestRenderFlatRecord(t *testing.T) {
	root, _ := build(t, `{"id": 1, "name": "a", "tags": ["x", "y"]}`)

	r := Render(root, RenderOptions{Collapse: true, SkipTop: true})
	want := value.NewObject(
		value.M("id", "Number"),
		value.M("name", "String"),
		value.M("tags", []any{"String"}),
	)
	if diff := cmp.Diff(want, r.Value); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, r.Refs)
}

func TestRenderScalarsNeverCollapse(t *testing.T) {
	root, _ := build(t, `{"a": "x", "b": "y", "c": "z", "d": [1], "e": 2}`)

	r := Render(root, RenderOptions{Collapse: true})
	assert.Equal(t, `{"a":"String","b":"String","c":"String","d":["Number"],"e":"Number"}`, marshal(t, r.Value))
	assert.Empty(t, r.Refs)
}

func TestRenderCollapsesDuplicateObjects(t *testing.T) {
	root, _ := build(t, `{"a": {"x": 1}, "b": {"x": 2}, "c": [{"x": 3}]}`)

	r := Render(root, RenderOptions{Collapse: true, SkipTop: true})
	assert.Equal(t, `{"a":{"x":"Number"},"b":"2","c":["2"]}`, marshal(t, r.Value))
	assert.Equal(t, []int{2, 2}, r.Refs)
}

func TestRenderWithoutCollapse(t *testing.T) {
	root, _ := build(t, `{"a": {"x": 1}, "b": {"x": 2}}`)

	r := Render(root, RenderOptions{})
	assert.Equal(t, `{"a":{"x":"Number"},"b":{"x":"Number"}}`, marshal(t, r.Value))
	assert.Empty(t, r.Refs)
}

func TestRenderArrayOfEqualObjects(t *testing.T) {
	// Arrays are typed from their first element only, so the second
	// element is never built and never appears as a reference marker.
	// Rendering it as [{"a":"Number"}, "<id>"] would need every element built.
	root, in := build(t, `[{"a": 1}, {"a": 1}]`)

	r := Render(root, RenderOptions{Collapse: true, SkipTop: true})
	assert.Equal(t, `[{"a":"Number"}]`, marshal(t, r.Value))
	assert.Equal(t, 3, in.Len())
}

func TestRenderSkipTopOnlyAffectsTop(t *testing.T) {
	in := NewInterner()
	b := NewBuilder(in)
	doc := decode(t, `{"inner": {"v": true}, "again": {"v": false}}`)

	_, err := b.Build(doc)
	assert.NoError(t, err)
	dup, err := b.Build(doc)
	assert.NoError(t, err)

	collapsed := Render(dup, RenderOptions{Collapse: true})
	assert.Equal(t, `"3"`, marshal(t, collapsed.Value))
	assert.Equal(t, []int{3}, collapsed.Refs)

	skipped := Render(dup, RenderOptions{Collapse: true, SkipTop: true})
	assert.Equal(t, `{"inner":"2","again":"2"}`, marshal(t, skipped.Value))
	assert.Equal(t, []int{2, 2}, skipped.Refs)
}

func TestRenderEmptyContainers(t *testing.T) {
	root, _ := build(t, `{"list": [], "meta": {}, "flag": true, "none": null}`)

	r := Render(root, RenderOptions{Collapse: true, SkipTop: true})
	assert.Equal(t, `{"list":["Unknown"],"meta":{},"flag":"Boolean","none":"Null"}`, marshal(t, r.Value))
}

func TestRenderEmptyNodePanics(t *testing.T) {
	assert.PanicsWithError(t, newEmptyTypeNodeError().Error(), func() {
		Render(&Node{}, RenderOptions{})
	})
}
