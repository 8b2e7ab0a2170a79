package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EncodeOptions controls Marshal and Encode output.
type EncodeOptions struct {
	// Indent, when non-empty, pretty-prints with this indent per level.
	Indent string
}

// Marshal writes v as JSON, keeping Object member order.
//
// Differences from json.Marshal:
//  1. *Object members keep insertion order; map keys use RFC 8785 order
//  2. No HTML escaping (< > & are written as-is)
func Marshal(v any, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	if opts.Indent == "" {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", opts.Indent); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	return out.Bytes(), nil
}

// Encode writes Marshal(v, opts) followed by a newline.
func Encode(w io.Writer, v any, opts EncodeOptions) error {
	data, err := Marshal(v, opts)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case string:
		return writeString(buf, val)
	case json.Number:
		if val == "" {
			buf.WriteByte('0')
			return nil
		}
		buf.WriteString(string(val))
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float64:
		return writeFloat(buf, val)
	case float32:
		return writeFloat(buf, float64(val))
	case *Object:
		return writeObject(buf, val)
	case []any:
		return writeArray(buf, val)
	case map[string]any:
		obj := &Object{Members: make([]Member, 0, len(val))}
		for _, k := range SortedKeys(val) {
			obj.Members = append(obj.Members, Member{Key: k, Value: val[k]})
		}
		return writeObject(buf, obj)
	default:
		return fmt.Errorf("unsupported type for JSON output: %T", v)
	}
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("unsupported float value: %v", f)
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

// writeString writes s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder adds a trailing newline
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

func writeObject(buf *bytes.Buffer, obj *Object) error {
	if obj == nil {
		buf.WriteString("null")
		return nil
	}

	buf.WriteByte('{')
	for i, m := range obj.Members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, m.Key); err != nil {
			return fmt.Errorf("key %q: %w", m.Key, err)
		}
		buf.WriteByte(':')
		if err := writeValue(buf, m.Value); err != nil {
			return fmt.Errorf("value for key %q: %w", m.Key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// ToYAMLNode converts a value tree into a yaml.Node, keeping Object order.
// Strings are always tagged !!str, so reference markers such as "3" stay
// quoted in the emitted YAML.
func ToYAMLNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	case *Object:
		if val == nil {
			return ToYAMLNode(nil)
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range val.Members {
			child, err := ToYAMLNode(m.Value)
			if err != nil {
				return nil, fmt.Errorf("value for key %q: %w", m.Key, err)
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				child,
			)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range val {
			child, err := ToYAMLNode(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case map[string]any:
		obj := &Object{}
		for _, k := range SortedKeys(val) {
			obj.Members = append(obj.Members, Member{Key: k, Value: val[k]})
		}
		return ToYAMLNode(obj)
	default:
		// numbers
		data, err := Marshal(v, EncodeOptions{})
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(data)}, nil
	}
}
