package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// MaxNestingDepth bounds how deeply containers may nest in decoded input.
const MaxNestingDepth = 10000

// ErrTooDeep reports input nested beyond MaxNestingDepth.
var ErrTooDeep = fmt.Errorf("nesting exceeds %d levels", MaxNestingDepth)

// InputReadError reports a document that could not be read or parsed.
// It is raised at the input boundary, never by the inference core.
type InputReadError struct {
	Format string // "json" or "yaml"
	Err    error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("read %s input: %v", e.Format, e.Err)
}

func (e *InputReadError) Unwrap() error {
	return e.Err
}

// IsInputReadError returns true if err is (or wraps) an InputReadError.
func IsInputReadError(err error) bool {
	var re *InputReadError
	return errors.As(err, &re)
}

// DecodeJSON reads exactly one JSON document from r.
// Object key order is preserved and numbers are kept as json.Number.
// Duplicate keys keep their first position and their last value.
// Keys and strings are NFC normalized, so canonically equivalent keys are
// the same key.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &InputReadError{Format: "json", Err: err}
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &InputReadError{Format: "json", Err: err}
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		if s, isString := tok.(string); isString {
			return norm.NFC.String(s), nil
		}
		// json.Number, bool or nil
		return tok, nil
	}

	if depth >= MaxNestingDepth {
		return nil, ErrTooDeep
	}
	switch delim {
	case '{':
		return decodeJSONObject(dec, depth+1)
	case '[':
		return decodeJSONArray(dec, depth+1)
	}
	return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
}

func decodeJSONObject(dec *json.Decoder, depth int) (*Object, error) {
	obj := &Object{}
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, truncated(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key: unexpected token %v", tok)
		}
		key = norm.NFC.String(key)

		v, err := decodeJSONValue(dec, depth)
		if err == ErrTooDeep {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", key, truncated(err))
		}

		if i, seen := index[key]; seen {
			obj.Members[i].Value = v
			continue
		}
		index[key] = len(obj.Members)
		obj.Members = append(obj.Members, Member{Key: key, Value: v})
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, truncated(err)
	}
	return obj, nil
}

func decodeJSONArray(dec *json.Decoder, depth int) ([]any, error) {
	arr := []any{}
	for dec.More() {
		v, err := decodeJSONValue(dec, depth)
		if err == ErrTooDeep {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", len(arr), truncated(err))
		}
		arr = append(arr, v)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, truncated(err)
	}
	return arr, nil
}

// truncated reports a plain EOF inside a container as an unexpected one.
func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// DecodeYAML reads the first YAML document from r into a value tree.
// Mapping order is preserved, aliases are expanded and scalar tags decide
// the Go type (!!int and !!float become json.Number). Keys and strings are
// NFC normalized, as in DecodeJSON.
func DecodeYAML(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &InputReadError{Format: "yaml", Err: err}
	}

	v, err := fromYAMLNode(&doc, map[*yaml.Node]bool{}, 0)
	if err != nil {
		return nil, &InputReadError{Format: "yaml", Err: err}
	}
	return v, nil
}

func fromYAMLNode(n *yaml.Node, expanding map[*yaml.Node]bool, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0], expanding, depth)

	case yaml.MappingNode:
		if depth >= MaxNestingDepth {
			return nil, ErrTooDeep
		}
		obj := &Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			key := norm.NFC.String(keyNode.Value)
			v, err := fromYAMLNode(valNode, expanding, depth+1)
			if err == ErrTooDeep {
				return nil, err
			}
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			obj.Set(key, v)
		}
		return obj, nil

	case yaml.SequenceNode:
		if depth >= MaxNestingDepth {
			return nil, ErrTooDeep
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAMLNode(c, expanding, depth+1)
			if err == ErrTooDeep {
				return nil, err
			}
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.AliasNode:
		if expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return fromYAMLNode(n.Alias, expanding, depth)

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range, still a number
			return json.Number(n.Value), nil
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags are kept as text
		return norm.NFC.String(n.Value), nil
	}
}
