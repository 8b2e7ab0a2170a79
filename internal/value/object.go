package value

import (
	"slices"
	"unicode/utf16"
)

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers the order its keys were first set.
type Object struct {
	Members []Member
}

// NewObject creates an Object from members, in order.
// Later duplicates replace the value of an earlier key but keep its position.
func NewObject(members ...Member) *Object {
	obj := &Object{Members: make([]Member, 0, len(members))}
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj
}

// M is shorthand for Member.
// Example: NewObject(M("id", 1), M("name", "cart"))
func M(key string, v any) Member {
	return Member{Key: key, Value: v}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v any) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// SortedKeys returns the keys of an unordered map in RFC 8785 order
// (UTF-16 code units). Go's string ordering is UTF-8 and differs for
// characters outside the BMP.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// MarshalJSON writes the object with its members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Marshal(o, EncodeOptions{})
}

// MarshalYAML implements yaml.Marshaler, keeping member order.
func (o *Object) MarshalYAML() (any, error) {
	return ToYAMLNode(o)
}
