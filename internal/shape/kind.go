package shape

import "strconv"

// Kind is the scalar kind of a value. Integer and float are not told apart.
type Kind int

const (
	Null Kind = iota
	Boolean
	Number
	String

	// Unknown is the element kind of an empty array, whose element shape
	// cannot be observed.
	Unknown
)

var kindNames = [...]string{
	Null:    "Null",
	Boolean: "Boolean",
	Number:  "Number",
	String:  "String",
	Unknown: "Unknown",
}

// String returns the rendered name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind returns the kind rendered as name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Reference returns the reference marker for identifier id.
func Reference(id int) string {
	return strconv.Itoa(id)
}

// ParseReference reports whether s is a reference marker and returns its
// identifier. Markers are positive decimal integers without leading zeros,
// so they never clash with kind names.
func ParseReference(s string) (int, bool) {
	if s == "" || s[0] == '0' || len(s) > 18 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}
