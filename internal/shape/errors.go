package shape

import (
	"errors"
	"fmt"
)

// Error is a failure of shape inference. All of them abort the run.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path locates the offending value, e.g. $.items[0].name.
	Path string
}

// ErrorCode categorizes inference errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedValueKind indicates a value outside the JSON model.
	ErrCodeUnsupportedValueKind ErrorCode = "UNSUPPORTED_VALUE_KIND"

	// ErrCodeEmptyTypeNode indicates a node built without content (a defect,
	// not a property of the input).
	ErrCodeEmptyTypeNode ErrorCode = "EMPTY_TYPE_NODE"

	// ErrCodeDepthExceeded indicates nesting deeper than the builder allows.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeUnknownReference indicates a reference marker with no catalog entry.
	ErrCodeUnknownReference ErrorCode = "UNKNOWN_REFERENCE"

	// ErrCodeReferenceCycle indicates catalog entries that reference each other.
	ErrCodeReferenceCycle ErrorCode = "REFERENCE_CYCLE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsUnsupportedValueKind returns true if err is an unsupported value error.
func IsUnsupportedValueKind(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeUnsupportedValueKind
}

// IsEmptyTypeNode returns true if err is an empty type node error.
func IsEmptyTypeNode(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeEmptyTypeNode
}

// IsDepthExceeded returns true if err is a depth limit error.
func IsDepthExceeded(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeDepthExceeded
}

func newUnsupportedError(path string, v any) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedValueKind,
		Message: fmt.Sprintf("cannot infer a shape for %T", v),
		Path:    path,
	}
}

func newEmptyTypeNodeError() *Error {
	return &Error{
		Code:    ErrCodeEmptyTypeNode,
		Message: "type node has no scalar, object or array content",
	}
}

func newDepthError(path string, maxDepth int) *Error {
	return &Error{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("nesting exceeds max depth %d", maxDepth),
		Path:    path,
	}
}
