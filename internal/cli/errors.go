package cli

import (
	"errors"

	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/store"
	"github.com/roach88/jsonshape/internal/value"
)

// Error code constants, unified across all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInvalidFlag = "E002" // Flag value out of range
	ErrCodeNotFound    = "E005" // Path or run not found
	ErrCodeWriteFailed = "E007" // File write error

	// Input errors
	ErrCodeInputRead     = "E101" // Document unreadable or malformed
	ErrCodeInvalidResult = "E102" // Saved result lacks types/result

	// Inference errors
	ErrCodeUnsupportedValue = "E201" // Value outside the JSON model
	ErrCodeEmptyTypeNode    = "E202" // Type node without content
	ErrCodeDepthExceeded    = "E203" // Nesting beyond --max-depth
	ErrCodeUnknownReference = "E204" // Marker without catalog entry
	ErrCodeReferenceCycle   = "E205" // Catalog refers to itself

	// Output errors
	ErrCodeCUEFailed = "E301" // CUE generation failed

	// Archive errors
	ErrCodeArchive = "E401" // Run archive unavailable
)

var shapeErrorCodes = map[shape.ErrorCode]string{
	shape.ErrCodeUnsupportedValueKind: ErrCodeUnsupportedValue,
	shape.ErrCodeEmptyTypeNode:        ErrCodeEmptyTypeNode,
	shape.ErrCodeDepthExceeded:        ErrCodeDepthExceeded,
	shape.ErrCodeUnknownReference:     ErrCodeUnknownReference,
	shape.ErrCodeReferenceCycle:       ErrCodeReferenceCycle,
}

// MapErrorCode returns the CLI error code and exit code for err.
func MapErrorCode(err error) (string, int) {
	if code, ok := shape.CodeOf(err); ok {
		if cli, ok := shapeErrorCodes[code]; ok {
			return cli, ExitFailure
		}
	}
	switch {
	case value.IsInputReadError(err):
		return ErrCodeInputRead, ExitCommandError
	case errors.Is(err, store.ErrRunNotFound):
		return ErrCodeNotFound, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// shapeErrorDetails exposes the inference error fields in json/yaml output.
func shapeErrorDetails(err error) any {
	var se *shape.Error
	if !errors.As(err, &se) {
		return nil
	}
	return map[string]string{
		"code": string(se.Code),
		"path": se.Path,
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(formatter *OutputFormatter, err error) error {
	code, exit := MapErrorCode(err)
	_ = formatter.Error(code, err.Error(), shapeErrorDetails(err))
	return WrapExitError(exit, code, err)
}

// failWith reports a command-level error with an explicit code.
func failWith(formatter *OutputFormatter, code string, exit int, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}
