package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/jsonshape/internal/value"
)

// Input format names for --input.
const (
	InputAuto = "auto"
	InputJSON = "json"
	InputYAML = "yaml"
)

// ValidInputs defines the allowed --input values.
var ValidInputs = []string{InputAuto, InputJSON, InputYAML}

// detectInput resolves "auto" by file extension. Standard input and
// unknown extensions read as JSON.
func detectInput(path, input string) string {
	if input != InputAuto && input != "" {
		return input
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return InputYAML
	}
	return InputJSON
}

// readDocument reads one document from path, or from stdin when path is
// "-". Every failure is a *value.InputReadError.
func readDocument(path, input string, stdin io.Reader) (any, string, error) {
	format := detectInput(path, input)

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, format, &value.InputReadError{Format: format, Err: err}
		}
		defer f.Close()
		r = f
	}

	switch format {
	case InputJSON:
		doc, err := value.DecodeJSON(r)
		return doc, format, err
	case InputYAML:
		doc, err := value.DecodeYAML(r)
		return doc, format, err
	}
	return nil, format, &value.InputReadError{
		Format: format,
		Err:    fmt.Errorf("unknown input format %q: must be one of %v", input, ValidInputs),
	}
}

// writeJSONFile writes v as indented canonical JSON.
func writeJSONFile(path string, v any) error {
	data, err := value.Marshal(v, value.EncodeOptions{Indent: "  "})
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
