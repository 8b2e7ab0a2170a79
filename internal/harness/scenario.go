package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one inference case.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario covers.
	Description string `yaml:"description"`

	// Format of Input: "json" (default) or "yaml".
	Format string `yaml:"format,omitempty"`

	// Strict enables structural checks on signature matches.
	Strict bool `yaml:"strict,omitempty"`

	// MaxDepth bounds nesting; 0 uses the default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Input is the document text.
	Input string `yaml:"input"`

	Expect Expect `yaml:"expect"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect lists the checked properties of a run. Unset fields are not checked.
type Expect struct {
	// Shapes is the expected number of distinct shapes.
	Shapes *int `yaml:"shapes,omitempty"`

	// Refs is the expected marker sequence in the document.
	Refs []int `yaml:"refs,omitempty"`

	// Result is the expected document rendering as JSON text.
	Result string `yaml:"result,omitempty"`

	// Error is the expected error code. When set the run must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion is an extra check against a successful run.
type Assertion struct {
	Type string `yaml:"type"`

	// ID selects the catalog entry (entry).
	ID int `yaml:"id,omitempty"`

	// Shape is the expected entry rendering as JSON text (entry).
	Shape string `yaml:"shape,omitempty"`

	// Data is a JSON document to validate (cue_accepts, cue_rejects).
	Data string `yaml:"data,omitempty"`
}

// Assertion type constants.
const (
	AssertEntry      = "entry"
	AssertRoundTrip  = "round_trip"
	AssertCUEAccepts = "cue_accepts"
	AssertCUERejects = "cue_rejects"
)

// Input format constants.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Input == "" {
		return fmt.Errorf("input is required")
	}

	switch s.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatJSON, FormatYAML, s.Format)
	}

	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}

	if s.Expect.Error != "" && (s.Expect.Shapes != nil || s.Expect.Refs != nil || s.Expect.Result != "") {
		return fmt.Errorf("expect.error cannot be combined with shapes, refs or result")
	}
	if s.Expect.Error != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions require a successful run")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertEntry:
		if a.ID < 1 {
			return fmt.Errorf("assertions[%d]: entry requires a positive id", index)
		}
		if a.Shape == "" {
			return fmt.Errorf("assertions[%d]: entry requires shape", index)
		}
	case AssertRoundTrip, AssertCUEAccepts:
	case AssertCUERejects:
		if a.Data == "" {
			return fmt.Errorf("assertions[%d]: cue_rejects requires data", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
