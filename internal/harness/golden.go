package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/value"
)

// Snapshot returns the canonical golden content for a result: the
// {"types", "result"} object on success, or the error code, message and
// path on failure.
func Snapshot(result *Result) ([]byte, error) {
	if result.Inference != nil {
		return value.Marshal(result.Inference.Value(), value.EncodeOptions{})
	}

	errObj := value.NewObject()
	var se *shape.Error
	if errors.As(result.Err, &se) {
		errObj.Set("code", string(se.Code))
		errObj.Set("message", se.Message)
		errObj.Set("path", se.Path)
	} else if result.Err != nil {
		errObj.Set("message", result.Err.Error())
	}
	return value.Marshal(value.NewObject(value.M("error", errObj)), value.EncodeOptions{})
}

// RunWithGolden runs scenario, fails t on any failed expectation, and
// compares its snapshot against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		for _, msg := range result.Errors {
			t.Error(msg)
		}
	}

	snapshot, err := Snapshot(result)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)
	return nil
}
