package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/jsonshape/internal/runid"
	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/store"
	"github.com/roach88/jsonshape/internal/value"
)

// Harness carries the per-scenario environment.
type Harness struct {
	store  *store.Store
	ids    runid.Generator
	logger *slog.Logger
}

// Run executes scenario and checks its expectations.
//
// Each scenario gets a fresh interner and an in-memory archive. The run is
// archived under a fixed id and read back, so archive encoding is checked
// alongside the inference itself.
//
// The returned error covers problems running the scenario, such as input
// that does not parse. Failed expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	doc, err := decodeInput(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		ids:    runid.NewFixedGenerator("scenario-" + scenario.Name),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(context.Background(), scenario, doc)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario, doc any) (*Result, error) {
	result := NewResult()
	opts := shape.Options{Strict: scenario.Strict, MaxDepth: scenario.MaxDepth}

	res, err := shape.Infer(doc, opts)
	if err != nil {
		h.logger.Debug("inference failed", "scenario", scenario.Name, "error", err)
		result.Err = err
		checkError(result, scenario.Expect, err)
		return result, nil
	}
	result.Inference = res

	if scenario.Expect.Error != "" {
		result.AddError("expected error %s, inference succeeded", scenario.Expect.Error)
		return result, nil
	}

	if err := h.archive(ctx, scenario, opts, res, result); err != nil {
		return nil, err
	}

	checkExpect(result, scenario.Expect, res)

	actx := &AssertionContext{Input: doc, Result: res}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError("%s", msg)
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}

// archive writes the run and verifies it reads back unchanged.
func (h *Harness) archive(ctx context.Context, scenario *Scenario, opts shape.Options, res *shape.Result, result *Result) error {
	id := h.ids.Generate()
	seq, err := h.store.WriteRun(ctx, store.NewRun(id, scenario.Name, inputFormat(scenario), opts, res))
	if err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}
	result.RunID, result.Seq = id, seq

	stored, err := h.store.ReadRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read archived run: %w", err)
	}
	if got, want := canonical(stored.Catalog), canonical(res.Catalog); got != want {
		result.AddError("archived catalog differs: got %s, want %s", got, want)
	}
	if got, want := canonical(stored.Document), canonical(res.Document); got != want {
		result.AddError("archived document differs: got %s, want %s", got, want)
	}
	return nil
}

func checkError(result *Result, expect Expect, err error) {
	if expect.Error == "" {
		result.AddError("inference failed: %v", err)
		return
	}
	code, ok := shape.CodeOf(err)
	if !ok || string(code) != expect.Error {
		result.AddError("expected error %s, got %v", expect.Error, err)
	}
}

func checkExpect(result *Result, expect Expect, res *shape.Result) {
	if expect.Shapes != nil && *expect.Shapes != res.Shapes {
		result.AddError("expected %d shapes, got %d", *expect.Shapes, res.Shapes)
	}

	if expect.Refs != nil && !slices.Equal(expect.Refs, res.Refs) {
		result.AddError("expected refs %v, got %v", expect.Refs, res.Refs)
	}

	if expect.Result != "" {
		want, err := canonicalText(expect.Result)
		if err != nil {
			result.AddError("expect.result: %v", err)
			return
		}
		if got := canonical(res.Document); got != want {
			result.AddError("expected result %s, got %s", want, got)
		}
	}
}

func decodeInput(scenario *Scenario) (any, error) {
	var (
		doc any
		err error
	)
	if inputFormat(scenario) == FormatYAML {
		doc, err = value.DecodeYAML(strings.NewReader(scenario.Input))
	} else {
		doc, err = value.DecodeJSON(strings.NewReader(scenario.Input))
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return doc, nil
}

func inputFormat(scenario *Scenario) string {
	if scenario.Format == "" {
		return FormatJSON
	}
	return scenario.Format
}

// canonical renders v as compact canonical JSON, or an error marker.
func canonical(v any) string {
	data, err := value.Marshal(v, value.EncodeOptions{})
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}

// canonicalText normalizes JSON text so key spacing does not matter.
func canonicalText(src string) (string, error) {
	v, err := value.DecodeJSON(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	return canonical(v), nil
}
