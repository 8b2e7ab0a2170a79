package harness

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/jsonshape/internal/cuegen"
	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/value"
)

// AssertionContext is what assertions inspect.
type AssertionContext struct {
	Input  any
	Result *shape.Result
}

// EvaluateAssertions runs each assertion and returns one message per failure.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluate(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertEntry:
		return assertEntry(a, actx.Result)
	case AssertRoundTrip:
		return assertRoundTrip(actx.Result)
	case AssertCUEAccepts:
		return assertCUE(a, actx, true)
	case AssertCUERejects:
		return assertCUE(a, actx, false)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertEntry(a Assertion, res *shape.Result) error {
	entry, ok := res.Catalog.Get(shape.Reference(a.ID))
	if !ok {
		return fmt.Errorf("no catalog entry %d (catalog has %d)", a.ID, res.Catalog.Len())
	}
	want, err := canonicalText(a.Shape)
	if err != nil {
		return fmt.Errorf("shape: %w", err)
	}
	if got := canonical(entry); got != want {
		return fmt.Errorf("expected %s, got %s", want, got)
	}
	return nil
}

func assertRoundTrip(res *shape.Result) error {
	expanded, err := res.ExpandDocument()
	if err != nil {
		return err
	}
	full := shape.Render(res.Root, shape.RenderOptions{})
	if got, want := canonical(expanded), canonical(full.Value); got != want {
		return fmt.Errorf("expanded document %s does not match %s", got, want)
	}
	return nil
}

func assertCUE(a Assertion, actx *AssertionContext, accept bool) error {
	src, err := cuegen.Generate(actx.Result.Catalog)
	if err != nil {
		return err
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(src)
	if err := schema.Err(); err != nil {
		return err
	}
	def := schema.LookupPath(cue.ParsePath(cuegen.Definition(actx.Result.RootID)))
	if !def.Exists() {
		return fmt.Errorf("no definition for root shape %d", actx.Result.RootID)
	}

	data := []byte(a.Data)
	if a.Data == "" {
		data, err = value.Marshal(actx.Input, value.EncodeOptions{})
		if err != nil {
			return err
		}
	}
	expr, err := cuejson.Extract("data", data)
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	verr := def.Unify(ctx.BuildExpr(expr)).Validate(cue.Concrete(true))
	switch {
	case accept && verr != nil:
		return fmt.Errorf("rejected: %v", verr)
	case !accept && verr == nil:
		return fmt.Errorf("accepted %s", data)
	}
	return nil
}
