package harness

import (
	"fmt"

	"github.com/roach88/jsonshape/internal/shape"
)

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool

	// Errors lists failed expectations. Empty when Pass is true.
	Errors []string

	// Inference is the successful run, or nil when inference failed.
	Inference *shape.Result

	// Err is the inference error, or nil.
	Err error

	// RunID and Seq identify the archived run.
	RunID string
	Seq   int64
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
