package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/value"
)

// ExpandOptions holds flags for the expand command.
type ExpandOptions struct {
	*RootOptions
	Output string
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "expand <result.json>",
		Short: "Expand references in a saved result",
		Long: `Expand a result written by "infer --output" into the full shape of the
document, replacing every reference with its catalog entry.

Examples:
  jsonshape infer users.json -o users.shape.json
  jsonshape expand users.shape.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the expanded document to a file")

	return cmd
}

func runExpand(opts *ExpandOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	doc, _, err := readDocument(path, InputJSON, cmd.InOrStdin())
	if err != nil {
		return fail(formatter, err)
	}

	types, result, err := splitResult(doc)
	if err != nil {
		return failWith(formatter, ErrCodeInvalidResult, ExitCommandError, err)
	}

	expanded, err := shape.Expand(result, types)
	if err != nil {
		return fail(formatter, err)
	}
	formatter.VerboseLog("expanded %s using %d catalog entries", path, types.Len())

	if opts.Output != "" {
		if err := writeJSONFile(opts.Output, expanded); err != nil {
			return failWith(formatter, ErrCodeWriteFailed, ExitCommandError, fmt.Errorf("writing output file: %w", err))
		}
	}

	if opts.Format != "text" {
		return formatter.Success(expanded)
	}
	data, err := value.Marshal(expanded, value.EncodeOptions{Indent: "  "})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(formatter.Writer, string(data))
	return err
}

// splitResult extracts the catalog and document from a saved
// {"types": ..., "result": ...} object.
func splitResult(doc any) (*value.Object, any, error) {
	obj, ok := doc.(*value.Object)
	if !ok {
		return nil, nil, fmt.Errorf("saved result must be an object, got %T", doc)
	}
	rawTypes, ok := obj.Get("types")
	if !ok {
		return nil, nil, fmt.Errorf(`saved result has no "types"`)
	}
	types, ok := rawTypes.(*value.Object)
	if !ok {
		return nil, nil, fmt.Errorf(`"types" must be an object`)
	}
	result, ok := obj.Get("result")
	if !ok {
		return nil, nil, fmt.Errorf(`saved result has no "result"`)
	}
	return types, result, nil
}
