package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonshape/internal/cuegen"
	"github.com/roach88/jsonshape/internal/runid"
	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/store"
	"github.com/roach88/jsonshape/internal/value"
)

// InferOptions holds flags for the infer command.
type InferOptions struct {
	*RootOptions
	Input    string // auto | json | yaml
	Strict   bool
	MaxDepth int
	Output   string // result JSON file
	CUE      string // CUE definitions file
	Database string // run archive

	// RunIDs names archived runs; nil uses UUIDv7.
	RunIDs runid.Generator
}

// InferOutput is the json/yaml payload of a successful run.
type InferOutput struct {
	Types  *value.Object `json:"types" yaml:"types"`
	Result any           `json:"result" yaml:"result"`
	Shapes int           `json:"shapes" yaml:"shapes"`
	Refs   []int         `json:"refs" yaml:"refs"`
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	return newInferCommand(&InferOptions{RootOptions: rootOpts})
}

func newInferCommand(opts *InferOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer <file|->",
		Short: "Infer the shape catalog of a document",
		Long: `Infer a structural type for every value in a JSON or YAML document.

Prints the catalog of distinct shapes ("Types"), keyed by identifier in
registration order, and the document rendered with repeated shapes
written as references to their identifier ("Result").

Use "-" to read from standard input.

Exit codes:
  0 - Success
  1 - Inference failed
  2 - Command error (unreadable input, bad flags, archive errors)

Examples:
  jsonshape infer users.json
  jsonshape infer config.yaml --format json
  cat users.json | jsonshape infer - --output users.shape.json
  jsonshape infer users.json --cue users.cue --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", InputAuto, "input format (auto|json|yaml)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "confirm signature matches structurally")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", shape.DefaultMaxDepth, "maximum nesting depth")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result JSON to a file")
	cmd.Flags().StringVar(&opts.CUE, "cue", "", "write CUE definitions to a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run in a SQLite database")

	return cmd
}

func runInfer(opts *InferOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	switch opts.Input {
	case InputAuto, InputJSON, InputYAML:
	default:
		return failWith(formatter, ErrCodeInvalidFlag, ExitCommandError,
			fmt.Errorf("invalid input format %q: must be one of %v", opts.Input, ValidInputs))
	}
	if opts.MaxDepth < 1 || opts.MaxDepth > value.MaxNestingDepth {
		return failWith(formatter, ErrCodeInvalidFlag, ExitCommandError,
			fmt.Errorf("--max-depth must be between 1 and %d, got %d", value.MaxNestingDepth, opts.MaxDepth))
	}

	doc, input, err := readDocument(path, opts.Input, cmd.InOrStdin())
	if err != nil {
		return fail(formatter, err)
	}
	logger.Debug("document read", "path", path, "input", input)

	inferOpts := shape.Options{Strict: opts.Strict, MaxDepth: opts.MaxDepth}
	res, err := shape.Infer(doc, inferOpts)
	if err != nil {
		logger.Debug("inference failed", "error", err)
		return fail(formatter, err)
	}
	logger.Debug("inference done", "shapes", res.Shapes, "refs", len(res.Refs))

	var cueSrc []byte
	if opts.CUE != "" {
		cueSrc, err = cuegen.Generate(res.Catalog)
		if err != nil {
			return failWith(formatter, ErrCodeCUEFailed, ExitFailure, fmt.Errorf("generating CUE: %w", err))
		}
	}

	var runID string
	if opts.Database != "" {
		runID, err = archiveRun(cmd.Context(), opts, path, input, inferOpts, res)
		if err != nil {
			return failWith(formatter, ErrCodeArchive, ExitCommandError, err)
		}
		logger.Info("run archived", "run_id", runID, "db", opts.Database)
	}

	// files are written only once every other step has succeeded
	if opts.Output != "" {
		if err := writeJSONFile(opts.Output, res.Value()); err != nil {
			return failWith(formatter, ErrCodeWriteFailed, ExitCommandError, fmt.Errorf("writing output file: %w", err))
		}
		formatter.VerboseLog("wrote %s", opts.Output)
	}
	if opts.CUE != "" {
		if err := os.WriteFile(opts.CUE, cueSrc, 0o644); err != nil {
			return failWith(formatter, ErrCodeWriteFailed, ExitCommandError, fmt.Errorf("writing CUE file: %w", err))
		}
		formatter.VerboseLog("wrote %s", opts.CUE)
	}

	out := InferOutput{
		Types:  res.Catalog,
		Result: res.Document,
		Shapes: res.Shapes,
		Refs:   res.Refs,
	}
	if opts.Format != "text" {
		return formatter.Respond(CLIResponse{Status: "ok", Data: out, RunID: runID})
	}
	return outputInferText(formatter, out, runID)
}

func archiveRun(ctx context.Context, opts *InferOptions, path, input string, inferOpts shape.Options, res *shape.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	ids := opts.RunIDs
	if ids == nil {
		ids = runid.UUIDv7Generator{}
	}
	id := ids.Generate()

	source := path
	if path == "-" {
		source = "<stdin>"
	}
	if _, err := st.WriteRun(ctx, store.NewRun(id, source, input, inferOpts, res)); err != nil {
		return "", err
	}
	return id, nil
}

func outputInferText(formatter *OutputFormatter, out InferOutput, runID string) error {
	w := formatter.Writer
	c := formatter.palette()

	fmt.Fprintln(w, c.header("Types"))
	for _, m := range out.Types.Members {
		entry, err := value.Marshal(m.Value, value.EncodeOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s  %s\n", c.id("%4s", m.Key), entry)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, c.header("Result"))
	doc, err := value.Marshal(out.Result, value.EncodeOptions{Indent: "  "})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(doc))

	fmt.Fprintln(w)
	fmt.Fprintln(w, c.success("✓ %d shape(s), %d reference(s)", out.Shapes, len(out.Refs)))
	if runID != "" {
		fmt.Fprintf(w, "  run %s\n", c.id("%s", runID))
	}
	return nil
}
