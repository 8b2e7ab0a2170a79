package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonshape/internal/store"
	"github.com/roach88/jsonshape/internal/value"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Source   string
	Limit    int
	Run      string // show one run in full
}

// HistoryEntry summarizes one archived run.
type HistoryEntry struct {
	Seq    int64  `json:"seq" yaml:"seq"`
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Input  string `json:"input" yaml:"input"`
	Strict bool   `json:"strict" yaml:"strict"`
	Shapes int    `json:"shapes" yaml:"shapes"`
	Refs   int    `json:"refs" yaml:"refs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived inference runs",
		Long: `List runs archived with "infer --db", oldest first.

Examples:
  jsonshape history --db ./runs.db
  jsonshape history --db ./runs.db --source users.json --limit 5
  jsonshape history --db ./runs.db --run 01920b9c-8f3a-7c4e-9a1b-2c3d4e5f6a7b`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only runs of this source")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the result of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Limit < 0 {
		return failWith(formatter, ErrCodeInvalidFlag, ExitCommandError, fmt.Errorf("--limit must not be negative"))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return failWith(formatter, ErrCodeArchive, ExitCommandError, fmt.Errorf("failed to open database: %w", err))
	}
	defer st.Close()

	if opts.Run != "" {
		return showRun(ctx, formatter, st, opts.Run)
	}

	runs, err := st.ListRuns(ctx, store.ListOptions{Source: opts.Source, Limit: opts.Limit})
	if err != nil {
		return failWith(formatter, ErrCodeArchive, ExitCommandError, err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, HistoryEntry{
			Seq:    r.Seq,
			ID:     r.ID,
			Source: r.Source,
			Input:  r.Input,
			Strict: r.Strict,
			Shapes: r.Shapes,
			Refs:   r.Refs,
		})
	}

	if opts.Format != "text" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs archived.")
		return nil
	}

	return outputHistoryText(formatter, entries)
}

// outputHistoryText prints entries as a table. The colored run id is the
// last, unaligned cell, since tabwriter counts escape codes as width.
func outputHistoryText(formatter *OutputFormatter, entries []HistoryEntry) error {
	c := formatter.palette()
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSOURCE\tINPUT\tSHAPES\tREFS\tRUN")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", e.Seq, e.Source, e.Input, e.Shapes, e.Refs, c.id("%s", e.ID))
	}
	return tw.Flush()
}

func showRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, id string) error {
	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return fail(formatter, err)
	}

	out := value.NewObject(
		value.M("types", run.Catalog),
		value.M("result", run.Document),
	)
	if formatter.Format != "text" {
		return formatter.Respond(CLIResponse{Status: "ok", Data: out, RunID: run.ID})
	}

	data, err := value.Marshal(out, value.EncodeOptions{Indent: "  "})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(formatter.Writer, string(data))
	return err
}
