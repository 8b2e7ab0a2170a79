package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/value"
)

// ErrRunNotFound is returned by ReadRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived inference run.
type Run struct {
	ID       string
	Seq      int64 // assigned by WriteRun
	Source   string
	Input    string // "json" or "yaml"
	Strict   bool
	MaxDepth int
	Shapes   int
	Refs     int
	Catalog  *value.Object
	Document any
}

// NewRun captures res under id. The caller supplies the id so tests can
// use fixed identifiers.
func NewRun(id, source, input string, opts shape.Options, res *shape.Result) Run {
	return Run{
		ID:       id,
		Source:   source,
		Input:    input,
		Strict:   opts.Strict,
		MaxDepth: opts.MaxDepth,
		Shapes:   res.Shapes,
		Refs:     len(res.Refs),
		Catalog:  res.Catalog,
		Document: res.Document,
	}
}

// WriteRun archives run and returns its sequence number. Writing an id that
// already exists is a no-op that returns the stored sequence number.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty id")
	}

	catalogJSON, err := value.Marshal(run.Catalog, value.EncodeOptions{})
	if err != nil {
		return 0, fmt.Errorf("write run: catalog: %w", err)
	}
	documentJSON, err := value.Marshal(run.Document, value.EncodeOptions{})
	if err != nil {
		return 0, fmt.Errorf("write run: document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq)
	switch {
	case err == nil:
		return seq, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("write run: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, input, strict, max_depth, shape_count, ref_count, catalog, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.Source,
		run.Input,
		run.Strict,
		run.MaxDepth,
		run.Shapes,
		run.Refs,
		string(catalogJSON),
		string(documentJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

const runColumns = `id, seq, source, input, strict, max_depth, shape_count, ref_count, catalog, document`

// ReadRun loads the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListOptions filters ListRuns.
type ListOptions struct {
	Source string // exact match; empty lists every source
	Limit  int    // 0 = no limit
}

// ListRuns returns archived runs in sequence order.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if opts.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, opts.Source)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                   Run
		catalogJSON, document string
	)
	err := sc.Scan(
		&run.ID,
		&run.Seq,
		&run.Source,
		&run.Input,
		&run.Strict,
		&run.MaxDepth,
		&run.Shapes,
		&run.Refs,
		&catalogJSON,
		&document,
	)
	if err != nil {
		return Run{}, err
	}

	cat, err := value.DecodeJSON(strings.NewReader(catalogJSON))
	if err != nil {
		return Run{}, fmt.Errorf("decode catalog: %w", err)
	}
	obj, ok := cat.(*value.Object)
	if !ok {
		return Run{}, fmt.Errorf("decode catalog: expected object, got %T", cat)
	}
	run.Catalog = obj

	run.Document, err = value.DecodeJSON(strings.NewReader(document))
	if err != nil {
		return Run{}, fmt.Errorf("decode document: %w", err)
	}
	return run, nil
}
