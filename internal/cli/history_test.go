package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonshape/internal/runid"
)

// archive runs infer --db for each document with fixed run ids.
func archive(t *testing.T, dbPath string, docs map[string]string, ids ...string) {
	t.Helper()
	gen := runid.NewFixedGenerator(ids...)
	for _, id := range ids {
		cmd := newInferCommand(&InferOptions{
			RootOptions: &RootOptions{Format: "text"},
			RunIDs:      gen,
		})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{writeFile(t, id+".json", docs[id]), "--db", dbPath})
		require.NoError(t, cmd.Execute(), id)
	}
}

func TestHistoryListsRunsInOrder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	archive(t, dbPath, map[string]string{
		"run-a": `{"x": 1}`,
		"run-b": nestedDoc,
	}, "run-a", "run-b")

	out, _, err := execute(t, "", "history", "--db", dbPath)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "SEQ")
	assert.Contains(t, string(lines[0]), "SHAPES")
	assert.Contains(t, string(lines[1]), "run-a")
	assert.Contains(t, string(lines[2]), "run-b")
}

func TestHistoryJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	archive(t, dbPath, map[string]string{"run-a": nestedDoc}, "run-a")

	out, _, err := execute(t, "", "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, HistoryEntry{
		Seq:    1,
		ID:     "run-a",
		Source: resp.Data[0].Source,
		Input:  "json",
		Shapes: 4,
		Refs:   2,
	}, resp.Data[0])
	assert.Equal(t, "run-a.json", filepath.Base(resp.Data[0].Source))
}

func TestHistoryLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	archive(t, dbPath, map[string]string{
		"run-a": `1`,
		"run-b": `2`,
		"run-c": `3`,
	}, "run-a", "run-b", "run-c")

	out, _, err := execute(t, "", "--format", "json", "history", "--db", dbPath, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-a", resp.Data[0].ID)
	assert.Equal(t, "run-b", resp.Data[1].ID)
}

func TestHistoryShowRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	archive(t, dbPath, map[string]string{"run-a": `{"a": {"x": 1}, "b": {"x": 2}}`}, "run-a")

	out, _, err := execute(t, "", "history", "--db", dbPath, "--run", "run-a")
	require.NoError(t, err)
	assert.Contains(t, out, "\"types\": {\n    \"1\": \"Number\",")
	assert.Contains(t, out, "\"b\": \"2\"")
}

func TestHistoryUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	archive(t, dbPath, map[string]string{"run-a": `1`}, "run-a")

	out, _, err := execute(t, "", "history", "--db", dbPath, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestHistoryEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "", "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs archived.\n", out)
}

func TestHistoryRequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistoryNegativeLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := execute(t, "", "history", "--db", dbPath, "--limit", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryTableAlignsWithColor(t *testing.T) {
	entries := []HistoryEntry{
		{Seq: 1, ID: "run-a", Source: "short.json", Input: "json", Shapes: 4, Refs: 2},
		{Seq: 12, ID: "0192a7f3-5a1e-7c4e-9a1b-2c3d4e5f6a7b", Source: "a/much/longer/path.yaml", Input: "yaml", Shapes: 10, Refs: 0},
	}

	plain := &bytes.Buffer{}
	require.NoError(t, outputHistoryText(&OutputFormatter{Writer: plain, colors: paletteFor(false)}, entries))

	colored := &bytes.Buffer{}
	require.NoError(t, outputHistoryText(&OutputFormatter{Writer: colored, colors: paletteFor(true)}, entries))

	assert.Contains(t, colored.String(), "\x1b[")
	ansi := regexp.MustCompile("\x1b\\[[0-9;]*m")
	assert.Equal(t, plain.String(), ansi.ReplaceAllString(colored.String(), ""))
}
