package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmaura/finscore/internal/commands"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/runlog"
)

var (
	hdfcStatement = filepath.Join("..", "..", "testdata", "hdfc_statement.txt")
	csvStatement  = filepath.Join("..", "..", "testdata", "statement.csv")
)

func runFinscore(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runFinscore(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := runFinscore(t, "analyze", hdfcStatement, "--format", "json", "--job-id", "job-1", "--declared-income", "50000")
	require.NoError(t, err)

	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "job-1", r["job_id"])
	assert.Equal(t, "HDFC", r["bank"])
	assert.EqualValues(t, 6, r["transaction_count"])
	assert.EqualValues(t, 1, r["undated"])
}

func TestAnalyze_Text(t *testing.T) {
	out, err := runFinscore(t, "analyze", hdfcStatement, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "FOIR")
	assert.Contains(t, out, "Banking behavior")
	assert.NotContains(t, out, "\x1b[")
}

func TestAnalyze_MergeWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")
	ledgerPath := filepath.Join(dir, "merged.ledger.csv")
	auditPath := filepath.Join(dir, "logs", "runs.csv")

	out, err := runFinscore(t, "analyze", csvStatement, hdfcStatement,
		"--format", "json",
		"--output", reportPath,
		"--ledger-out", ledgerPath,
		"--audit-log", auditPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var r map[string]any
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "SPREADSHEET,HDFC", r["bank"])
	assert.EqualValues(t, 8, r["transaction_count"])

	f, err := os.Open(ledgerPath)
	require.NoError(t, err)
	defer f.Close()
	txns, err := ledger.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, txns, 8)
	// Merged ledgers are in date order, the undated row first.
	assert.False(t, txns[0].IsDated())
	assert.Equal(t, "2024-01-01", txns[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-03-05", txns[7].Date.Format("2006-01-02"))

	entries, err := runlog.Read(auditPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Transactions)
	assert.Equal(t, r["job_id"], entries[0].JobID)
}

func TestAnalyze_Directory(t *testing.T) {
	dir := t.TempDir()
	copyFile := func(src, name string) {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	copyFile(csvStatement, "a_statement.csv")
	copyFile(hdfcStatement, "b_hdfc.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.xlsx"), []byte("x"), 0o644))

	out, err := runFinscore(t, "analyze", dir, "--format", "json")
	require.NoError(t, err)

	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "SPREADSHEET,HDFC", r["bank"])
	assert.EqualValues(t, 8, r["transaction_count"])
}

func TestParse_LedgerRoundTrip(t *testing.T) {
	out, err := runFinscore(t, "parse", hdfcStatement, "--job-id", "job-2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, ledger.Header+"\n"))

	txns, err := ledger.ReadCSV(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, txns, 6)
	assert.Equal(t, "job-2", txns[0].JobID)

	path := filepath.Join(t.TempDir(), "hdfc.ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	out, err = runFinscore(t, "analyze", path, "--format", "json")
	require.NoError(t, err)
	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.EqualValues(t, 6, r["transaction_count"])
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "statement.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("x"), 0o644))
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("no rows in here\n"), 0o644))
	noStatements := filepath.Join(dir, "spreadsheets")
	require.NoError(t, os.Mkdir(noStatements, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(noStatements, "book.xlsx"), []byte("x"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"analyze"}, "requires at least 1 arg"},
		{"unsupported type", []string{"analyze", xlsx}, "unsupported statement file type"},
		{"missing file", []string{"analyze", filepath.Join(dir, "missing.txt")}, "missing.txt"},
		{"bad format", []string{"analyze", hdfcStatement, "--format", "xml"}, "unknown format"},
		{"bad income", []string{"analyze", hdfcStatement, "--declared-income", "lots"}, "--declared-income"},
		{"unknown bank", []string{"analyze", hdfcStatement, "--bank", "nope"}, "unknown bank"},
		{"nothing to analyze", []string{"analyze", empty}, "no transactions to analyze"},
		{"directory without statements", []string{"analyze", noStatements}, "no statement files in"},
		{"report dir missing", []string{"analyze", hdfcStatement, "--output", filepath.Join(dir, "nope", "r.txt")}, "creating report file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runFinscore(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_InitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finscore.yaml")

	out, err := runFinscore(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")

	_, err = runFinscore(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runFinscore(t, "config", "init", path, "--force")
	require.NoError(t, err)

	out, err = runFinscore(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = runFinscore(t, "--config", path, "analyze", hdfcStatement, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"job_id"`)
}

func TestConfig_ValidateRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))

	_, err := runFinscore(t, "config", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}
