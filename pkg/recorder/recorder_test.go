package recorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/dataqa-history/pkg/models"
	"github.com/your-org/dataqa-history/pkg/storage"
)

func newTestRecorder(t *testing.T) (*Recorder, *storage.Database) {
	t.Helper()

	db, err := storage.NewDatabase(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRecorder(db), db
}

func TestRecord_AggregatesAndPersists(t *testing.T) {
	rec, db := newTestRecorder(t)

	details := []models.TestResult{
		{TestName: "row count match", Status: "PASS"},
		{TestName: "null check", Status: "FAIL", ErrorMessage: "42 null ids"},
		{TestName: "schema check", Status: "PASS"},
	}

	item, err := rec.Record(details, RunOptions{
		ComparisonMode: "scd",
		Source:         "raw.customers",
		Target:         "dim.customers",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.StatusFail, item.Status)
	assert.Equal(t, 3, item.TotalTests)
	assert.Equal(t, 2, item.PassedTests)
	assert.Equal(t, 1, item.FailedTests)
	assert.Equal(t, "42 null ids", item.ErrorMessage)
	assert.Equal(t, "System", item.ExecutedBy)

	stored, err := db.GetExecution(item.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Details, 3)
}

func TestRecord_RequiresComparisonMode(t *testing.T) {
	rec, _ := newTestRecorder(t)

	_, err := rec.Record(nil, RunOptions{})
	assert.Error(t, err)
}

func TestRecordFile(t *testing.T) {
	rec, _ := newTestRecorder(t)

	path := filepath.Join(t.TempDir(), "results.json")
	content := `[
		{"test_name": "row count match", "status": "PASS"},
		{"test_name": "uniqueness", "status": "ERROR", "error_message": "query timeout"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	item, err := rec.RecordFile(path, RunOptions{
		ComparisonMode: "gcs",
		Source:         "gs://bucket/extract.csv",
		Target:         "staging.extract",
		ExecutedBy:     "nightly-job",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAtRisk, item.Status)
	assert.Equal(t, "query timeout", item.ErrorMessage)
	assert.Equal(t, "nightly-job", item.ExecutedBy)
}

func TestRecordFile_BadInput(t *testing.T) {
	rec, _ := newTestRecorder(t)

	_, err := rec.RecordFile(filepath.Join(t.TempDir(), "missing.json"), RunOptions{ComparisonMode: "scd"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err = rec.RecordFile(path, RunOptions{ComparisonMode: "scd"})
	assert.Error(t, err)
}
