package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/models"
	"github.com/your-org/dataqa-history/pkg/storage"
)

// RunOptions describe the run being recorded alongside its test details
type RunOptions struct {
	ComparisonMode string
	Source         string
	Target         string
	MappingID      string
	ExecutedBy     string
	Metadata       map[string]interface{}
}

// Recorder aggregates pre-computed test results into history records
type Recorder struct {
	db *storage.Database
}

// NewRecorder creates a new recorder
func NewRecorder(db *storage.Database) *Recorder {
	return &Recorder{db: db}
}

// Record aggregates the details, assigns an execution ID and persists the run
func (r *Recorder) Record(details []models.TestResult, opts RunOptions) (*models.HistoryItem, error) {
	if opts.ComparisonMode == "" {
		return nil, fmt.Errorf("comparison mode is required")
	}

	summary := models.Aggregate(details)

	executedBy := opts.ExecutedBy
	if executedBy == "" {
		executedBy = "System"
	}

	item := &models.HistoryItem{
		ID:             uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		ComparisonMode: opts.ComparisonMode,
		Source:         opts.Source,
		Target:         opts.Target,
		MappingID:      opts.MappingID,
		Status:         summary.Status,
		TotalTests:     summary.Total,
		PassedTests:    summary.Passed,
		FailedTests:    summary.Failed,
		ErrorMessage:   summary.ErrorMessage,
		ExecutedBy:     executedBy,
		Details:        details,
		Metadata:       opts.Metadata,
	}

	if err := r.db.SaveExecution(item); err != nil {
		return nil, err
	}

	logger.Infof("Recorded %s run %s: %s (%d/%d passed)",
		item.ComparisonMode, item.ID, item.Status, item.PassedTests, item.TotalTests)
	return item, nil
}

// RecordFile reads a JSON list of test results and records it as one run
func (r *Recorder) RecordFile(path string, opts RunOptions) (*models.HistoryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var details []models.TestResult
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}

	return r.Record(details, opts)
}
