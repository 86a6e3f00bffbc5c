package models

import (
	"strings"
	"time"
)

// Status classifies a comparison execution or a single test within one.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusAtRisk  Status = "AT_RISK"
	StatusUnknown Status = "UNKNOWN"
)

// ParseStatus normalizes a status string from the API or stored records.
// Legacy records use "ERROR" for runs that did not complete cleanly; those
// surface as AT_RISK. Unrecognized values map to UNKNOWN rather than failing.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS", "PASSED":
		return StatusPass
	case "FAIL", "FAILED":
		return StatusFail
	case "AT_RISK", "ERROR":
		return StatusAtRisk
	default:
		return StatusUnknown
	}
}

// BadgeColor returns the badge color name used by the history page.
func (s Status) BadgeColor() string {
	switch s {
	case StatusPass:
		return "green"
	case StatusFail:
		return "red"
	case StatusAtRisk:
		return "amber"
	default:
		return "gray"
	}
}

// Icon returns the badge glyph used by the history page.
func (s Status) Icon() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusFail:
		return "✗"
	case StatusAtRisk:
		return "⚠"
	default:
		return "?"
	}
}

// TestResult is one pre-aggregated test detail inside a run. The comparison
// engine that produces these lives upstream; this service only stores and
// serves them.
type TestResult struct {
	TestID       string `json:"test_id,omitempty"`
	TestName     string `json:"test_name"`
	Category     string `json:"category,omitempty"`
	Status       string `json:"status"`
	Severity     string `json:"severity,omitempty"`
	Description  string `json:"description,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	RowsAffected int64  `json:"rows_affected,omitempty"`
	SQLQuery     string `json:"sql_query,omitempty"`
}

// HistoryItem is a summary record of one past comparison execution.
// Details is only populated when a single record is fetched by ID; list
// responses omit it.
type HistoryItem struct {
	ID             string                 `json:"id"`
	Timestamp      time.Time              `json:"timestamp"`
	ComparisonMode string                 `json:"comparison_mode"`
	Source         string                 `json:"source,omitempty"`
	Target         string                 `json:"target,omitempty"`
	MappingID      string                 `json:"mapping_id,omitempty"`
	Status         Status                 `json:"status"`
	TotalTests     int                    `json:"total_tests"`
	PassedTests    int                    `json:"passed_tests"`
	FailedTests    int                    `json:"failed_tests"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	ExecutedBy     string                 `json:"executed_by,omitempty"`
	Details        []TestResult           `json:"details,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// SuccessRate returns the percentage of passed tests in this run.
func (h *HistoryItem) SuccessRate() float64 {
	if h.TotalTests == 0 {
		return 0.0
	}
	return float64(h.PassedTests) / float64(h.TotalTests) * 100.0
}

// HasFailures reports whether the run needs attention.
func (h *HistoryItem) HasFailures() bool {
	return h.FailedTests > 0 || h.Status == StatusAtRisk
}

// RunSummary is the rollup of a run's per-test details.
type RunSummary struct {
	Total        int
	Passed       int
	Failed       int
	Status       Status
	ErrorMessage string
}

// Aggregate rolls up per-test details into a run summary. A run is AT_RISK
// when any test errored, FAIL when any test failed, PASS otherwise. The
// first non-empty error message is carried to the run level.
func Aggregate(details []TestResult) RunSummary {
	summary := RunSummary{Total: len(details), Status: StatusPass}

	for _, t := range details {
		switch ParseStatus(t.Status) {
		case StatusPass:
			summary.Passed++
		case StatusFail:
			summary.Failed++
		case StatusAtRisk:
			summary.Status = StatusAtRisk
		}
		if summary.ErrorMessage == "" && t.ErrorMessage != "" {
			summary.ErrorMessage = t.ErrorMessage
		}
	}

	if summary.Status != StatusAtRisk && summary.Failed > 0 {
		summary.Status = StatusFail
	}

	return summary
}
