package analytics

import (
	"github.com/your-org/dataqa-history/pkg/models"
	"github.com/your-org/dataqa-history/pkg/storage"
)

// Summary is the per-status distribution of a set of runs, shaped for the
// history page's chart.
type Summary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	AtRisk      int     `json:"at_risk"`
	Unknown     int     `json:"unknown"`
	SuccessRate float64 `json:"success_rate"`
}

// Trend labels for run health over recent executions.
const (
	TrendImproving = "improving"
	TrendDegrading = "degrading"
	TrendStable    = "stable"
)

// Engine computes distribution and trend data over stored history
type Engine struct {
	db *storage.Database
}

// NewEngine creates a new analytics engine
func NewEngine(db *storage.Database) *Engine {
	return &Engine{db: db}
}

// Summarize counts runs by status. SuccessRate is the share of passing runs.
func Summarize(items []models.HistoryItem) Summary {
	summary := Summary{Total: len(items)}

	for _, item := range items {
		switch item.Status {
		case models.StatusPass:
			summary.Passed++
		case models.StatusFail:
			summary.Failed++
		case models.StatusAtRisk:
			summary.AtRisk++
		default:
			summary.Unknown++
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Passed) / float64(summary.Total) * 100.0
	}

	return summary
}

// Trend compares the two most recent runs' per-test success rates. A swing
// of more than 5 points in either direction changes the label.
func Trend(items []models.HistoryItem) string {
	if len(items) < 2 {
		return TrendStable
	}

	// Items arrive newest first
	current := items[0].SuccessRate()
	previous := items[1].SuccessRate()

	change := current - previous
	if change > 5.0 {
		return TrendImproving
	}
	if change < -5.0 {
		return TrendDegrading
	}
	return TrendStable
}

// Snapshot reads the most recent runs and returns their distribution and
// trend, for the stats endpoint and the rendered page.
func (e *Engine) Snapshot(limit int) (Summary, string, error) {
	items, err := e.db.ListExecutions(storage.ListFilter{Limit: limit})
	if err != nil {
		return Summary{}, TrendStable, err
	}
	return Summarize(items), Trend(items), nil
}
