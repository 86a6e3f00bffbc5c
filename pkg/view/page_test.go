package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/your-org/dataqa-history/pkg/analytics"
	"github.com/your-org/dataqa-history/pkg/models"
)

func samplePageData() *PageData {
	ts := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	items := []models.HistoryItem{
		{
			ID:             "run-1",
			Timestamp:      ts,
			ComparisonMode: "scd",
			Source:         "raw.customers",
			Target:         "dim.customers",
			Status:         models.StatusPass,
			TotalTests:     12,
			PassedTests:    12,
		},
		{
			ID:             "run-2",
			Timestamp:      ts.Add(-time.Hour),
			ComparisonMode: "gcs",
			Source:         "gs://bucket/extract.csv",
			Target:         "staging.extract",
			Status:         models.StatusFail,
			TotalTests:     8,
			PassedTests:    6,
			FailedTests:    2,
			ErrorMessage:   "row count mismatch",
		},
	}

	return &PageData{
		ProjectName: "Data QA",
		GeneratedAt: ts,
		Items:       items,
		Summary:     analytics.Summarize(items),
		Trend:       analytics.TrendStable,
	}
}

func TestPage_Render(t *testing.T) {
	page := NewPage()

	var buf bytes.Buffer
	if err := page.Render(&buf, samplePageData()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"Comparison Run History",
		"raw.customers",
		"dim.customers",
		"bg-green-100 text-green-800",
		"bg-red-100 text-red-800",
		"12/12",
		"6/8",
		"distributionChart",
		"doughnut",
		`data-run-id="run-2"`,
		"deleteRun",
		"/api/history",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestPage_Render_EmptyHistory(t *testing.T) {
	page := NewPage()

	data := &PageData{
		ProjectName: "Data QA",
		GeneratedAt: time.Now(),
		Trend:       analytics.TrendStable,
	}

	var buf bytes.Buffer
	if err := page.Render(&buf, data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No comparison runs recorded yet.") {
		t.Error("empty history should render the placeholder row")
	}
}

func TestPage_Render_StaticHidesActions(t *testing.T) {
	page := NewPage()

	data := samplePageData()
	data.Static = true

	var buf bytes.Buffer
	if err := page.Render(&buf, data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	if strings.Contains(html, "deleteRun(") {
		t.Error("static page should not contain delete actions")
	}
	if strings.Contains(html, "Clear History") {
		t.Error("static page should not contain the clear-all button")
	}
}
