package models

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
	}{
		{
			name:     "pass uppercase",
			input:    "PASS",
			expected: StatusPass,
		},
		{
			name:     "pass lowercase",
			input:    "pass",
			expected: StatusPass,
		},
		{
			name:     "passed alias",
			input:    "passed",
			expected: StatusPass,
		},
		{
			name:     "fail",
			input:    "FAIL",
			expected: StatusFail,
		},
		{
			name:     "failed alias",
			input:    "Failed",
			expected: StatusFail,
		},
		{
			name:     "at risk",
			input:    "AT_RISK",
			expected: StatusAtRisk,
		},
		{
			name:     "legacy error maps to at risk",
			input:    "ERROR",
			expected: StatusAtRisk,
		},
		{
			name:     "surrounding whitespace",
			input:    "  pass  ",
			expected: StatusPass,
		},
		{
			name:     "unrecognized value",
			input:    "EXPLODED",
			expected: StatusUnknown,
		},
		{
			name:     "empty string",
			input:    "",
			expected: StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseStatus(tt.input)
			if result != tt.expected {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStatus_BadgeColor(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPass, "green"},
		{StatusFail, "red"},
		{StatusAtRisk, "amber"},
		{StatusUnknown, "gray"},
		{Status("bogus"), "gray"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.BadgeColor(); got != tt.expected {
				t.Errorf("BadgeColor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_Icon(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPass, "✓"},
		{StatusFail, "✗"},
		{StatusAtRisk, "⚠"},
		{StatusUnknown, "?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Icon(); got != tt.expected {
				t.Errorf("Icon() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		details  []TestResult
		expected RunSummary
	}{
		{
			name: "all passing",
			details: []TestResult{
				{TestName: "row count", Status: "PASS"},
				{TestName: "null check", Status: "PASS"},
			},
			expected: RunSummary{Total: 2, Passed: 2, Status: StatusPass},
		},
		{
			name: "one failure",
			details: []TestResult{
				{TestName: "row count", Status: "PASS"},
				{TestName: "null check", Status: "FAIL"},
			},
			expected: RunSummary{Total: 2, Passed: 1, Failed: 1, Status: StatusFail},
		},
		{
			name: "error dominates failure",
			details: []TestResult{
				{TestName: "row count", Status: "FAIL"},
				{TestName: "schema check", Status: "ERROR", ErrorMessage: "table not found"},
			},
			expected: RunSummary{
				Total:        2,
				Failed:       1,
				Status:       StatusAtRisk,
				ErrorMessage: "table not found",
			},
		},
		{
			name:     "empty details",
			details:  nil,
			expected: RunSummary{Total: 0, Status: StatusPass},
		},
		{
			name: "first error message wins",
			details: []TestResult{
				{TestName: "a", Status: "FAIL", ErrorMessage: "first"},
				{TestName: "b", Status: "FAIL", ErrorMessage: "second"},
			},
			expected: RunSummary{
				Total:        2,
				Failed:       2,
				Status:       StatusFail,
				ErrorMessage: "first",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.details)
			if result != tt.expected {
				t.Errorf("Aggregate() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestHistoryItem_SuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		item     HistoryItem
		expected float64
	}{
		{
			name:     "all passed",
			item:     HistoryItem{TotalTests: 10, PassedTests: 10},
			expected: 100.0,
		},
		{
			name:     "half passed",
			item:     HistoryItem{TotalTests: 10, PassedTests: 5},
			expected: 50.0,
		},
		{
			name:     "no tests",
			item:     HistoryItem{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.SuccessRate(); got != tt.expected {
				t.Errorf("SuccessRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHistoryItem_HasFailures(t *testing.T) {
	now := time.Now()

	passing := HistoryItem{ID: "a", Timestamp: now, Status: StatusPass, TotalTests: 3, PassedTests: 3}
	if passing.HasFailures() {
		t.Error("passing run should not report failures")
	}

	failing := HistoryItem{ID: "b", Timestamp: now, Status: StatusFail, TotalTests: 3, PassedTests: 2, FailedTests: 1}
	if !failing.HasFailures() {
		t.Error("failing run should report failures")
	}

	atRisk := HistoryItem{ID: "c", Timestamp: now, Status: StatusAtRisk, TotalTests: 3, PassedTests: 3}
	if !atRisk.HasFailures() {
		t.Error("at-risk run should report failures")
	}
}
