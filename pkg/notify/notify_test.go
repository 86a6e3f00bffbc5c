package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/your-org/dataqa-history/pkg/models"
)

func TestNotifyRun_SendsAlertForFailures(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	item := &models.HistoryItem{
		ID:             "run-1",
		ComparisonMode: "scd",
		Target:         "dim.customers",
		Status:         models.StatusFail,
		TotalTests:     10,
		PassedTests:    7,
		FailedTests:    3,
	}

	n := NewNotifier(srv.URL)
	if err := n.NotifyRun(context.Background(), item); err != nil {
		t.Fatalf("NotifyRun() error = %v", err)
	}

	if received == nil {
		t.Fatal("webhook was not called")
	}
	if received["@type"] != "MessageCard" {
		t.Errorf("payload @type = %v, want MessageCard", received["@type"])
	}
}

func TestNotifyRun_SkipsCleanRuns(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	item := &models.HistoryItem{
		ID:          "run-clean",
		Status:      models.StatusPass,
		TotalTests:  5,
		PassedTests: 5,
	}

	n := NewNotifier(srv.URL)
	if err := n.NotifyRun(context.Background(), item); err != nil {
		t.Fatalf("NotifyRun() error = %v", err)
	}
	if called {
		t.Error("webhook should not be called for a clean run")
	}
}

func TestNotifyRun_NoWebhookConfigured(t *testing.T) {
	n := NewNotifier("")

	item := &models.HistoryItem{ID: "run-1", Status: models.StatusFail, FailedTests: 1}
	if err := n.NotifyRun(context.Background(), item); err != nil {
		t.Fatalf("NotifyRun() with empty URL should be a no-op, got %v", err)
	}
}

func TestNotifyRun_WebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	item := &models.HistoryItem{ID: "run-1", Status: models.StatusFail, FailedTests: 1}

	n := NewNotifier(srv.URL)
	if err := n.NotifyRun(context.Background(), item); err == nil {
		t.Error("NotifyRun() should surface non-2xx webhook responses")
	}
}
