package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/your-org/dataqa-history/pkg/analytics"
	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/models"
	"github.com/your-org/dataqa-history/pkg/recorder"
	"github.com/your-org/dataqa-history/pkg/storage"
	"github.com/your-org/dataqa-history/pkg/view"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
	})
}

// handleListHistory returns the most recent runs, newest first.
// Query parameters: limit (default 50), status, mode.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	filter := storage.ListFilter{Limit: s.config.HistoryLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = models.ParseStatus(raw)
	}
	filter.Mode = r.URL.Query().Get("mode")

	items, err := s.db.ListExecutions(filter)
	if err != nil {
		logger.Errorf("History fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := s.db.GetExecution(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "history record not found")
		return
	}
	if err != nil {
		logger.Errorf("History fetch failed for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch history record")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// recordRunRequest is the POST /api/history body: the pre-aggregated test
// details of one comparison run.
type recordRunRequest struct {
	ComparisonMode string                 `json:"comparison_mode"`
	Source         string                 `json:"source"`
	Target         string                 `json:"target"`
	MappingID      string                 `json:"mapping_id"`
	ExecutedBy     string                 `json:"executed_by"`
	Details        []models.TestResult    `json:"details"`
	Metadata       map[string]interface{} `json:"metadata"`
}

func (s *Server) handleRecordRun(w http.ResponseWriter, r *http.Request) {
	var req recordRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ComparisonMode == "" {
		writeError(w, http.StatusBadRequest, "comparison_mode is required")
		return
	}

	item, err := s.recorder.Record(req.Details, recorder.RunOptions{
		ComparisonMode: req.ComparisonMode,
		Source:         req.Source,
		Target:         req.Target,
		MappingID:      req.MappingID,
		ExecutedBy:     req.ExecutedBy,
		Metadata:       req.Metadata,
	})
	if err != nil {
		logger.Errorf("Failed to record run: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record run")
		return
	}

	// Alerting is best effort; a webhook failure never fails the request
	if err := s.notifier.NotifyRun(r.Context(), item); err != nil {
		logger.Warnf("Failed to send alert for run %s: %v", item.ID, err)
	}

	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.Infof("Delete request for execution: %s", id)

	deleted, err := s.db.DeleteExecution(id)
	if err != nil {
		logger.Errorf("Delete failed for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete history record")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "history record not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleDeleteAllHistory(w http.ResponseWriter, r *http.Request) {
	removed, err := s.db.DeleteAllExecutions()
	if err != nil {
		logger.Errorf("Clear all failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"deleted": removed,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, trend, err := s.analytics.Snapshot(s.config.HistoryLimit)
	if err != nil {
		logger.Errorf("Stats failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"trend":   trend,
	})
}

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListExecutions(storage.ListFilter{Limit: s.config.HistoryLimit})
	if err != nil {
		logger.Errorf("History page fetch failed: %v", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	data := &view.PageData{
		ProjectName: s.config.ProjectName,
		GeneratedAt: time.Now(),
		Items:       items,
		Summary:     analytics.Summarize(items),
		Trend:       analytics.Trend(items),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Render(w, data); err != nil {
		logger.Errorf("History page render failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
