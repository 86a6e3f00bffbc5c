package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/your-org/dataqa-history/pkg/analytics"
	"github.com/your-org/dataqa-history/pkg/config"
	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/notify"
	"github.com/your-org/dataqa-history/pkg/recorder"
	"github.com/your-org/dataqa-history/pkg/storage"
	"github.com/your-org/dataqa-history/pkg/view"
)

// Server serves the history API and the rendered history page
type Server struct {
	config    *config.Config
	version   string
	router    *mux.Router
	db        *storage.Database
	analytics *analytics.Engine
	recorder  *recorder.Recorder
	notifier  *notify.Notifier
	page      *view.Page
}

// NewServer creates a new history server
func NewServer(cfg *config.Config, version string, db *storage.Database) *Server {
	s := &Server{
		config:    cfg,
		version:   version,
		router:    mux.NewRouter(),
		db:        db,
		analytics: analytics.NewEngine(db),
		recorder:  recorder.NewRecorder(db),
		notifier:  notify.NewNotifier(cfg.WebhookURL),
		page:      view.NewPage(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(loggingMiddleware)
	if s.config.EnableMetrics {
		s.router.Use(metricsMiddleware)
		s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/", s.handleHistoryPage).Methods("GET")

	// API endpoints. Stats is registered before the {id} route so it is not
	// captured as an execution ID.
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/history/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/history", s.handleListHistory).Methods("GET")
	api.HandleFunc("/history", s.handleRecordRun).Methods("POST")
	api.HandleFunc("/history", s.handleDeleteAllHistory).Methods("DELETE")
	api.HandleFunc("/history/{id}", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/history/{id}", s.handleDeleteHistory).Methods("DELETE")
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until interrupted
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Infof("History server running at http://%s", addr)
	logger.Infof("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down history server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
