package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/dataqa-history/pkg/analytics"
	"github.com/your-org/dataqa-history/pkg/config"
	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/notify"
	"github.com/your-org/dataqa-history/pkg/recorder"
	"github.com/your-org/dataqa-history/pkg/server"
	"github.com/your-org/dataqa-history/pkg/storage"
	"github.com/your-org/dataqa-history/pkg/view"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dataqa-history",
		Short: "Comparison run history service",
		Long: `Data QA History Service

Records the results of data comparison runs, serves the history dashboard
and exposes a REST API for listing and clearing past runs.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the history server",
		Long:  "Start the HTTP server that serves the history dashboard and the /api/history endpoints.",
		RunE:  runServe,
	}

	var recordCmd = &cobra.Command{
		Use:   "record",
		Short: "Record a comparison run from a results file",
		Long:  "Read test results from a JSON file, aggregate them into a run and store it in the history database.",
		RunE:  runRecord,
	}

	var renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render the history dashboard to a static HTML file",
		RunE:  runRender,
	}

	var cleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Remove history entries past the retention window",
		RunE:  runCleanup,
	}

	serveCmd.Flags().StringP("host", "H", "", "Host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 0, "Port to run the server on")
	serveCmd.Flags().StringP("data-dir", "d", "", "Directory holding the history database")

	recordCmd.Flags().StringP("input", "i", "", "Input file with test results (required)")
	recordCmd.Flags().StringP("mode", "m", "", "Comparison mode of the run (required)")
	recordCmd.Flags().StringP("source", "s", "", "Source table or file")
	recordCmd.Flags().StringP("target", "t", "", "Target table")
	recordCmd.Flags().String("mapping-id", "", "Mapping identifier of the comparison")
	recordCmd.Flags().String("executed-by", "", "Who triggered the run")
	recordCmd.Flags().Bool("notify", false, "Send a webhook alert if the run has failures")
	recordCmd.Flags().StringP("data-dir", "d", "", "Directory holding the history database")

	renderCmd.Flags().StringP("output", "o", "history.html", "Output path for the rendered page")
	renderCmd.Flags().IntP("limit", "l", 0, "Number of runs to include")
	renderCmd.Flags().StringP("data-dir", "d", "", "Directory holding the history database")

	cleanupCmd.Flags().Int("retention-days", 0, "Keep runs newer than this many days")
	cleanupCmd.Flags().StringP("data-dir", "d", "", "Directory holding the history database")

	rootCmd.AddCommand(serveCmd, recordCmd, renderCmd, cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// loadConfig merges file/env config with the flags shared by every command
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := storage.NewDatabase(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	return server.NewServer(cfg, version, db).Start()
}

func runRecord(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	mode, _ := cmd.Flags().GetString("mode")
	if input == "" || mode == "" {
		return fmt.Errorf("both --input and --mode flags are required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := storage.NewDatabase(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	mappingID, _ := cmd.Flags().GetString("mapping-id")
	executedBy, _ := cmd.Flags().GetString("executed-by")

	item, err := recorder.NewRecorder(db).RecordFile(input, recorder.RunOptions{
		ComparisonMode: mode,
		Source:         source,
		Target:         target,
		MappingID:      mappingID,
		ExecutedBy:     executedBy,
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	logger.Infof("Recorded run %s: %s (%d/%d passed)", item.ID, item.Status, item.PassedTests, item.TotalTests)

	if sendAlert, _ := cmd.Flags().GetBool("notify"); sendAlert {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := notify.NewNotifier(cfg.WebhookURL).NotifyRun(ctx, item); err != nil {
			logger.Warnf("Failed to send alert: %v", err)
		}
	}

	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.HistoryLimit = limit
	}
	output, _ := cmd.Flags().GetString("output")

	db, err := storage.NewDatabase(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	items, err := db.ListExecutions(storage.ListFilter{Limit: cfg.HistoryLimit})
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	data := &view.PageData{
		ProjectName: cfg.ProjectName,
		GeneratedAt: time.Now(),
		Items:       items,
		Summary:     analytics.Summarize(items),
		Trend:       analytics.Trend(items),
	}
	if err := view.NewPage().WriteFile(output, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	logger.Infof("✓ History page written to %s (%d runs)", output, len(items))
	return nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if days, _ := cmd.Flags().GetInt("retention-days"); days > 0 {
		cfg.RetentionDays = days
	}

	db, err := storage.NewDatabase(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	removed, err := db.CleanupOldData(cfg.RetentionDays)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	logger.Infof("Removed %d runs older than %d days", removed, cfg.RetentionDays)
	return nil
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logrus.SetLevel(logrus.InfoLevel)
}
