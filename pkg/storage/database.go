package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/models"
)

// ErrNotFound is returned when a history record does not exist.
var ErrNotFound = fmt.Errorf("history record not found")

// Database stores comparison-execution history
type Database struct {
	db   *sql.DB
	path string
}

// ListFilter narrows ListExecutions results. A zero filter lists the most
// recent DefaultLimit records.
type ListFilter struct {
	Status models.Status
	Mode   string
	Limit  int
}

// DefaultLimit is the number of history rows returned when no limit is given.
const DefaultLimit = 50

// MaxLimit caps the limit query parameter.
const MaxLimit = 500

// NewDatabase creates or opens the history database under dataDir
func NewDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	logger.Infof("Opening database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return database, nil
}

// migrate creates or updates the database schema
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS executions (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			comparison_mode TEXT NOT NULL,
			source TEXT,
			target TEXT,
			mapping_id TEXT,
			status TEXT NOT NULL,
			total_tests INTEGER,
			passed_tests INTEGER,
			failed_tests INTEGER,
			error_message TEXT,
			executed_by TEXT,
			details TEXT,
			metadata TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_execution_timestamp
		 ON executions(timestamp DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_execution_status
		 ON executions(status)`,
	}

	for i, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	return nil
}

// SaveExecution saves a history record
func (d *Database) SaveExecution(item *models.HistoryItem) error {
	query := `
		INSERT INTO executions (
			id, timestamp, comparison_mode, source, target, mapping_id,
			status, total_tests, passed_tests, failed_tests,
			error_message, executed_by, details, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	detailsJSON, err := json.Marshal(item.Details)
	if err != nil {
		return fmt.Errorf("failed to encode details: %w", err)
	}
	metadataJSON, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = d.db.Exec(query,
		item.ID,
		item.Timestamp.UTC().Format(time.RFC3339),
		item.ComparisonMode,
		item.Source,
		item.Target,
		item.MappingID,
		string(item.Status),
		item.TotalTests,
		item.PassedTests,
		item.FailedTests,
		item.ErrorMessage,
		item.ExecutedBy,
		string(detailsJSON),
		string(metadataJSON),
	)

	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}

	logger.Infof("Saved execution record: %s", item.ID)
	return nil
}

// ListExecutions retrieves the most recent history records, newest first.
// Details are not loaded for list queries.
func (d *Database) ListExecutions(filter ListFilter) ([]models.HistoryItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := `
		SELECT
			id, timestamp, comparison_mode, source, target, mapping_id,
			status, total_tests, passed_tests, failed_tests,
			error_message, executed_by, metadata
		FROM executions
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Mode != "" {
		query += " AND comparison_mode = ?"
		args = append(args, filter.Mode)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	items := make([]models.HistoryItem, 0, limit)
	for rows.Next() {
		item, err := scanExecution(rows, false)
		if err != nil {
			logger.Warnf("Skipping unreadable history row: %v", err)
			continue
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetExecution retrieves a single record including its test details.
// Returns ErrNotFound when no record exists for the id.
func (d *Database) GetExecution(id string) (*models.HistoryItem, error) {
	query := `
		SELECT
			id, timestamp, comparison_mode, source, target, mapping_id,
			status, total_tests, passed_tests, failed_tests,
			error_message, executed_by, metadata, details
		FROM executions
		WHERE id = ?
	`

	row := d.db.QueryRow(query, id)
	item, err := scanExecution(row, true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read execution %s: %w", id, err)
	}

	return item, nil
}

// DeleteExecution removes one record and reports whether it existed
func (d *Database) DeleteExecution(id string) (bool, error) {
	result, err := d.db.Exec(`DELETE FROM executions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete execution %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rows > 0 {
		logger.Infof("Deleted execution record: %s", id)
	}
	return rows > 0, nil
}

// DeleteAllExecutions clears the history and returns the number of rows removed
func (d *Database) DeleteAllExecutions() (int64, error) {
	result, err := d.db.Exec(`DELETE FROM executions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	logger.Infof("Cleared %d history records", rows)
	return rows, nil
}

// StatusDistribution counts stored runs per status
func (d *Database) StatusDistribution() (map[models.Status]int, error) {
	rows, err := d.db.Query(`SELECT status, COUNT(*) FROM executions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status distribution: %w", err)
	}
	defer rows.Close()

	distribution := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			continue
		}
		distribution[models.ParseStatus(status)] += count
	}

	return distribution, rows.Err()
}

// CleanupOldData removes records older than the retention window
func (d *Database) CleanupOldData(retentionDays int) (int64, error) {
	query := `
		DELETE FROM executions
		WHERE timestamp < datetime('now', '-' || ? || ' days')
	`

	result, err := d.db.Exec(query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup executions: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		logger.Infof("Cleaned up %d records older than %d days", rows, retentionDays)
	}
	return rows, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExecution(s scanner, withDetails bool) (*models.HistoryItem, error) {
	var item models.HistoryItem
	var timestamp, status, metadataJSON string
	var detailsJSON string

	dest := []interface{}{
		&item.ID,
		&timestamp,
		&item.ComparisonMode,
		&item.Source,
		&item.Target,
		&item.MappingID,
		&status,
		&item.TotalTests,
		&item.PassedTests,
		&item.FailedTests,
		&item.ErrorMessage,
		&item.ExecutedBy,
		&metadataJSON,
	}
	if withDetails {
		dest = append(dest, &detailsJSON)
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	item.Status = models.ParseStatus(status)
	item.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	if metadataJSON != "" && metadataJSON != "null" {
		_ = json.Unmarshal([]byte(metadataJSON), &item.Metadata)
	}
	if withDetails && detailsJSON != "" && detailsJSON != "null" {
		_ = json.Unmarshal([]byte(detailsJSON), &item.Details)
	}

	return &item, nil
}
