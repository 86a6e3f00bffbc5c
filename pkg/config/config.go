package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds the configuration for the history service
type Config struct {
	// General settings
	ProjectName string
	DataDir     string

	// Server settings
	Host string
	Port int

	// History settings
	HistoryLimit  int
	RetentionDays int

	// Notification settings
	WebhookURL string

	// Observability settings
	EnableMetrics bool
	LogLevel      string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		ProjectName:   getProjectName(),
		DataDir:       "data",
		Host:          "0.0.0.0",
		Port:          8080,
		HistoryLimit:  50,
		RetentionDays: 90,
		EnableMetrics: true,
		LogLevel:      "info",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return NewConfig()
}

// LoadConfig loads configuration from file or returns default
func LoadConfig() (*Config, error) {
	cfg := NewConfig()

	// Try to load from config file
	configPaths := []string{
		"dataqa-history.yml",
		"dataqa-history.yaml",
		"dataqa-history.json",
		".dataqa/history-config.yml",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.LoadFromFile(path); err == nil {
				cfg.LoadFromEnv() // Override with env vars
				return cfg, nil
			}
		}
	}

	// No config file found, load from env only
	cfg.LoadFromEnv()
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML, JSON, or TOML)
func (c *Config) LoadFromFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(c)
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("DATAQA_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if host := os.Getenv("DATAQA_HOST"); host != "" {
		c.Host = host
	}

	if port := os.Getenv("DATAQA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if limit := os.Getenv("DATAQA_HISTORY_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			c.HistoryLimit = n
		}
	}

	if days := os.Getenv("DATAQA_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			c.RetentionDays = n
		}
	}

	if webhook := os.Getenv("DATAQA_WEBHOOK_URL"); webhook != "" {
		c.WebhookURL = webhook
	}

	if level := os.Getenv("DATAQA_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}

	if metrics := os.Getenv("DATAQA_ENABLE_METRICS"); metrics == "false" {
		c.EnableMetrics = false
	}
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("project_name", c.ProjectName)
	v.Set("data_dir", c.DataDir)
	v.Set("host", c.Host)
	v.Set("port", c.Port)
	v.Set("history_limit", c.HistoryLimit)
	v.Set("retention_days", c.RetentionDays)
	v.Set("webhook_url", c.WebhookURL)
	v.Set("enable_metrics", c.EnableMetrics)
	v.Set("log_level", c.LogLevel)

	return v.WriteConfig()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit)
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("retention days must be positive, got %d", c.RetentionDays)
	}
	return nil
}

// getProjectName tries to get project name from current directory
func getProjectName() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "Data QA"
	}
	return filepath.Base(cwd)
}
