// Package config loads runtime configuration from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/crawler"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration parameters
type Config struct {
	StartURL         string `json:"start_url"`
	TotalBudget      int    `json:"total_budget"`
	PerPageBudget    int    `json:"per_page_budget"`
	Weighted         bool   `json:"weighted"`
	MaxPages         int    `json:"max_pages"`
	RequestTimeoutMs int    `json:"request_timeout_ms"`
	UserAgent        string `json:"user_agent"`
	BaseURL          string `json:"base_url"`
	SummarySentences int    `json:"summary_sentences"`
	DBPath           string `json:"db_path"`
	MetricsPath      string `json:"metrics_path"`
	PromMetricsPath  string `json:"prom_metrics_path"`
	ReportPath       string `json:"report_path"`
	LogLevel         string `json:"log_level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{
		TotalBudget: 30,
		Weighted:    true,
	}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads and validates configuration from a JSON file.
// Fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Explicit empty values fall back to defaults too
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 10000
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "wiki-weaver/1.0 (+https://github.com/alvmarrod/wiki-weaver)"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://en.wikipedia.org"
	}
	if cfg.SummarySentences == 0 {
		cfg.SummarySentences = 2
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "weaver.db"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks that values are sensible. The start URL is only
// required to crawl and is checked by CrawlConfig consumers.
func (cfg *Config) Validate() error {
	if cfg.TotalBudget < 0 {
		return fmt.Errorf("total_budget must be >= 0")
	}
	if cfg.PerPageBudget < 0 {
		return fmt.Errorf("per_page_budget must be >= 0")
	}
	if cfg.MaxPages < 0 {
		return fmt.Errorf("max_pages must be >= 0")
	}
	if cfg.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	if cfg.SummarySentences < 1 {
		return fmt.Errorf("summary_sentences must be >= 1")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
}

// CrawlConfig derives the immutable builder parameters
func (cfg *Config) CrawlConfig() crawler.CrawlConfig {
	return crawler.CrawlConfig{
		Start:         cfg.StartURL,
		TotalBudget:   cfg.TotalBudget,
		PerPageBudget: cfg.PerPageBudget,
		MaxPages:      cfg.MaxPages,
	}
}
