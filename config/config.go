// Package config loads the tracker configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/tcgtracker/date"
	"gopkg.in/yaml.v3"
)

// Price store backends.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	StartDate       string `yaml:"start_date"`
	PrimaryCategory string `yaml:"primary_category"`
	Timezone        string `yaml:"timezone"`
	CostBasis       string `yaml:"cost_basis"`
	Data            struct {
		Dir          string `yaml:"dir"`
		Transactions string `yaml:"transactions"`
		Catalog      string `yaml:"catalog"`
		Prices       string `yaml:"prices"`
		Summary      string `yaml:"summary"`
		Gaps         string `yaml:"gaps"`
		Backend      string `yaml:"backend"`
		SQLitePath   string `yaml:"sqlite_path"`
	} `yaml:"data"`
	Fetch struct {
		ArchiveURL  string `yaml:"archive_url"`
		Parallelism int    `yaml:"parallelism"`
		CacheDir    string `yaml:"cache_dir"`
	} `yaml:"fetch"`
	Site struct {
		Dir    string `yaml:"dir"`
		Bucket string `yaml:"bucket"`
		Prefix string `yaml:"prefix"`
	} `yaml:"site"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is an empty configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TCG_START_DATE"); v != "" {
		cfg.StartDate = v
	}
	if v := os.Getenv("TCG_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("TCG_PRICE_BACKEND"); v != "" {
		cfg.Data.Backend = v
	}
	if v := os.Getenv("TCG_SITE_BUCKET"); v != "" {
		cfg.Site.Bucket = v
	}
	if v := os.Getenv("TCG_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("TCG_DAILY_CRON"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("TCG_FETCH_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Parallelism = n
		}
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.PrimaryCategory == "" {
		c.PrimaryCategory = "3"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Los_Angeles"
	}
	if c.CostBasis == "" {
		c.CostBasis = "average"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "."
	}
	if c.Data.Transactions == "" {
		c.Data.Transactions = "transactions.json"
	}
	if c.Data.Catalog == "" {
		c.Data.Catalog = "mappings.json"
	}
	if c.Data.Prices == "" {
		c.Data.Prices = "prices"
	}
	if c.Data.Summary == "" {
		c.Data.Summary = "daily_summary.json"
	}
	if c.Data.Gaps == "" {
		c.Data.Gaps = "price_gaps.json"
	}
	if c.Data.Backend == "" {
		c.Data.Backend = BackendFiles
	}
	if c.Data.SQLitePath == "" {
		c.Data.SQLitePath = "prices.db"
	}
	if c.Fetch.ArchiveURL == "" {
		c.Fetch.ArchiveURL = "https://tcgcsv.com/archive/tcgplayer"
	}
	if c.Fetch.Parallelism == 0 {
		c.Fetch.Parallelism = 4
	}
	if c.Fetch.CacheDir == "" {
		c.Fetch.CacheDir = ".cache"
	}
	if c.Site.Dir == "" {
		c.Site.Dir = "docs"
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 15 * * *"
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.StartDate != "" {
		if _, err := date.Parse(c.StartDate); err != nil {
			return fmt.Errorf("start_date: %w", err)
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	switch strings.ToLower(c.CostBasis) {
	case "average", "fifo":
	default:
		return fmt.Errorf("cost_basis must be average or fifo, got %q", c.CostBasis)
	}
	switch c.Data.Backend {
	case BackendFiles, BackendSQLite:
	default:
		return fmt.Errorf("data.backend must be %s or %s, got %q", BackendFiles, BackendSQLite, c.Data.Backend)
	}
	if c.Fetch.Parallelism < 1 {
		return fmt.Errorf("fetch.parallelism must be positive")
	}
	return nil
}

// Start returns the parsed start date, zero when not set.
func (c *Config) Start() date.Date {
	d, _ := date.Parse(c.StartDate)
	return d
}

// Location returns the timezone defining "today".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Path resolves a data file name relative to the data directory.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}
