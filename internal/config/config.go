// Package config holds the YAML configuration for a vol-index run.
package config

import "fmt"

// Config is the root configuration.
type Config struct {
	Index     IndexConfig    `yaml:"index"`
	Data      DataConfig     `yaml:"data"`
	Database  DatabaseConfig `yaml:"database"`
	Report    ReportConfig   `yaml:"report"`
	Verbosity int            `yaml:"verbosity"`
}

// IndexConfig holds the calculation constants. These were implicit globals
// in earlier incarnations of the calculation and are deliberately explicit
// here.
type IndexConfig struct {
	RiskFreeRate     float64 `yaml:"risk_free_rate"`
	HorizonDays      int     `yaml:"horizon_days"`
	ZeroBidThreshold float64 `yaml:"zero_bid_threshold"`
	MinutesPerYear   float64 `yaml:"minutes_per_year"`
	Workers          int     `yaml:"workers"`
}

// DataConfig selects and parameterizes the quote provider.
type DataConfig struct {
	QuotesDir     string `yaml:"quotes_dir"`
	DateFormat    string `yaml:"date_format"`
	Filter        string `yaml:"filter"` // optional govaluate row filter
	Synthetic     bool   `yaml:"synthetic"`
	SyntheticSeed int64  `yaml:"synthetic_seed"`
	From          string `yaml:"from"`
	To            string `yaml:"to"`
}

// DatabaseConfig holds the optional Postgres sink connection.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

func (c *Config) applyDefaults() {
	if c.Index.HorizonDays == 0 {
		c.Index.HorizonDays = 30
	}
	if c.Index.MinutesPerYear == 0 {
		c.Index.MinutesPerYear = 525600
	}
	if c.Data.DateFormat == "" {
		c.Data.DateFormat = "2006-01-02"
	}
	if c.Data.QuotesDir == "" {
		c.Data.QuotesDir = "./quotes"
	}
	if c.Data.SyntheticSeed == 0 {
		c.Data.SyntheticSeed = 1
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "./out"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 4
	}
	if c.Verbosity == 0 {
		c.Verbosity = 1
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Index.HorizonDays < 1 {
		return fmt.Errorf("index.horizon_days must be positive, got %d", c.Index.HorizonDays)
	}
	if c.Index.ZeroBidThreshold < 0 {
		return fmt.Errorf("index.zero_bid_threshold must not be negative, got %g", c.Index.ZeroBidThreshold)
	}
	if c.Index.MinutesPerYear <= 0 {
		return fmt.Errorf("index.minutes_per_year must be positive, got %g", c.Index.MinutesPerYear)
	}
	if c.Data.From == "" || c.Data.To == "" {
		return fmt.Errorf("data.from and data.to are required")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required when the sink is enabled")
		}
	}
	return nil
}
