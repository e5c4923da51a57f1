// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Store driver names accepted by StoreDriver.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the document store backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// ScoringWorkers sets the number of goroutines scoring teams in
	// parallel during a result submission.
	ScoringWorkers int `koanf:"scoring_workers"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		StoreDriver:       StoreMemory,
		SQLitePath:        "prixsix.db",
		ScoringWorkers:    runtime.NumCPU(),
		MaxStandingsLimit: 100,
	}
	return c
}
