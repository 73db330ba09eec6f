package config

import (
	"baliga-lab/cm2export/pkg/cli"
)

var validDrivers = map[string]bool{
	"sqlite3": true, // mattn/go-sqlite3 (cgo)
	"sqlite":  true, // modernc.org/sqlite (pure Go)
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the configuration for invalid values.
// It assumes defaults have already been applied.
func Validate(cfg *Config) error {
	if !validDrivers[cfg.Database.Driver] {
		return cli.NewConfigError("database.driver",
			"must be one of: sqlite3, sqlite")
	}
	if cfg.Database.MaxOpenConns < 1 {
		return cli.NewConfigError("database.max_open_conns", "must be at least 1")
	}
	if cfg.Database.MaxIdleConns < 0 {
		return cli.NewConfigError("database.max_idle_conns", "must not be negative")
	}
	if cfg.Database.BusyTimeout < 0 {
		return cli.NewConfigError("database.busy_timeout", "must not be negative")
	}
	if !validLogLevels[cfg.Logging.Level] {
		return cli.NewConfigError("logging.level",
			"must be one of: debug, info, warn, error")
	}
	if !validLogFormats[cfg.Logging.Format] {
		return cli.NewConfigError("logging.format",
			"must be one of: text, json")
	}
	if cfg.Watch.DebounceInterval < 0 {
		return cli.NewConfigError("watch.debounce_interval", "must not be negative")
	}
	return nil
}
