package config

import "time"

// Default values applied to unset configuration fields.
const (
	DefaultDriver           = "sqlite3"
	DefaultMaxOpenConns     = 4
	DefaultMaxIdleConns     = 2
	DefaultBusyTimeout      = 5 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultDebounceInterval = 500 * time.Millisecond
)

// ApplyDefaults fills in default values for unset fields.
// It is called by Load; call it directly when building a Config in code.
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDriver
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultDebounceInterval
	}
}

// Default returns a Config populated entirely with defaults.
// PrettyJSON defaults to true; it can only be disabled via a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.Export.PrettyJSON = true
	ApplyDefaults(cfg)
	return cfg
}
