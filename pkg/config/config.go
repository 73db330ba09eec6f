package config

import "time"

// Config is the root configuration structure for cm2export.
// All settings are optional; a missing config file yields the defaults.
type Config struct {
	// Database contains settings for the results database connection.
	Database DatabaseConfig `yaml:"database"`

	// Export contains settings shared by the export commands.
	Export ExportConfig `yaml:"export"`

	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Watch contains settings for the --watch re-export mode.
	Watch WatchConfig `yaml:"watch"`
}

// DatabaseConfig contains settings for opening the results database.
type DatabaseConfig struct {
	// Driver selects the SQLite driver: "sqlite3" (cgo, mattn) or
	// "sqlite" (pure Go, modernc).
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is how long to wait when the database is locked,
	// which happens while a cmonkey run is still writing iterations.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExportConfig contains settings shared by the exporters.
type ExportConfig struct {
	// PrettyJSON enables indented JSON output.
	// Default: true
	PrettyJSON bool `yaml:"pretty_json"`

	// SequenceTypes restricts motif export to the given sequence types.
	// An empty list exports all sequence types found in the database.
	SequenceTypes []string `yaml:"sequence_types"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// DebounceInterval is the quiet period after a database change
	// before the export is re-run. cmonkey writes several tables per
	// iteration, so a too-small interval re-exports mid-iteration.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}
