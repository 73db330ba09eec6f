// Package config handles cm2export configuration.
//
// Configuration is optional: the tool runs with built-in defaults unless
// the --config flag points at a YAML file. File values are decoded on top
// of the defaults, then validated.
//
// Example configuration file:
//
//	database:
//	  driver: sqlite3       # or "sqlite" for the pure-Go driver
//	  max_open_conns: 4
//	  busy_timeout: 5s
//
//	export:
//	  pretty_json: true
//	  sequence_types: [upstream]
//
//	logging:
//	  level: info
//	  format: text
//
//	watch:
//	  debounce_interval: 500ms
package config
