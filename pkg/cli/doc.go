// Package cli provides shared helpers for the cm2export command layer:
// typed errors surfaced at the command boundary and signal-driven
// context cancellation for the long-running watch and schedule modes.
package cli
