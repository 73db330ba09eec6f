package export

import "log/slog"

// Exporter writes cmonkey run artifacts. The zero value exports compact
// JSON and all sequence types; use NewExporter to apply settings.
type Exporter struct {
	// PrettyJSON enables indented JSON output.
	PrettyJSON bool

	// SequenceTypes restricts motif exports to the given sequence
	// types. Empty means all.
	SequenceTypes []string

	logger *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(prettyJSON bool, seqTypes []string) *Exporter {
	return &Exporter{
		PrettyJSON:    prettyJSON,
		SequenceTypes: seqTypes,
		logger:        slog.Default().With("component", "export"),
	}
}

func (e *Exporter) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default().With("component", "export")
	}
	return e.logger
}
