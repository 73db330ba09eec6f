package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"baliga-lab/cm2export/pkg/results"
)

// ManifestName is the file name of the export manifest.
const ManifestName = "manifest.json"

// Manifest records what an export run produced. It is written next to
// the artifacts so downstream tools can discover them.
type Manifest struct {
	ExportID    string    `json:"export_id"`
	Command     string    `json:"command"`
	GeneratedAt time.Time `json:"generated_at"`
	Organism    string    `json:"organism"`
	Species     string    `json:"species"`
	Iteration   int       `json:"iteration"`
	Artifacts   []string  `json:"artifacts"`
}

// writeManifest writes the export manifest into outputDir.
func writeManifest(outputDir, command string, info *results.RunInfo, iteration int, artifacts []string) error {
	manifest := Manifest{
		ExportID:    uuid.NewString(),
		Command:     command,
		GeneratedAt: time.Now().UTC(),
		Organism:    info.Organism,
		Species:     info.Species,
		Iteration:   iteration,
		Artifacts:   artifacts,
	}

	data, err := json.MarshalIndent(&manifest, "", "  ")
	if err != nil {
		return NewExportError("json", ManifestName, err)
	}

	path := filepath.Join(outputDir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return NewExportError("json", ManifestName, err)
	}
	return nil
}
