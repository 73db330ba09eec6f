package results

import "time"

// RunInfo describes a cmonkey run as recorded in the run_infos table.
type RunInfo struct {
	// StartTime is when the run started.
	StartTime time.Time `json:"start_time"`

	// FinishTime is when the run finished. Zero while the run is
	// still in progress.
	FinishTime time.Time `json:"finish_time,omitempty"`

	// NumIterations is the configured number of iterations.
	NumIterations int `json:"num_iterations"`

	// Organism is the organism code (e.g. "eco", "hal").
	Organism string `json:"organism"`

	// Species is the full species name.
	Species string `json:"species"`

	// NumRows is the number of genes in the ratio matrix.
	NumRows int `json:"num_rows"`

	// NumColumns is the number of conditions in the ratio matrix.
	NumColumns int `json:"num_columns"`

	// NumClusters is the number of biclusters.
	NumClusters int `json:"num_clusters"`
}

// MotifInfo describes one motif discovered for a cluster at an iteration.
type MotifInfo struct {
	// ID is the motif's rowid in motif_infos, used to fetch PSSM rows.
	ID int64 `json:"id"`

	// Cluster is the bicluster number (1-based).
	Cluster int `json:"cluster"`

	// SeqType is the sequence type the motif was found in
	// (e.g. "upstream").
	SeqType string `json:"seqtype"`

	// MotifNum is the motif number within the cluster (1-based).
	MotifNum int `json:"motif_num"`

	// EValue is the MEME e-value of the motif.
	EValue float64 `json:"evalue"`
}

// PSSMRow is one position of a motif's position-specific scoring matrix.
type PSSMRow struct {
	A float64 `json:"a"`
	C float64 `json:"c"`
	G float64 `json:"g"`
	T float64 `json:"t"`
}
