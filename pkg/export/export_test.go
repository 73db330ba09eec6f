package export

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"baliga-lab/cm2export/pkg/results"
)

// runSchema mirrors the subset of the cmonkey run database the
// exporters read.
const runSchema = `
CREATE TABLE run_infos (
    start_time TIMESTAMP,
    finish_time TIMESTAMP,
    num_iterations INTEGER,
    organism TEXT,
    species TEXT,
    num_rows INTEGER,
    num_columns INTEGER,
    num_clusters INTEGER
);
CREATE TABLE row_names (order_num INTEGER, name TEXT);
CREATE TABLE column_names (order_num INTEGER, name TEXT);
CREATE TABLE row_members (iteration INTEGER, cluster INTEGER, order_num INTEGER);
CREATE TABLE column_members (iteration INTEGER, cluster INTEGER, order_num INTEGER);
CREATE TABLE cluster_stats (iteration INTEGER, cluster INTEGER, num_rows INTEGER, num_cols INTEGER, residual REAL);
CREATE TABLE motif_infos (iteration INTEGER, cluster INTEGER, seqtype TEXT, motif_num INTEGER, evalue REAL);
CREATE TABLE motif_pssm_rows (motif_info_id INTEGER, iteration INTEGER, row INTEGER, a REAL, c REAL, g REAL, t REAL);
`

const ratiosContent = "GENE\tcond1\tcond2\tcond3\n" +
	"gene1\t0.5\t-0.3\t0.1\n" +
	"gene2\tNA\t0.8\t-0.2\n" +
	"gene3\t1.2\t0.4\t0.9\n" +
	"gene4\t-0.7\t0.0\t0.3\n"

// createRunDir builds a result directory with a run database and a
// gzipped ratio matrix, and returns its path.
func createRunDir(t *testing.T) string {
	t.Helper()

	resultDir := t.TempDir()

	db, err := sql.Open("sqlite3", filepath.Join(resultDir, "cmonkey_run.db"))
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(runSchema); err != nil {
		t.Fatalf("failed to create fixture schema: %v", err)
	}

	start := time.Date(2015, 3, 14, 9, 26, 53, 0, time.UTC)
	inserts := []string{
		"INSERT INTO row_names VALUES (1, 'gene1'), (2, 'gene2'), (3, 'gene3'), (4, 'gene4')",
		"INSERT INTO column_names VALUES (1, 'cond1'), (2, 'cond2'), (3, 'cond3')",
		"INSERT INTO row_members VALUES (2, 1, 1), (2, 1, 2), (2, 2, 3), (2, 2, 4)",
		"INSERT INTO column_members VALUES (2, 1, 1), (2, 1, 2), (2, 2, 2), (2, 2, 3)",
		"INSERT INTO cluster_stats VALUES (2, 1, 2, 2, 0.42), (2, 2, 2, 2, 0.55)",
		"INSERT INTO motif_infos VALUES (2, 1, 'upstream', 1, 1.5e-7), (2, 1, 'upstream', 2, 0.00032), (2, 2, 'downstream', 1, 0.021)",
		"INSERT INTO motif_pssm_rows VALUES (1, 2, 0, 0.8, 0.1, 0.05, 0.05), (1, 2, 1, 0.1, 0.7, 0.1, 0.1)",
	}
	if _, err := db.Exec("INSERT INTO run_infos VALUES (?, NULL, 2000, 'eco', 'Escherichia coli', 4, 3, 2)", start); err != nil {
		t.Fatalf("failed to insert run info: %v", err)
	}
	for _, stmt := range inserts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to insert fixture data: %v", err)
		}
	}

	writeRatiosGz(t, filepath.Join(resultDir, "ratios.tsv.gz"))

	return resultDir
}

func writeRatiosGz(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create ratios file: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(ratiosContent)); err != nil {
		t.Fatalf("failed to write ratios file: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

// openRunDir opens a session on a fresh fixture run directory.
func openRunDir(t *testing.T) (*results.Session, string) {
	t.Helper()

	resultDir := createRunDir(t)
	url := results.MakeSQLiteURL(filepath.Join(resultDir, "cmonkey_run.db"))
	session, err := results.Open(url, nil)
	if err != nil {
		t.Fatalf("failed to open fixture session: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	return session, resultDir
}

// readManifest reads and decodes the manifest in outputDir.
func readManifest(t *testing.T, outputDir string) Manifest {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(outputDir, ManifestName))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}
	return m
}
