package export

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadRatios_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratios.tsv.gz")
	writeRatiosGz(t, path)

	m, err := ReadRatios(path)
	if err != nil {
		t.Fatalf("ReadRatios() failed: %v", err)
	}

	if len(m.Genes) != 4 {
		t.Errorf("expected 4 genes, got %d", len(m.Genes))
	}
	if strings.Join(m.Conditions, ",") != "cond1,cond2,cond3" {
		t.Errorf("unexpected conditions: %v", m.Conditions)
	}

	v, ok := m.Value("gene1", "cond2")
	if !ok || v != -0.3 {
		t.Errorf("Value(gene1, cond2) = %v, %v; want -0.3, true", v, ok)
	}

	// "NA" becomes NaN.
	v, ok = m.Value("gene2", "cond1")
	if !ok || !math.IsNaN(v) {
		t.Errorf("Value(gene2, cond1) = %v, %v; want NaN, true", v, ok)
	}

	// Unknown gene or condition.
	if _, ok := m.Value("nope", "cond1"); ok {
		t.Error("expected lookup of unknown gene to fail")
	}
	if _, ok := m.Value("gene1", "nope"); ok {
		t.Error("expected lookup of unknown condition to fail")
	}
}

func TestReadRatios_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratios.tsv")
	if err := os.WriteFile(path, []byte(ratiosContent), 0644); err != nil {
		t.Fatalf("failed to write ratios file: %v", err)
	}

	m, err := ReadRatios(path)
	if err != nil {
		t.Fatalf("ReadRatios() failed: %v", err)
	}
	if len(m.Genes) != 4 || len(m.Conditions) != 3 {
		t.Errorf("unexpected dimensions: %d genes, %d conditions",
			len(m.Genes), len(m.Conditions))
	}
}

func TestReadRatios_FieldCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratios.tsv")
	content := "GENE\tcond1\tcond2\ngene1\t0.5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write ratios file: %v", err)
	}

	if _, err := ReadRatios(path); err == nil {
		t.Fatal("expected error for mismatched field count")
	}
}

func TestReadRatios_InvalidValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratios.tsv")
	content := "GENE\tcond1\ngene1\tbogus\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write ratios file: %v", err)
	}

	if _, err := ReadRatios(path); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestFindRatios(t *testing.T) {
	dir := t.TempDir()

	if _, err := FindRatios(dir); err == nil {
		t.Fatal("expected error for directory without ratio matrix")
	}

	plain := filepath.Join(dir, "ratios.tsv")
	if err := os.WriteFile(plain, []byte(ratiosContent), 0644); err != nil {
		t.Fatalf("failed to write ratios file: %v", err)
	}
	path, err := FindRatios(dir)
	if err != nil {
		t.Fatalf("FindRatios() failed: %v", err)
	}
	if path != plain {
		t.Errorf("FindRatios() = %q, want %q", path, plain)
	}

	// The gzipped matrix takes precedence when both exist.
	writeRatiosGz(t, filepath.Join(dir, "ratios.tsv.gz"))
	path, err = FindRatios(dir)
	if err != nil {
		t.Fatalf("FindRatios() failed: %v", err)
	}
	if !strings.HasSuffix(path, "ratios.tsv.gz") {
		t.Errorf("expected gzipped matrix to win, got %q", path)
	}
}
