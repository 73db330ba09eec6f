package export

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RatioMatrix is the normalized gene-expression matrix of a cmonkey run,
// genes in rows and conditions in columns. Missing measurements are NaN.
type RatioMatrix struct {
	Genes      []string
	Conditions []string
	Values     [][]float64

	geneIndex map[string]int
	condIndex map[string]int
}

// Value returns the expression value for a gene under a condition.
// The second return value is false if the gene or condition is not in
// the matrix.
func (m *RatioMatrix) Value(gene, condition string) (float64, bool) {
	gi, ok := m.geneIndex[gene]
	if !ok {
		return 0, false
	}
	ci, ok := m.condIndex[condition]
	if !ok {
		return 0, false
	}
	return m.Values[gi][ci], true
}

// FindRatios locates the ratio matrix file inside a result directory.
// cmonkey writes the normalized matrix as ratios.tsv.gz; older runs may
// carry an uncompressed ratios.tsv.
func FindRatios(resultDir string) (string, error) {
	for _, name := range []string{"ratios.tsv.gz", "ratios.tsv"} {
		path := filepath.Join(resultDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no ratio matrix (ratios.tsv.gz or ratios.tsv) in %q", resultDir)
}

// ReadRatios reads a tab-separated ratio matrix, transparently
// decompressing gzip files. The first line holds the condition names,
// every following line a gene name and its values. Empty, "NA" and
// "NaN" fields become NaN.
func ReadRatios(path string) (*RatioMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ratio matrix: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress ratio matrix %q: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	return parseRatios(r, path)
}

func parseRatios(r io.Reader, path string) (*RatioMatrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read ratio matrix %q: %w", path, err)
		}
		return nil, fmt.Errorf("ratio matrix %q is empty", path)
	}

	// Header line: an optional corner label followed by condition names.
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	conditions := header[1:]

	m := &RatioMatrix{
		Conditions: conditions,
		geneIndex:  make(map[string]int),
		condIndex:  make(map[string]int, len(conditions)),
	}
	for i, cond := range conditions {
		m.condIndex[cond] = i
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(conditions)+1 {
			return nil, fmt.Errorf("ratio matrix %q line %d: expected %d fields, got %d",
				path, lineNum, len(conditions)+1, len(fields))
		}

		values := make([]float64, len(conditions))
		for i, field := range fields[1:] {
			switch field {
			case "", "NA", "NaN", "nan":
				values[i] = math.NaN()
			default:
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, fmt.Errorf("ratio matrix %q line %d: invalid value %q: %w",
						path, lineNum, field, err)
				}
				values[i] = v
			}
		}

		m.geneIndex[fields[0]] = len(m.Genes)
		m.Genes = append(m.Genes, fields[0])
		m.Values = append(m.Values, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratio matrix %q: %w", path, err)
	}

	return m, nil
}
