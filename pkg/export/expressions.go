package export

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"baliga-lab/cm2export/pkg/results"
)

// ExpressionsName is the file name of the cluster expression artifact.
const ExpressionsName = "cluster_expressions.json"

// ClusterExpressions holds the expression submatrix of one bicluster:
// the member genes, the member conditions and the values at their
// intersection in the ratio matrix, row-major by gene.
type ClusterExpressions struct {
	Genes      []string      `json:"genes"`
	Conditions []string      `json:"conditions"`
	Values     [][]nullFloat `json:"values"`
}

// nullFloat marshals NaN as JSON null; encoding/json rejects NaN.
type nullFloat float64

func (f nullFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

// ClusterExpressionsJSON exports the per-cluster expression submatrices
// at the run's last iteration into <outputDir>/cluster_expressions.json.
// The memberships come from the session, the expression values from the
// ratio matrix file inside resultDir.
func (e *Exporter) ClusterExpressionsJSON(ctx context.Context, s *results.Session, resultDir, outputDir string) error {
	iteration, err := s.LastIteration(ctx)
	if err != nil {
		return err
	}

	rowMembers, err := s.ClusterRowMembers(ctx, iteration)
	if err != nil {
		return err
	}
	colMembers, err := s.ClusterColumnMembers(ctx, iteration)
	if err != nil {
		return err
	}

	ratiosPath, err := FindRatios(resultDir)
	if err != nil {
		return NewExportError("json", ExpressionsName, err)
	}
	ratios, err := ReadRatios(ratiosPath)
	if err != nil {
		return NewExportError("json", ExpressionsName, err)
	}

	expressions := make(map[string]*ClusterExpressions, len(rowMembers))
	for cluster, genes := range rowMembers {
		conditions := colMembers[cluster]

		ce := &ClusterExpressions{
			Genes:      genes,
			Conditions: conditions,
			Values:     make([][]nullFloat, len(genes)),
		}
		for gi, gene := range genes {
			row := make([]nullFloat, len(conditions))
			for ci, cond := range conditions {
				value, ok := ratios.Value(gene, cond)
				if !ok {
					value = math.NaN()
				}
				row[ci] = nullFloat(value)
			}
			ce.Values[gi] = row
		}
		expressions[strconv.Itoa(cluster)] = ce
	}

	var data []byte
	if e.PrettyJSON {
		data, err = json.MarshalIndent(expressions, "", "  ")
	} else {
		data, err = json.Marshal(expressions)
	}
	if err != nil {
		return NewExportError("json", ExpressionsName, err)
	}

	path := filepath.Join(outputDir, ExpressionsName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return NewExportError("json", ExpressionsName, err)
	}

	e.log().Info("cluster expressions exported",
		"path", path,
		"iteration", iteration,
		"clusters", len(expressions),
	)

	info, err := s.RunInfo(ctx)
	if err != nil {
		return err
	}
	return writeManifest(outputDir, "expressions", info, iteration, []string{ExpressionsName})
}
