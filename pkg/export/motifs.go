package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"baliga-lab/cm2export/pkg/results"
)

// MotifEvaluesName is the file name of the motif e-value artifact.
const MotifEvaluesName = "motif_evalues.tsv"

// MotifEvaluesTSV exports the motif e-values at the run's last iteration
// into <outputDir>/motif_evalues.tsv. Unlike the other exports it needs
// nothing from the result directory, only the database.
func (e *Exporter) MotifEvaluesTSV(ctx context.Context, s *results.Session, outputDir string) error {
	iteration, err := s.LastIteration(ctx)
	if err != nil {
		return err
	}

	motifs, err := s.MotifInfos(ctx, iteration, e.SequenceTypes)
	if err != nil {
		return err
	}

	path := filepath.Join(outputDir, MotifEvaluesName)
	f, err := os.Create(path)
	if err != nil {
		return NewExportError("tsv", MotifEvaluesName, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "cluster\tseqtype\tmotif_num\tevalue")
	for _, m := range motifs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
			m.Cluster, m.SeqType, m.MotifNum,
			strconv.FormatFloat(m.EValue, 'g', -1, 64))
	}
	if err := w.Flush(); err != nil {
		return NewExportError("tsv", MotifEvaluesName, err)
	}

	e.log().Info("motif e-values exported",
		"path", path,
		"iteration", iteration,
		"motifs", len(motifs),
	)

	info, err := s.RunInfo(ctx)
	if err != nil {
		return err
	}
	return writeManifest(outputDir, "motif_evalues", info, iteration, []string{MotifEvaluesName})
}
