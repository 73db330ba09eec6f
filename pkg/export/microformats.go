package export

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"baliga-lab/cm2export/pkg/results"
)

// IndexName is the file name of the microformat bundle index.
const IndexName = "index.html"

// clusterPage is the template context for one cluster page.
type clusterPage struct {
	Cluster    int
	Organism   string
	Species    string
	Residual   float64
	Genes      []string
	Conditions []string
	Motifs     []motifView
}

// motifView is one motif with its position-specific scoring matrix.
type motifView struct {
	results.MotifInfo
	PSSM []results.PSSMRow
}

// indexPage is the template context for the bundle index.
type indexPage struct {
	Organism  string
	Species   string
	Iteration int
	Clusters  []indexEntry
}

type indexEntry struct {
	Cluster       int
	File          string
	NumGenes      int
	NumConditions int
	Residual      float64
}

// Gaggle microformats mark up name lists so Gaggle-aware tools
// (Firegoose and friends) can broadcast them to other applications.
var clusterTemplate = template.Must(template.New("cluster").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Organism}} bicluster {{.Cluster}}</title></head>
<body>
<h1>Bicluster {{.Cluster}}</h1>
<p>Residual: {{printf "%.4f" .Residual}}</p>

<div class="gaggle-data">
  <span class="gaggle-name">bicluster {{.Cluster}} genes</span>
  <span class="gaggle-species">{{.Species}}</span>
  <div class="gaggle-namelist">
    <ol>
{{range .Genes}}      <li>{{.}}</li>
{{end}}    </ol>
  </div>
</div>

<div class="gaggle-data">
  <span class="gaggle-name">bicluster {{.Cluster}} conditions</span>
  <span class="gaggle-species">{{.Species}}</span>
  <div class="gaggle-namelist">
    <ol>
{{range .Conditions}}      <li>{{.}}</li>
{{end}}    </ol>
  </div>
</div>
{{if .Motifs}}
<table class="motifs">
  <tr><th>seqtype</th><th>motif</th><th>e-value</th></tr>
{{range .Motifs}}  <tr><td>{{.SeqType}}</td><td>{{.MotifNum}}</td><td>{{printf "%.2e" .EValue}}</td></tr>
{{end}}</table>
{{range .Motifs}}{{if .PSSM}}
<table class="pssm">
  <caption>{{.SeqType}} motif {{.MotifNum}} PSSM</caption>
  <tr><th>a</th><th>c</th><th>g</th><th>t</th></tr>
{{range .PSSM}}  <tr><td>{{printf "%.3f" .A}}</td><td>{{printf "%.3f" .C}}</td><td>{{printf "%.3f" .G}}</td><td>{{printf "%.3f" .T}}</td></tr>
{{end}}</table>
{{end}}{{end}}
{{end}}
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Organism}} biclusters</title></head>
<body>
<h1>{{.Species}} &mdash; iteration {{.Iteration}}</h1>
<table>
  <tr><th>cluster</th><th>genes</th><th>conditions</th><th>residual</th></tr>
{{range .Clusters}}  <tr><td><a href="{{.File}}">{{.Cluster}}</a></td><td>{{.NumGenes}}</td><td>{{.NumConditions}}</td><td>{{printf "%.4f" .Residual}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// GaggleMicroformats exports one Gaggle-microformat HTML page per
// cluster at the run's last iteration, plus an index page, into
// outputDir. Each cluster page carries the Gaggle name lists, the motif
// e-values and the motif PSSMs. resultDir is accepted for interface
// symmetry with the other resultdir-consuming exports.
func (e *Exporter) GaggleMicroformats(ctx context.Context, s *results.Session, resultDir, outputDir string) error {
	info, err := s.RunInfo(ctx)
	if err != nil {
		return err
	}
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
	residuals, err := s.ClusterResiduals(ctx, iteration)
	if err != nil {
		return err
	}
	motifs, err := s.MotifInfos(ctx, iteration, e.SequenceTypes)
	if err != nil {
		return err
	}

	motifsByCluster := make(map[int][]motifView)
	for _, m := range motifs {
		pssm, err := s.MotifPSSM(ctx, m.ID)
		if err != nil {
			return err
		}
		motifsByCluster[m.Cluster] = append(motifsByCluster[m.Cluster],
			motifView{MotifInfo: m, PSSM: pssm})
	}

	clusters := make([]int, 0, len(rowMembers))
	for cluster := range rowMembers {
		clusters = append(clusters, cluster)
	}
	sort.Ints(clusters)

	artifacts := make([]string, 0, len(clusters)+1)
	index := indexPage{
		Organism:  info.Organism,
		Species:   info.Species,
		Iteration: iteration,
	}

	for _, cluster := range clusters {
		name := fmt.Sprintf("cluster-%04d.html", cluster)
		page := clusterPage{
			Cluster:    cluster,
			Organism:   info.Organism,
			Species:    info.Species,
			Residual:   residuals[cluster],
			Genes:      rowMembers[cluster],
			Conditions: colMembers[cluster],
			Motifs:     motifsByCluster[cluster],
		}

		if err := writePage(clusterTemplate, filepath.Join(outputDir, name), page); err != nil {
			return err
		}

		artifacts = append(artifacts, name)
		index.Clusters = append(index.Clusters, indexEntry{
			Cluster:       cluster,
			File:          name,
			NumGenes:      len(page.Genes),
			NumConditions: len(page.Conditions),
			Residual:      page.Residual,
		})
	}

	if err := writePage(indexTemplate, filepath.Join(outputDir, IndexName), index); err != nil {
		return err
	}
	artifacts = append(artifacts, IndexName)

	e.log().Info("gaggle microformats exported",
		"output_dir", outputDir,
		"iteration", iteration,
		"clusters", len(clusters),
	)

	return writeManifest(outputDir, "microformats", info, iteration, artifacts)
}

// writePage renders a template into a file.
func writePage(tmpl *template.Template, path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return NewExportError("microformat", filepath.Base(path), err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return NewExportError("microformat", filepath.Base(path), err)
	}
	return nil
}
