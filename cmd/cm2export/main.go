// cm2export exports the results of a cmonkey2 biclustering run into
// exchange formats for downstream analysis and visualization.
//
// It reads the run's SQLite database (cmonkey_run.db) and, for the
// expression export, the ratio matrix stored in the result directory:
//
//	# export per-cluster expression matrices as JSON
//	cm2export /runs/eco-001 expressions
//
//	# export a Gaggle microformat HTML bundle
//	cm2export --output_dir /var/www/eco-001 /runs/eco-001 microformats
//
//	# export motif e-values as TSV from an explicit database
//	cm2export --dburl sqlite:///data/run.db /runs/eco-001 motif_evalues
//
//	# keep re-exporting while the run is still computing
//	cm2export --watch /runs/eco-001 expressions
package main

func main() {
	Execute()
}
