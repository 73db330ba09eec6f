// Package export writes cmonkey run results into exchange formats.
//
// # Export Formats
//
//   - Cluster expressions: one JSON document holding the expression
//     submatrix of every bicluster, for visualization frontends.
//   - Gaggle microformats: one HTML page per bicluster with
//     gaggle-namelist markup, consumable by Gaggle-aware tools.
//   - Motif e-values: a TSV table of MEME motif e-values.
//
// All exports operate on the last stored iteration of the run and write
// a manifest.json next to their artifacts.
//
// # Usage
//
//	exporter := export.NewExporter(true, nil)
//	if err := exporter.MotifEvaluesTSV(ctx, session, outputDir); err != nil {
//	    return err
//	}
//
// Expression export additionally needs the ratio matrix file from the
// result directory; the motif export needs only the database, which is
// why its signature takes no result directory.
package export
