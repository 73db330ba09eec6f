// Package results provides read-only access to a cmonkey2 results
// database (cmonkey_run.db).
//
// A cmonkey run writes its state into a SQLite database: run metadata in
// run_infos, gene and condition names in row_names/column_names, per
// iteration cluster memberships in row_members/column_members, residuals
// in cluster_stats, and MEME motif results in motif_infos and
// motif_pssm_rows. This package never writes to that database.
//
// # Usage
//
//	url := results.MakeSQLiteURL("/runs/eco-001/cmonkey_run.db")
//	session, err := results.Open(url, nil)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	info, err := session.RunInfo(ctx)
//
// The session is backed by database/sql. Two drivers are supported:
// "sqlite3" (mattn/go-sqlite3, cgo) and "sqlite" (modernc.org/sqlite,
// pure Go), selected via Config.Driver.
package results
