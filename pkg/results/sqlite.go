package results

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)
)

// Config contains settings for opening a results database.
type Config struct {
	// Driver is the database/sql driver name: "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// A running cmonkey process holds write locks while it stores an
	// iteration, so exports against a live run need a non-zero timeout.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "sqlite3",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
	}
}

// Session is an open, read-only connection to a cmonkey results database.
// The caller owns the lifecycle and must call Close exactly once.
type Session struct {
	db     *sql.DB
	config *Config
	path   string
	logger *slog.Logger
}

// MakeSQLiteURL returns the SQLite connection URL for a database file.
// Relative paths are made absolute so the URL identifies the file
// regardless of the working directory.
func MakeSQLiteURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "sqlite:///" + strings.TrimPrefix(filepath.ToSlash(path), "/")
}

// PathFromURL extracts the database file path from a SQLite connection
// URL. Bare filesystem paths are returned unchanged, so --dburl may also
// point directly at a database file.
func PathFromURL(url string) string {
	for _, prefix := range []string{"sqlite:///", "sqlite3:///", "file:///"} {
		if strings.HasPrefix(url, prefix) {
			return "/" + strings.TrimPrefix(url, prefix)
		}
	}
	for _, prefix := range []string{"sqlite://", "sqlite3://", "file://", "file:"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

// Open opens a session for the results database identified by url.
// It fails if the database file does not exist or does not look like a
// cmonkey results database (no run_infos table); SQLite would otherwise
// silently create an empty database file.
func Open(url string, config *Config) (*Session, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := slog.Default().With("component", "results.session")
	path := PathFromURL(url)

	if _, err := os.Stat(path); err != nil {
		return nil, NewStorageError(config.Driver, "open",
			fmt.Errorf("database file %q does not exist: %w", path, err))
	}

	db, err := sql.Open(config.Driver, dsn(config, path))
	if err != nil {
		return nil, NewStorageError(config.Driver, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Session{
		db:     db,
		config: config,
		path:   path,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("results database opened",
		"path", path,
		"driver", config.Driver,
	)

	return s, nil
}

// dsn builds the driver-specific connection string. The busy_timeout and
// query_only pragmas go into the DSN so they apply to every pooled
// connection, not just the one a PRAGMA statement happens to run on.
// Exports must never mutate a run database, hence query_only.
func dsn(config *Config, path string) string {
	busyTimeoutMs := config.BusyTimeout.Milliseconds()
	switch config.Driver {
	case "sqlite":
		// modernc.org/sqlite
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=query_only(1)",
			path, busyTimeoutMs)
	default:
		// mattn/go-sqlite3
		return fmt.Sprintf("file:%s?_busy_timeout=%d&_query_only=1",
			path, busyTimeoutMs)
	}
}

// initialize verifies the database schema.
func (s *Session) initialize() error {
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='run_infos'").Scan(&name)
	if err == sql.ErrNoRows {
		return NewStorageError(s.config.Driver, "verify_schema",
			fmt.Errorf("%q is not a cmonkey results database (no run_infos table)", s.path))
	}
	if err != nil {
		return NewStorageError(s.config.Driver, "verify_schema", err)
	}

	return nil
}

// Close releases the database connection.
func (s *Session) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(s.config.Driver, "close", err)
	}
	s.logger.Debug("results database closed", "path", s.path)
	return nil
}

// RunInfo returns the run metadata from the run_infos table.
func (s *Session) RunInfo(ctx context.Context) (*RunInfo, error) {
	var info RunInfo
	var finishTime sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT start_time, finish_time, num_iterations,
		       organism, species, num_rows, num_columns, num_clusters
		FROM run_infos`).Scan(
		&info.StartTime, &finishTime, &info.NumIterations,
		&info.Organism, &info.Species,
		&info.NumRows, &info.NumColumns, &info.NumClusters,
	)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "run_info", err)
	}

	if finishTime.Valid {
		info.FinishTime = finishTime.Time
	}

	return &info, nil
}

// LastIteration returns the latest iteration for which cluster
// memberships have been stored. It returns 0 for a database that holds
// no iteration data yet.
func (s *Session) LastIteration(ctx context.Context) (int, error) {
	var iteration int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(iteration), 0) FROM row_members").Scan(&iteration)
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "last_iteration", err)
	}
	return iteration, nil
}

// ClusterRowMembers returns the gene names of every cluster at the given
// iteration, keyed by cluster number. Names within a cluster are sorted.
func (s *Session) ClusterRowMembers(ctx context.Context, iteration int) (map[int][]string, error) {
	return s.clusterMembers(ctx, iteration, "row_members", "row_names")
}

// ClusterColumnMembers returns the condition names of every cluster at
// the given iteration, keyed by cluster number.
func (s *Session) ClusterColumnMembers(ctx context.Context, iteration int) (map[int][]string, error) {
	return s.clusterMembers(ctx, iteration, "column_members", "column_names")
}

// clusterMembers joins a members table with its name table.
// The table names are fixed by the callers, never caller input.
func (s *Session) clusterMembers(ctx context.Context, iteration int, memberTable, nameTable string) (map[int][]string, error) {
	query := fmt.Sprintf(`
		SELECT m.cluster, n.name
		FROM %s m JOIN %s n ON m.order_num = n.order_num
		WHERE m.iteration = ?
		ORDER BY m.cluster, n.name`, memberTable, nameTable)

	rows, err := s.db.QueryContext(ctx, query, iteration)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "cluster_members", err)
	}
	defer rows.Close()

	members := make(map[int][]string)
	for rows.Next() {
		var cluster int
		var name string
		if err := rows.Scan(&cluster, &name); err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		members[cluster] = append(members[cluster], name)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "cluster_members", err)
	}

	return members, nil
}

// ClusterResiduals returns the residual of every cluster at the given
// iteration, keyed by cluster number.
func (s *Session) ClusterResiduals(ctx context.Context, iteration int) (map[int]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cluster, residual FROM cluster_stats WHERE iteration = ?", iteration)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "cluster_residuals", err)
	}
	defer rows.Close()

	residuals := make(map[int]float64)
	for rows.Next() {
		var cluster int
		var residual float64
		if err := rows.Scan(&cluster, &residual); err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		residuals[cluster] = residual
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "cluster_residuals", err)
	}

	return residuals, nil
}

// MotifInfos returns all motifs found at the given iteration, ordered by
// cluster, sequence type and motif number. seqTypes restricts the result
// to the given sequence types; an empty slice returns all of them.
func (s *Session) MotifInfos(ctx context.Context, iteration int, seqTypes []string) ([]MotifInfo, error) {
	query := `
		SELECT rowid, cluster, seqtype, motif_num, evalue
		FROM motif_infos
		WHERE iteration = ?`
	args := []interface{}{iteration}

	if len(seqTypes) > 0 {
		query += " AND seqtype IN (?" + strings.Repeat(",?", len(seqTypes)-1) + ")"
		for _, st := range seqTypes {
			args = append(args, st)
		}
	}
	query += " ORDER BY cluster, seqtype, motif_num"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "motif_infos", err)
	}
	defer rows.Close()

	motifs := []MotifInfo{}
	for rows.Next() {
		var m MotifInfo
		if err := rows.Scan(&m.ID, &m.Cluster, &m.SeqType, &m.MotifNum, &m.EValue); err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		motifs = append(motifs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "motif_infos", err)
	}

	return motifs, nil
}

// MotifPSSM returns the position-specific scoring matrix of a motif,
// one row per motif position.
func (s *Session) MotifPSSM(ctx context.Context, motifID int64) ([]PSSMRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a, c, g, t FROM motif_pssm_rows
		WHERE motif_info_id = ?
		ORDER BY row`, motifID)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "motif_pssm", err)
	}
	defer rows.Close()

	pssm := []PSSMRow{}
	for rows.Next() {
		var r PSSMRow
		if err := rows.Scan(&r.A, &r.C, &r.G, &r.T); err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		pssm = append(pssm, r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "motif_pssm", err)
	}

	return pssm, nil
}
