package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"baliga-lab/cm2export/pkg/cli"
	"baliga-lab/cm2export/pkg/config"
	"baliga-lab/cm2export/pkg/export"
	"baliga-lab/cm2export/pkg/results"
	"baliga-lab/cm2export/pkg/watch"
)

// invocation is a fully resolved export request.
type invocation struct {
	resultDir string
	command   string
	outputDir string
	dburl     string
}

// The session factory, session release and collaborator calls are
// package variables so tests can observe and stub them.
var (
	openSession = results.Open

	closeSession = func(s *results.Session) error {
		return s.Close()
	}

	clusterExpressionsToJSONFile = func(ctx context.Context, e *export.Exporter, s *results.Session, resultDir, outputDir string) error {
		return e.ClusterExpressionsJSON(ctx, s, resultDir, outputDir)
	}

	exportToGaggleMicroformats = func(ctx context.Context, e *export.Exporter, s *results.Session, resultDir, outputDir string) error {
		return e.GaggleMicroformats(ctx, s, resultDir, outputDir)
	}

	// Motif export reads only the database, so it takes no resultdir.
	exportMotifEvaluesTSV = func(ctx context.Context, e *export.Exporter, s *results.Session, outputDir string) error {
		return e.MotifEvaluesTSV(ctx, s, outputDir)
	}
)

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	inv, err := resolveInvocation(args[0], args[1], rootFlags.outputDir, rootFlags.dburl)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(cfg.Export.PrettyJSON, cfg.Export.SequenceTypes)
	dbCfg := sessionConfig(cfg)

	ctx := cli.SetupSignalHandler()

	if err := exportOnce(ctx, exporter, dbCfg, inv); err != nil {
		return cli.NewCommandError(inv.command, err)
	}

	if !rootFlags.watchMode && rootFlags.schedule == "" {
		return nil
	}
	return keepExporting(ctx, cfg, func() error {
		return exportOnce(ctx, exporter, dbCfg, inv)
	}, inv)
}

// resolveInvocation validates the result directory and resolves the
// output directory and database URL. The result directory check comes
// first: nothing may be created and no session opened when it fails.
func resolveInvocation(resultDir, command, outputDirFlag, dburlFlag string) (*invocation, error) {
	if _, err := os.Stat(resultDir); err != nil {
		if os.IsNotExist(err) {
			return nil, cli.NewConfigError("resultdir", "result directory does not exist")
		}
		return nil, fmt.Errorf("failed to check result directory %q: %w", resultDir, err)
	}

	outputDir := outputDirFlag
	if outputDir == "" {
		outputDir = resultDir
	}
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.Mkdir(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %q: %w", outputDir, err)
		}
	}

	dburl := dburlFlag
	if dburl == "" {
		dburl = results.MakeSQLiteURL(filepath.Join(resultDir, "cmonkey_run.db"))
	}

	return &invocation{
		resultDir: resultDir,
		command:   command,
		outputDir: outputDir,
		dburl:     dburl,
	}, nil
}

// exportOnce opens a session, dispatches the export exactly once and
// releases the session on every path, including collaborator failure.
func exportOnce(ctx context.Context, exporter *export.Exporter, dbCfg *results.Config, inv *invocation) (err error) {
	session, err := openSession(inv.dburl, dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSession(session); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return dispatch(ctx, exporter, session, inv)
}

// dispatch routes the command to its collaborator. Argument parsing
// already rejected unknown commands.
func dispatch(ctx context.Context, exporter *export.Exporter, session *results.Session, inv *invocation) error {
	switch inv.command {
	case cmdExpressions:
		return clusterExpressionsToJSONFile(ctx, exporter, session, inv.resultDir, inv.outputDir)
	case cmdMicroformats:
		return exportToGaggleMicroformats(ctx, exporter, session, inv.resultDir, inv.outputDir)
	case cmdMotifEvalues:
		return exportMotifEvaluesTSV(ctx, exporter, session, inv.outputDir)
	default:
		return fmt.Errorf("unknown command %q", inv.command)
	}
}

// serialize returns a function running fn under a mutex. Watch and
// schedule triggers can land while a re-export is still writing its
// artifacts; overlapping runs must never write the same output files
// concurrently.
func serialize(fn func() error) func() error {
	var mu sync.Mutex
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		return fn()
	}
}

// keepExporting runs refresh on database changes and/or a cron schedule
// until the signal context is canceled. Re-runs are serialized; refresh
// failures are logged by the watch package and do not end the loop: a
// live cmonkey run can leave the database briefly inconsistent.
func keepExporting(ctx context.Context, cfg *config.Config, refresh func() error, inv *invocation) error {
	refresh = serialize(refresh)
	if rootFlags.schedule != "" {
		scheduler, err := watch.NewScheduler(rootFlags.schedule)
		if err != nil {
			return err
		}
		if err := scheduler.Start(ctx, refresh); err != nil {
			return err
		}
	}

	if rootFlags.watchMode {
		watcher, err := watch.New(&watch.Config{
			Path:             results.PathFromURL(inv.dburl),
			DebounceInterval: cfg.Watch.DebounceInterval,
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
		return watcher.Run(ctx, refresh)
	}

	<-ctx.Done()
	return nil
}

// loadConfig loads the optional config file, or the defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg, nil
}

// sessionConfig maps the tool configuration onto session settings.
func sessionConfig(cfg *config.Config) *results.Config {
	return &results.Config{
		Driver:       cfg.Database.Driver,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}
}

// setupLogging configures the default logger from config and flags.
func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
