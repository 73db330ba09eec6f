package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Export command names. These are positional arguments rather than
// cobra subcommands so the invocation stays RESULTDIR COMMAND.
const (
	cmdExpressions  = "expressions"
	cmdMicroformats = "microformats"
	cmdMotifEvalues = "motif_evalues"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootFlags struct {
	outputDir string
	dburl     string
	watchMode bool
	schedule  string
}

var rootCmd = &cobra.Command{
	Use:   "cm2export [flags] RESULTDIR COMMAND",
	Short: "Export cmonkey2 run results",
	Long: `cm2export exports the results of a cmonkey2 biclustering run.

RESULTDIR is the run's result directory; it must exist and by default
contains the results database cmonkey_run.db.

COMMAND selects the export:
  expressions    per-cluster expression matrices as JSON
  microformats   Gaggle microformat HTML bundle, one page per cluster
  motif_evalues  motif e-values as TSV

Examples:
  # export expressions next to the run
  cm2export /runs/eco-001 expressions

  # export microformats into a web directory
  cm2export --output_dir /var/www/eco-001 /runs/eco-001 microformats

  # follow a run that is still computing
  cm2export --watch /runs/eco-001 expressions`,
	Args:    validateExportArgs,
	RunE:    runExport,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// validateExportArgs rejects bad invocations during argument parsing,
// before any directory or session work happens.
func validateExportArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}
	switch args[1] {
	case cmdExpressions, cmdMicroformats, cmdMotifEvalues:
		return nil
	}
	return fmt.Errorf("invalid command %q (must be one of: %s, %s, %s)",
		args[1], cmdExpressions, cmdMicroformats, cmdMotifEvalues)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&rootFlags.outputDir, "output_dir", "", "output directory (default: RESULTDIR)")
	rootCmd.Flags().StringVar(&rootFlags.dburl, "dburl", "", "database connection URL (default: sqlite URL for RESULTDIR/cmonkey_run.db)")
	rootCmd.Flags().BoolVar(&rootFlags.watchMode, "watch", false, "re-run the export whenever the results database changes")
	rootCmd.Flags().StringVar(&rootFlags.schedule, "schedule", "", "re-run the export on a cron schedule (e.g. \"*/10 * * * *\")")
}
