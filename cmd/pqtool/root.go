package main

import (
	"github.com/TFMV/pqtool/config"
	"github.com/TFMV/pqtool/logger"
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/resolve"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	fs     afero.Fs
	cfg    *config.Config
	log    *zap.Logger
	config string
	debug  bool
}

func newRootCommand() *cobra.Command {
	a := &app{fs: afero.NewOsFs()}

	rootCmd := &cobra.Command{
		Use:   "pqtool",
		Short: "pqtool inspects Parquet files",
		Long: `pqtool views, counts, samples, re-encodes and merges Parquet files
from the command line. Rows are streamed batch by batch with Apache Arrow;
counts, sizes and schemas are read from the file footer only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.config, "config", "", "Optional YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Show debug output")

	rootCmd.AddCommand(
		newCatCommand(a),
		newHeadCommand(a),
		newSampleCommand(a),
		newMergeCommand(a),
		newRowCountCommand(a),
		newSizeCommand(a),
		newSchemaCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.config)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.debug {
		level = "debug"
	}
	logger.ResetLogger()
	if err := logger.Configure(level, cfg.Log.File); err != nil {
		return err
	}
	a.log = logger.GetLogger()
	return nil
}

// resolveLocations expands files and directories and re-checks that every
// member still exists before any output is produced.
func (a *app) resolveLocations(locations []string) ([]string, error) {
	set, err := resolve.NewResolver(a.fs, a.log).Resolve(locations)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(a.fs); err != nil {
		return nil, err
	}
	return set.Paths(), nil
}

// resolveFiles is resolveLocations for commands that take plain files.
func (a *app) resolveFiles(files []string) ([]string, error) {
	set := resolve.NewFileSet()
	for _, f := range files {
		set.Add(f)
	}
	if err := set.Validate(a.fs); err != nil {
		return nil, err
	}
	return set.Paths(), nil
}

// encodingFlags registers the shared output flags on cmd.
func encodingFlags(cmd *cobra.Command, flags *core.FormatFlags, withCSV bool) {
	cmd.Flags().BoolVarP(&flags.JSON, "json", "j", false, "Use JSON lines format for printing")
	if !withCSV {
		return
	}
	cmd.Flags().BoolVarP(&flags.CSV, "csv", "c", false, "Use CSV format for printing")
	cmd.Flags().BoolVar(&flags.NoHeader, "no-header", false, "Omit the CSV header line (requires --csv)")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")
	cmd.MarkFlagsMutuallyExclusive("json", "no-header")
}
