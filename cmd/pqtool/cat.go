package main

import (
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/export"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/spf13/cobra"
)

// CatOptions represents the options for the cat command.
type CatOptions struct {
	Locations []string
	Format    core.FormatFlags
	Quiet     bool
}

func newCatCommand(a *app) *cobra.Command {
	options := &CatOptions{}

	cmd := &cobra.Command{
		Use:   "cat [flags] LOCATION...",
		Short: "Prints the contents of Parquet file(s)",
		Long: `The cat command prints every row of the given Parquet files.

Directories are walked recursively. Entries whose name starts with a dot are
skipped, and each file is printed once even when it is named twice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Locations = args
			if !cmd.Flags().Changed("quiet") {
				options.Quiet = a.cfg.Quiet
			}
			return runCat(cmd, a, options)
		},
	}

	encodingFlags(cmd, &options.Format, true)
	cmd.Flags().BoolVarP(&options.Quiet, "quiet", "q", false, "Do not print the per-file banner")

	return cmd
}

func runCat(cmd *cobra.Command, a *app, options *CatOptions) error {
	enc, err := core.SelectEncoding(options.Format)
	if err != nil {
		return err
	}

	paths, err := a.resolveLocations(options.Locations)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(readers.NewParquetOpener(a.fs), a.fs, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.log)
	exporter.BatchSize = a.cfg.BatchSize

	_, err = exporter.Export(cmd.Context(), paths, export.Options{
		Encoding:  enc,
		Selection: core.All(),
		Quiet:     options.Quiet,
	})
	return err
}
