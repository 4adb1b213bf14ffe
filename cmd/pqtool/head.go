package main

import (
	"strconv"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/export"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/spf13/cobra"
)

// HeadOptions represents the options for the head command.
type HeadOptions struct {
	Locations []string
	Records   string
	Format    core.FormatFlags
	Quiet     bool
}

func newHeadCommand(a *app) *cobra.Command {
	options := &HeadOptions{}

	cmd := &cobra.Command{
		Use:   "head [flags] LOCATION...",
		Short: "Prints the first n records of Parquet file(s)",
		Long: `The head command prints the first n records of each file.

The limit applies to every file separately. Headered CSV cannot be limited,
use --csv --no-header instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Locations = args
			if !cmd.Flags().Changed("records") {
				options.Records = strconv.Itoa(a.cfg.Head.Records)
			}
			if !cmd.Flags().Changed("quiet") {
				options.Quiet = a.cfg.Quiet
			}
			return runHead(cmd, a, options)
		},
	}

	encodingFlags(cmd, &options.Format, true)
	cmd.Flags().StringVarP(&options.Records, "records", "n", "5", "The number of records to show")
	cmd.Flags().BoolVarP(&options.Quiet, "quiet", "q", false, "Do not print the per-file banner")

	return cmd
}

func runHead(cmd *cobra.Command, a *app, options *HeadOptions) error {
	n, err := core.ParseCount(options.Records)
	if err != nil {
		return err
	}

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
		Selection: core.First(n),
		Quiet:     options.Quiet,
	})
	return err
}
