package main

import (
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/TFMV/pqtool/pkg/sample"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// SampleOptions represents the options for the sample command.
type SampleOptions struct {
	File    string
	Records string
	Format  core.FormatFlags
	Seed    uint64
}

func newSampleCommand(a *app) *cobra.Command {
	options := &SampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample [flags] FILE",
		Short: "Prints a random sample of records from the Parquet file",
		Long: `The sample command prints n records drawn uniformly at random, without
replacement, in the order they appear in the file. Use --seed to make a run
reproducible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.File = args[0]
			return runSample(cmd, a, options)
		},
	}

	encodingFlags(cmd, &options.Format, false)
	cmd.Flags().StringVarP(&options.Records, "records", "n", "", "The number of records to sample")
	cmd.Flags().Uint64Var(&options.Seed, "seed", 0, "Random seed (0 picks a random one)")
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func runSample(cmd *cobra.Command, a *app, options *SampleOptions) error {
	k, err := core.ParseCount(options.Records)
	if err != nil {
		return err
	}

	enc, err := core.SelectEncoding(options.Format)
	if err != nil {
		return err
	}

	paths, err := a.resolveFiles([]string{options.File})
	if err != nil {
		return err
	}

	sampler := sample.NewSampler(
		readers.NewParquetOpener(a.fs),
		readers.NewFooterReader(a.fs),
		cmd.OutOrStdout(),
		sample.NewRand(options.Seed),
		a.log,
	)

	summary, err := sampler.Sample(cmd.Context(), paths[0], enc, k)
	if err != nil {
		return err
	}

	a.log.Debug("Sample finished",
		zap.String("path", paths[0]),
		zap.Int64("total", summary.Total),
		zap.Int64("emitted", summary.Emitted))
	return nil
}
