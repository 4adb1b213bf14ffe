package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/TFMV/pqtool/pkg/merge"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/TFMV/pqtool/pkg/writers"
	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// MergeOptions represents the options for the merge command.
type MergeOptions struct {
	Inputs   []string
	Output   string
	Progress bool
}

func newMergeCommand(a *app) *cobra.Command {
	options := &MergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge -i INPUT... -o OUTPUT",
		Short: "Merge file(s) into another parquet file",
		Long: `The merge command writes the rows of every input, in order, to a new
Parquet file. All inputs must have the same fields as the first one and the
output must not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, a, options)
		},
	}

	cmd.Flags().StringSliceVarP(&options.Inputs, "input", "i", nil, "Parquet files to read")
	cmd.Flags().StringVarP(&options.Output, "output", "o", "", "Parquet file to write")
	cmd.Flags().BoolVar(&options.Progress, "progress", false, "Show a spinner on an interactive terminal")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runMerge(cmd *cobra.Command, a *app, options *MergeOptions) error {
	merger := merge.NewMerger(a.fs, readers.NewParquetOpener(a.fs), writers.NewParquetWriterFactory(a.fs), a.log)
	merger.BatchSize = a.cfg.MergeBatchSize

	if options.Progress && isTerminal(cmd.ErrOrStderr()) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		merger.Progress = func(i, n int, path string) {
			s.Lock()
			s.Suffix = fmt.Sprintf(" merging %d/%d %s", i+1, n, path)
			s.Unlock()
		}
		s.Start()
		defer s.Stop()
	}

	_, err := merger.Merge(cmd.Context(), options.Inputs, options.Output)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
