package main

import (
	"fmt"

	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/TFMV/pqtool/pkg/schema"
	"github.com/TFMV/pqtool/report"
	"github.com/spf13/cobra"
)

// -----------------------------
// rowcount
// -----------------------------

// RowCountOptions represents the options for the rowcount command.
type RowCountOptions struct {
	Files []string
	JSON  bool
}

func newRowCountCommand(a *app) *cobra.Command {
	options := &RowCountOptions{}

	cmd := &cobra.Command{
		Use:   "rowcount [flags] FILE...",
		Short: "Prints the count of rows in Parquet file(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Files = args
			return runRowCount(cmd, a, options)
		},
	}

	cmd.Flags().BoolVarP(&options.JSON, "json", "j", false, "Print the counts as JSON")

	return cmd
}

func runRowCount(cmd *cobra.Command, a *app, options *RowCountOptions) error {
	paths, err := a.resolveFiles(options.Files)
	if err != nil {
		return err
	}

	entries, err := report.RowCounts(cmd.Context(), readers.NewFooterReader(a.fs), paths)
	if err != nil {
		return err
	}

	if options.JSON {
		return report.WriteJSON(cmd.OutOrStdout(), entries)
	}
	return report.WriteRowCounts(cmd.OutOrStdout(), entries)
}

// -----------------------------
// size
// -----------------------------

// SizeOptions represents the options for the size command.
type SizeOptions struct {
	Files      []string
	Compressed bool
	Pretty     bool
	JSON       bool
}

func newSizeCommand(a *app) *cobra.Command {
	options := &SizeOptions{}

	cmd := &cobra.Command{
		Use:   "size [flags] FILE...",
		Short: "Prints the size of Parquet file(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Files = args
			return runSize(cmd, a, options)
		},
	}

	cmd.Flags().BoolVarP(&options.Compressed, "compressed", "c", false, "Show compressed size")
	cmd.Flags().BoolVarP(&options.Pretty, "pretty", "p", false, "Show pretty, human readable size")
	cmd.Flags().BoolVarP(&options.JSON, "json", "j", false, "Print both sizes as JSON")
	cmd.MarkFlagsMutuallyExclusive("json", "pretty")

	return cmd
}

func runSize(cmd *cobra.Command, a *app, options *SizeOptions) error {
	paths, err := a.resolveFiles(options.Files)
	if err != nil {
		return err
	}

	entries, err := report.Sizes(cmd.Context(), readers.NewFooterReader(a.fs), paths)
	if err != nil {
		return err
	}

	if options.JSON {
		return report.WriteJSON(cmd.OutOrStdout(), entries)
	}
	return report.WriteSizes(cmd.OutOrStdout(), entries, report.SizeOptions{
		Compressed: options.Compressed,
		Pretty:     options.Pretty,
	})
}

// -----------------------------
// schema
// -----------------------------

// SchemaOptions represents the options for the schema command.
type SchemaOptions struct {
	Files    []string
	Detailed bool
	Columns  bool
	JSON     bool
	Arrow    bool
}

func newSchemaCommand(a *app) *cobra.Command {
	options := &SchemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema [flags] FILE...",
		Short: "Prints the schema of Parquet file(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Files = args
			return runSchema(cmd, a, options)
		},
	}

	cmd.Flags().BoolVarP(&options.Detailed, "detailed", "D", false, "Enable printing full file metadata")
	cmd.Flags().BoolVar(&options.Columns, "columns", false, "Print the leaf columns as a table")
	cmd.Flags().BoolVarP(&options.JSON, "json", "j", false, "Print the schema as JSON")
	cmd.Flags().BoolVar(&options.Arrow, "arrow", false, "Print the Arrow schema the file decodes to")
	cmd.MarkFlagsMutuallyExclusive("detailed", "columns", "json", "arrow")

	return cmd
}

func (o *SchemaOptions) mode() report.SchemaMode {
	switch {
	case o.Detailed:
		return report.SchemaDetailed
	case o.Columns:
		return report.SchemaColumns
	case o.JSON:
		return report.SchemaJSON
	}
	return report.SchemaText
}

func runSchema(cmd *cobra.Command, a *app, options *SchemaOptions) error {
	paths, err := a.resolveFiles(options.Files)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if options.Arrow {
		opener := readers.NewParquetOpener(a.fs)
		for _, p := range paths {
			ds, err := opener.Open(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "File: %s\n%s\n", p, schema.SchemaToString(ds.Schema()))
			ds.Close()
		}
		return nil
	}

	md := readers.NewFooterReader(a.fs)
	for _, p := range paths {
		meta, err := md.ReadMetadata(ctx, p)
		if err != nil {
			return err
		}
		if err := report.WriteSchema(out, meta, options.mode()); err != nil {
			return err
		}
	}
	return nil
}
