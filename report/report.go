// Package report prints footer-only facts about Parquet files: row counts,
// byte sizes and schemas. Nothing here decodes row data.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/goccy/go-json"
)

// -----------------------------
// Row counts
// -----------------------------

// RowCountEntry is the row count of one file.
type RowCountEntry struct {
	Path string `json:"path"`
	Rows int64  `json:"rows"`
}

// RowCounts reads the footer of each path in order.
func RowCounts(ctx context.Context, md core.MetadataReader, paths []string) ([]RowCountEntry, error) {
	entries := make([]RowCountEntry, 0, len(paths))
	for _, p := range paths {
		meta, err := md.ReadMetadata(ctx, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, RowCountEntry{Path: p, Rows: meta.RowCount()})
	}
	return entries, nil
}

// WriteRowCounts prints one "File Name: <path>, <n> rows" line per entry.
func WriteRowCounts(w io.Writer, entries []RowCountEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "File Name: %s, %d rows\n", e.Path, e.Rows); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------
// Sizes
// -----------------------------

// SizeEntry holds the byte sizes of one file.
type SizeEntry struct {
	Path         string `json:"path"`
	Uncompressed int64  `json:"uncompressed"`
	Compressed   int64  `json:"compressed"`
}

// Sizes reads the footer of each path in order.
func Sizes(ctx context.Context, md core.MetadataReader, paths []string) ([]SizeEntry, error) {
	entries := make([]SizeEntry, 0, len(paths))
	for _, p := range paths {
		meta, err := md.ReadMetadata(ctx, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, SizeEntry{
			Path:         p,
			Uncompressed: meta.UncompressedSize(),
			Compressed:   meta.CompressedSize(),
		})
	}
	return entries, nil
}

// SizeOptions selects which figure is printed and how.
type SizeOptions struct {
	Compressed bool
	Pretty     bool
}

// WriteSizes prints the "Size in bytes:" block with one section per file.
func WriteSizes(w io.Writer, entries []SizeEntry, opts SizeOptions) error {
	if _, err := fmt.Fprintln(w, "Size in bytes:"); err != nil {
		return err
	}

	for _, e := range entries {
		label, size := "Uncompressed size", e.Uncompressed
		if opts.Compressed {
			label, size = "compressed size", e.Compressed
		}

		value := fmt.Sprint(size)
		if opts.Pretty {
			value = PrettySize(size)
		}

		if _, err := fmt.Fprintf(w, "\nFile Name: %s\n%s: %s\n\n", e.Path, label, value); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------
// JSON
// -----------------------------

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
