// Package export streams rows from Parquet files to an output sink.
package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/render"
	"github.com/TFMV/pqtool/pkg/resolve"
	"github.com/TFMV/pqtool/pkg/rows"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultBatchSize is the batch size used for CSV output.
	DefaultBatchSize = 8192

	// EmptyMarker replaces headered CSV output for a file without any text.
	EmptyMarker = "Empty."
)

// Options selects the encoding and rows of an export.
type Options struct {
	Encoding  core.Encoding
	Selection core.Selection

	// Quiet suppresses the per-file banner.
	Quiet bool
}

// Summary reports what an export emitted.
type Summary struct {
	Files int
	Rows  int64
}

// Exporter writes the rows of one file at a time to Out.
type Exporter struct {
	Opener core.Opener

	// Fs is used to check every path exists before any output. Optional.
	Fs afero.Fs

	Out       io.Writer
	Banner    io.Writer
	BatchSize int64
	Logger    *zap.Logger
}

// NewExporter creates an exporter writing rows to out and banners to banner.
func NewExporter(opener core.Opener, fs afero.Fs, out, banner io.Writer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		Opener:    opener,
		Fs:        fs,
		Out:       out,
		Banner:    banner,
		BatchSize: DefaultBatchSize,
		Logger:    logger,
	}
}

// Export writes each path in order. The first failure stops the export;
// output already flushed for earlier files stays in place.
func (e *Exporter) Export(ctx context.Context, paths []string, opts Options) (Summary, error) {
	var summary Summary

	if _, bounded := opts.Selection.Limit(); bounded && opts.Encoding == core.EncodingCSV {
		return summary, core.Unsupported("a row limit cannot be combined with headered CSV output, use --no-header")
	}

	if e.Fs != nil {
		for _, p := range paths {
			if err := resolve.CheckExists(e.Fs, p); err != nil {
				return summary, err
			}
		}
	}

	for _, p := range paths {
		n, err := e.exportFile(ctx, p, opts)
		summary.Rows += n
		if err != nil {
			return summary, err
		}
		summary.Files++
	}

	e.Logger.Debug("Export finished",
		zap.Int("files", summary.Files),
		zap.Int64("rows", summary.Rows),
		zap.Stringer("encoding", opts.Encoding))

	return summary, nil
}

func (e *Exporter) exportFile(ctx context.Context, path string, opts Options) (int64, error) {
	ds, err := e.Opener.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer ds.Close()

	if !opts.Quiet && e.Banner != nil {
		writeBanner(e.Banner, path)
	}

	out := bufio.NewWriter(e.Out)

	var n int64
	switch opts.Encoding {
	case core.EncodingCSV:
		n, err = e.writeCSV(ctx, ds, out)
	case core.EncodingCSVNoHeader:
		n, err = e.writeCSVNoHeader(ctx, ds, out, opts.Selection)
	default:
		n, err = e.writeRows(ctx, ds, out, opts)
	}

	if flushErr := out.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("failed to write output: %w", flushErr)
	}

	e.Logger.Debug("Exported file", zap.String("path", path), zap.Int64("rows", n))
	return n, err
}

func (e *Exporter) writeRows(ctx context.Context, ds core.Dataset, out io.Writer, opts Options) (int64, error) {
	renderer, err := render.ForEncoding(opts.Encoding)
	if err != nil {
		return 0, err
	}

	limit, bounded := opts.Selection.Limit()
	if bounded && limit == 0 {
		return 0, nil
	}

	reader, err := ds.Batches(ctx, e.batchSize())
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	it := rows.NewIterator(reader)
	var n int64
	for !bounded || n < limit {
		row, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		if err := renderer.Render(out, row); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// writeCSV renders the whole file into a side buffer with a single header line.
func (e *Exporter) writeCSV(ctx context.Context, ds core.Dataset, out io.Writer) (int64, error) {
	reader, err := ds.Batches(ctx, e.batchSize())
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf, ds.Schema(), csv.WithHeader(true), csv.WithNullWriter(""))

	n, err := drainCSV(ctx, ds.Path(), reader, w, nil)
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, core.ColumnarFormat(ds.Path(), err)
	}

	if buf.Len() == 0 {
		_, err = fmt.Fprintln(out, EmptyMarker)
	} else {
		_, err = fmt.Fprintln(out, buf.String())
	}
	return n, err
}

// writeCSVNoHeader streams batches, truncating the last one to the row budget.
func (e *Exporter) writeCSVNoHeader(ctx context.Context, ds core.Dataset, out io.Writer, sel core.Selection) (int64, error) {
	limit, bounded := sel.Limit()
	if bounded && limit == 0 {
		return 0, nil
	}

	reader, err := ds.Batches(ctx, e.batchSize())
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	w := csv.NewWriter(out, ds.Schema(), csv.WithHeader(false), csv.WithNullWriter(""))

	var remaining *int64
	if bounded {
		remaining = &limit
	}
	n, err := drainCSV(ctx, ds.Path(), reader, w, remaining)
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, core.ColumnarFormat(ds.Path(), err)
	}
	return n, nil
}

// drainCSV writes batches until the reader is exhausted or remaining hits zero.
// A nil remaining means no limit.
func drainCSV(ctx context.Context, path string, reader core.DatasetReader, w *csv.Writer, remaining *int64) (int64, error) {
	var n int64
	for remaining == nil || *remaining > 0 {
		rec, err := reader.Read(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}

		batch := rec
		if remaining != nil && rec.NumRows() > *remaining {
			batch = rec.NewSlice(0, *remaining)
		}

		err = writeBatch(w, batch)
		written := batch.NumRows()
		if batch != rec {
			batch.Release()
		}
		if err != nil {
			return n, core.ColumnarFormat(path, err)
		}

		n += written
		if remaining != nil {
			*remaining -= written
		}
	}
	return n, nil
}

func writeBatch(w *csv.Writer, batch arrow.Record) error {
	if batch.NumRows() == 0 {
		return nil
	}
	if err := w.Write(batch); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func (e *Exporter) batchSize() int64 {
	if e.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return e.BatchSize
}

// writeBanner prints the "File: <path>" header framed by '#' rules.
func writeBanner(w io.Writer, path string) {
	info := "File: " + path
	rule := strings.Repeat("#", len(info))
	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, info, rule)
}
