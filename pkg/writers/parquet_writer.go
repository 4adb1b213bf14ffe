package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/spf13/afero"
)

// ParquetWriterFactory creates Parquet files on a filesystem.
type ParquetWriterFactory struct {
	Fs afero.Fs
}

// NewParquetWriterFactory creates a factory writing to fs.
func NewParquetWriterFactory(fs afero.Fs) *ParquetWriterFactory {
	return &ParquetWriterFactory{Fs: fs}
}

// Create creates path exclusively and opens a Parquet writer for schema.
func (f *ParquetWriterFactory) Create(ctx context.Context, path string, schema *arrow.Schema) (core.DatasetWriter, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if path == "" {
		return nil, errors.New("path is required for Parquet writer")
	}

	out, err := f.Fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, core.FileExists(path)
		}
		return nil, core.CouldNotOpen(path, err)
	}

	// Create Parquet writer with SNAPPY compression
	writeProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(false),
	)

	// No stored arrow schema: the footer carries no key/value metadata
	writer, err := pqarrow.NewFileWriter(schema, out, writeProps, pqarrow.DefaultWriterProps())
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	return &ParquetWriter{path: path, writer: writer, file: out, schema: schema}, nil
}

// ParquetWriter implements a writer for Parquet files.
type ParquetWriter struct {
	path   string
	writer *pqarrow.FileWriter
	file   afero.File
	schema *arrow.Schema
}

// Write writes a record to the file. The record's columns are rebound to the
// writer's schema, so field metadata on the source record is not carried over.
func (w *ParquetWriter) Write(ctx context.Context, record arrow.Record) error {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if w.writer == nil {
		return fmt.Errorf("write to closed Parquet writer %s", w.path)
	}

	rebound := array.NewRecord(w.schema, record.Columns(), record.NumRows())
	defer rebound.Release()

	if err := w.writer.Write(rebound); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Close closes the writer and flushes any pending data.
func (w *ParquetWriter) Close() error {
	var err error

	// Close the writer, which writes the footer
	if w.writer != nil {
		if closeErr := w.writer.Close(); closeErr != nil {
			err = closeErr
		}
		w.writer = nil
	}

	// pqarrow may already have closed the sink
	if w.file != nil {
		if closeErr := w.file.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && err == nil {
			err = closeErr
		}
		w.file = nil
	}

	return err
}
