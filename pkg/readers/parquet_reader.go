package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/spf13/afero"
)

// DefaultBatchSize is used when a caller asks for a non-positive batch size.
const DefaultBatchSize = 1024

// ParquetOpener opens Parquet files from a filesystem as arrow datasets.
type ParquetOpener struct {
	Fs    afero.Fs
	Alloc memory.Allocator
}

// NewParquetOpener creates an opener over fs using the Go allocator.
func NewParquetOpener(fs afero.Fs) *ParquetOpener {
	return &ParquetOpener{Fs: fs, Alloc: memory.NewGoAllocator()}
}

// Open opens a Parquet file and reads its footer.
func (o *ParquetOpener) Open(ctx context.Context, path string) (core.Dataset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := o.Fs.Open(path)
	if err != nil {
		return nil, core.CouldNotOpen(path, err)
	}

	// afero.File is a ReaderAt and a Seeker
	parquetReader, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, core.ColumnarFormat(path, err)
	}

	alloc := o.Alloc
	if alloc == nil {
		alloc = memory.NewGoAllocator()
	}

	arrowReader, err := pqarrow.NewFileReader(parquetReader, pqarrow.ArrowReadProperties{BatchSize: DefaultBatchSize}, alloc)
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, core.ColumnarFormat(path, err)
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, core.ColumnarFormat(path, fmt.Errorf("failed to get schema: %w", err))
	}

	return &ParquetDataset{
		path:       path,
		schema:     schema,
		fileReader: parquetReader,
		file:       f,
		alloc:      alloc,
	}, nil
}

// ParquetDataset is an open Parquet file.
type ParquetDataset struct {
	path       string
	schema     *arrow.Schema
	fileReader *file.Reader
	file       afero.File
	alloc      memory.Allocator
}

// Path returns the path the dataset was opened from.
func (d *ParquetDataset) Path() string {
	return d.path
}

// Schema returns the arrow schema of the file.
func (d *ParquetDataset) Schema() *arrow.Schema {
	return d.schema
}

// NumRows returns the footer row count.
func (d *ParquetDataset) NumRows() int64 {
	return d.fileReader.NumRows()
}

// Batches starts a new pass over the file in batches of at most batchSize rows.
func (d *ParquetDataset) Batches(ctx context.Context, batchSize int64) (core.DatasetReader, error) {
	if d.fileReader == nil {
		return nil, core.CouldNotOpen(d.path, os.ErrClosed)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// Not parallel: column decoding order stays deterministic
	props := pqarrow.ArrowReadProperties{BatchSize: batchSize}
	arrowReader, err := pqarrow.NewFileReader(d.fileReader, props, d.alloc)
	if err != nil {
		return nil, core.ColumnarFormat(d.path, err)
	}

	recordReader, err := arrowReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, core.ColumnarFormat(d.path, err)
	}

	return &ParquetReader{path: d.path, schema: d.schema, reader: recordReader}, nil
}

// Close closes the reader and the underlying file.
func (d *ParquetDataset) Close() error {
	var err error

	if d.fileReader != nil {
		if err2 := d.fileReader.Close(); err2 != nil && !errors.Is(err2, os.ErrClosed) {
			err = err2
		}
		d.fileReader = nil
	}

	// file.Reader may already have closed it
	if d.file != nil {
		if err2 := d.file.Close(); err2 != nil && !errors.Is(err2, os.ErrClosed) && err == nil {
			err = err2
		}
		d.file = nil
	}

	return err
}

// ParquetReader iterates the record batches of one pass over a Parquet file.
type ParquetReader struct {
	path   string
	schema *arrow.Schema
	reader pqarrow.RecordReader
}

// Read returns the next batch of records.
func (r *ParquetReader) Read(ctx context.Context) (arrow.Record, error) {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if r.reader == nil {
		return nil, io.EOF
	}

	if !r.reader.Next() {
		if err := r.reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, core.ColumnarFormat(r.path, err)
		}
		return nil, io.EOF
	}

	return r.reader.Record(), nil
}

// Schema returns the schema of the dataset.
func (r *ParquetReader) Schema() *arrow.Schema {
	return r.schema
}

// Close releases the record reader.
func (r *ParquetReader) Close() error {
	if r.reader != nil {
		r.reader.Release()
		r.reader = nil
	}
	return nil
}
