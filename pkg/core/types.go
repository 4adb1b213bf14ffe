// Package core provides the core types and interfaces for the pqtool Parquet inspector.
package core

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// DatasetReader defines an interface for reading record batches from a dataset.
type DatasetReader interface {
	// Read returns a record batch and an error if any.
	// Returns io.EOF when there are no more batches.
	// The record is only valid until the next call to Read unless retained.
	Read(ctx context.Context) (arrow.Record, error)

	// Schema returns the schema of the dataset.
	Schema() *arrow.Schema

	// Close closes the reader and releases resources.
	Close() error
}

// Dataset is an opened columnar file.
type Dataset interface {
	// Path returns the location the dataset was opened from.
	Path() string

	// Schema returns the arrow schema of the dataset, including any metadata.
	Schema() *arrow.Schema

	// NumRows returns the row count recorded in the file footer.
	NumRows() int64

	// Batches returns a fresh, finite reader over the dataset's record batches.
	// Each call starts again from the first row.
	Batches(ctx context.Context, batchSize int64) (DatasetReader, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens datasets by path.
type Opener interface {
	// Open returns CouldNotOpenFile when the path cannot be opened and
	// ColumnarFormat when its content cannot be decoded.
	Open(ctx context.Context, path string) (Dataset, error)
}

// MetadataReader reads footer metadata without decoding any row data.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, path string) (*FileMetadata, error)
}

// DatasetWriter defines an interface for writing data to various destinations.
type DatasetWriter interface {
	// Write writes a record to the destination.
	Write(ctx context.Context, record arrow.Record) error

	// Close closes the writer and flushes any pending data.
	Close() error
}

// WriterFactory creates dataset writers for new output files.
type WriterFactory interface {
	// Create must fail with FileExists if path is already present.
	Create(ctx context.Context, path string, schema *arrow.Schema) (DatasetWriter, error)
}
