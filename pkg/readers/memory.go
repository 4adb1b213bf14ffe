package readers

import (
	"context"
	"io"
	"os"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
)

// MemoryOpener serves in-memory datasets by path. It implements both
// core.Opener and core.MetadataReader and is used to drive the pipelines
// without Parquet files.
type MemoryOpener struct {
	Datasets map[string]*MemoryDataset

	// Opened records every path passed to Open, in call order.
	Opened []string
}

// NewMemoryOpener creates an empty MemoryOpener.
func NewMemoryOpener() *MemoryOpener {
	return &MemoryOpener{Datasets: make(map[string]*MemoryDataset)}
}

// Add registers records under path. The opener retains the records.
func (o *MemoryOpener) Add(path string, schema *arrow.Schema, records ...arrow.Record) {
	for _, rec := range records {
		rec.Retain()
	}
	o.Datasets[path] = &MemoryDataset{path: path, schema: schema, records: records}
}

// Open returns the dataset registered under path.
func (o *MemoryOpener) Open(_ context.Context, path string) (core.Dataset, error) {
	o.Opened = append(o.Opened, path)
	ds, ok := o.Datasets[path]
	if !ok {
		return nil, core.CouldNotOpen(path, os.ErrNotExist)
	}
	return ds, nil
}

// ReadMetadata reports a single row group holding the dataset's rows.
func (o *MemoryOpener) ReadMetadata(_ context.Context, path string) (*core.FileMetadata, error) {
	ds, ok := o.Datasets[path]
	if !ok {
		return nil, core.CouldNotOpen(path, os.ErrNotExist)
	}
	return &core.FileMetadata{
		Path:      path,
		RowGroups: []core.RowGroupMetadata{{NumRows: ds.NumRows()}},
	}, nil
}

// Release drops the opener's references to all registered records.
func (o *MemoryOpener) Release() {
	for _, ds := range o.Datasets {
		for _, rec := range ds.records {
			rec.Release()
		}
		ds.records = nil
	}
}

// MemoryDataset is a dataset backed by a fixed list of records.
type MemoryDataset struct {
	path    string
	schema  *arrow.Schema
	records []arrow.Record
}

func (d *MemoryDataset) Path() string          { return d.path }
func (d *MemoryDataset) Schema() *arrow.Schema { return d.schema }
func (d *MemoryDataset) Close() error          { return nil }

// NumRows returns the total rows over all records.
func (d *MemoryDataset) NumRows() int64 {
	var n int64
	for _, rec := range d.records {
		n += rec.NumRows()
	}
	return n
}

// Batches yields the stored records, split so that no batch exceeds batchSize rows.
func (d *MemoryDataset) Batches(_ context.Context, batchSize int64) (core.DatasetReader, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MemoryReader{schema: d.schema, records: d.records, batchSize: batchSize}, nil
}

// MemoryReader walks a MemoryDataset's records.
type MemoryReader struct {
	schema    *arrow.Schema
	records   []arrow.Record
	batchSize int64
	current   arrow.Record
	rec       int
	offset    int64
}

// Read returns the next slice of at most batchSize rows.
func (r *MemoryReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.releaseCurrent()
	for r.rec < len(r.records) && r.offset >= r.records[r.rec].NumRows() {
		r.rec++
		r.offset = 0
	}
	if r.rec >= len(r.records) {
		return nil, io.EOF
	}

	src := r.records[r.rec]
	end := min(r.offset+r.batchSize, src.NumRows())
	r.current = src.NewSlice(r.offset, end)
	r.offset = end
	return r.current, nil
}

func (r *MemoryReader) Schema() *arrow.Schema {
	return r.schema
}

// Close releases the last slice handed out.
func (r *MemoryReader) Close() error {
	r.releaseCurrent()
	return nil
}

func (r *MemoryReader) releaseCurrent() {
	if r.current != nil {
		r.current.Release()
		r.current = nil
	}
}
