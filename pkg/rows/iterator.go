package rows

import (
	"context"
	"io"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
)

// Iterator derives a lazy row stream from a batch reader. Only the current
// batch is held in memory.
type Iterator struct {
	reader core.DatasetReader
	batch  arrow.Record
	next   int
	pos    int64
}

// NewIterator wraps r. The iterator does not close r.
func NewIterator(r core.DatasetReader) *Iterator {
	return &Iterator{reader: r}
}

// Next returns the next row, or io.EOF once the reader is exhausted.
func (it *Iterator) Next(ctx context.Context) (Row, error) {
	for it.batch == nil || it.next >= int(it.batch.NumRows()) {
		rec, err := it.reader.Read(ctx)
		if err != nil {
			it.batch = nil
			return nil, err
		}
		it.batch = rec
		it.next = 0
	}

	row := FromRecord(it.batch, it.next)
	it.next++
	it.pos++
	return row, nil
}

// Position returns the number of rows returned so far.
func (it *Iterator) Position() int64 {
	return it.pos
}

// Collect drains the iterator into a slice. Intended for small inputs.
func Collect(ctx context.Context, it *Iterator) ([]Row, error) {
	var out []Row
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
}
