// Package merge concatenates Parquet files into a new file.
package merge

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/resolve"
	"github.com/TFMV/pqtool/pkg/schema"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultBatchSize is the batch size used while reading inputs.
const DefaultBatchSize = 1024

// ParquetData is one input read fully into memory.
type ParquetData struct {
	Schema  *arrow.Schema
	Batches []arrow.Record
	Rows    int64
}

// Release drops the retained batches.
func (d *ParquetData) Release() {
	for _, rec := range d.Batches {
		rec.Release()
	}
	d.Batches = nil
}

// Summary reports a merge.
type Summary struct {
	Inputs int
	Rows   int64
}

// ProgressFunc is called before input i of n is read.
type ProgressFunc func(i, n int, path string)

// Merger writes the concatenation of its inputs to one output file.
type Merger struct {
	Fs        afero.Fs
	Opener    core.Opener
	Writers   core.WriterFactory
	BatchSize int64
	Logger    *zap.Logger
	Progress  ProgressFunc
}

// NewMerger creates a merger over fs.
func NewMerger(fs afero.Fs, opener core.Opener, writers core.WriterFactory, logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{
		Fs:        fs,
		Opener:    opener,
		Writers:   writers,
		BatchSize: DefaultBatchSize,
		Logger:    logger,
	}
}

// Merge writes the rows of inputs, in order, to a new file at output.
// The output must not exist and every input must share the first input's
// fields. Both are checked before the output is created. A failure after
// that point leaves a partial output file behind.
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) (Summary, error) {
	var summary Summary

	if len(inputs) == 0 {
		return summary, errors.New("merge needs at least one input")
	}

	exists, err := afero.Exists(m.Fs, output)
	if err != nil {
		return summary, core.CouldNotOpen(output, err)
	}
	if exists {
		return summary, core.FileExists(output)
	}
	for _, in := range inputs {
		if err := resolve.CheckExists(m.Fs, in); err != nil {
			return summary, err
		}
	}

	seedSchema, err := m.checkSchemas(ctx, inputs)
	if err != nil {
		return summary, err
	}

	// The merged file carries no key/value metadata from any input
	outSchema := schema.StripMetadata(seedSchema)
	writer, err := m.Writers.Create(ctx, output, outSchema)
	if err != nil {
		return summary, err
	}

	for i, in := range inputs {
		if m.Progress != nil {
			m.Progress(i, len(inputs), in)
		}

		n, err := m.appendInput(ctx, writer, in)
		if err != nil {
			writer.Close()
			return summary, err
		}
		summary.Inputs++
		summary.Rows += n

		m.Logger.Debug("Merged input",
			zap.String("path", in),
			zap.Int64("rows", n),
			zap.Int("index", i))
	}

	if err := writer.Close(); err != nil {
		return summary, fmt.Errorf("failed to finalize %s: %w", output, err)
	}

	m.Logger.Info("Merge complete",
		zap.String("output", output),
		zap.Int("inputs", summary.Inputs),
		zap.Int64("rows", summary.Rows))

	return summary, nil
}

// checkSchemas opens each input once and compares it with the first.
func (m *Merger) checkSchemas(ctx context.Context, inputs []string) (*arrow.Schema, error) {
	var seed *arrow.Schema
	for _, in := range inputs {
		ds, err := m.Opener.Open(ctx, in)
		if err != nil {
			return nil, err
		}
		current := ds.Schema()
		ds.Close()

		if seed == nil {
			seed = current
			continue
		}
		if err := schema.CompareStrict(seed, current); err != nil {
			return nil, core.SchemaMismatch(in, err)
		}
	}
	return seed, nil
}

func (m *Merger) appendInput(ctx context.Context, writer core.DatasetWriter, path string) (int64, error) {
	data, err := m.Read(ctx, path)
	if err != nil {
		return 0, err
	}
	defer data.Release()

	for _, rec := range data.Batches {
		if err := writer.Write(ctx, rec); err != nil {
			return 0, core.ColumnarFormat(path, err)
		}
	}
	return data.Rows, nil
}

// Read loads every batch of path into memory. The input is closed before
// Read returns.
func (m *Merger) Read(ctx context.Context, path string) (*ParquetData, error) {
	ds, err := m.Opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	batchSize := m.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	reader, err := ds.Batches(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := &ParquetData{Schema: ds.Schema()}
	for {
		rec, err := reader.Read(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			data.Release()
			return nil, err
		}
		rec.Retain()
		data.Batches = append(data.Batches, rec)
		data.Rows += rec.NumRows()
	}
	return data, nil
}
