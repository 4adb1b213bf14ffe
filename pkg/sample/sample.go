// Package sample prints a uniform random sample of rows in file order.
package sample

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/render"
	"github.com/TFMV/pqtool/pkg/rows"
	"go.uber.org/zap"
)

// DefaultBatchSize is the batch size used while re-reading the file.
const DefaultBatchSize = 1024

// Select picks k distinct positions from [0, n) uniformly at random and
// returns them in ascending order. The whole index domain is shuffled, so
// memory grows with n. For k >= n every position is returned.
func Select(n int64, k int64, rng *rand.Rand) []int64 {
	if n <= 0 || k <= 0 {
		return nil
	}

	domain := make([]int64, n)
	for i := range domain {
		domain[i] = int64(i)
	}
	if k >= n {
		return domain
	}

	rng.Shuffle(len(domain), func(i, j int) {
		domain[i], domain[j] = domain[j], domain[i]
	})

	selected := domain[:k]
	slices.Sort(selected)
	return selected
}

// NewRand returns a PCG source seeded with seed, or a randomly seeded one when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Summary reports a sampling run.
type Summary struct {
	Total   int64
	Emitted int64
}

// Sampler emits a random subset of a file's rows.
type Sampler struct {
	Opener    core.Opener
	Metadata  core.MetadataReader
	Out       io.Writer
	BatchSize int64
	Rand      *rand.Rand
	Logger    *zap.Logger
}

// NewSampler creates a sampler. A nil rng gets a randomly seeded source.
func NewSampler(opener core.Opener, md core.MetadataReader, out io.Writer, rng *rand.Rand, logger *zap.Logger) *Sampler {
	if rng == nil {
		rng = NewRand(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		Opener:    opener,
		Metadata:  md,
		Out:       out,
		BatchSize: DefaultBatchSize,
		Rand:      rng,
		Logger:    logger,
	}
}

// Sample writes k rows of path drawn without replacement, in their original order.
func (s *Sampler) Sample(ctx context.Context, path string, enc core.Encoding, k int64) (Summary, error) {
	var summary Summary

	renderer, err := render.ForEncoding(enc)
	if err != nil {
		return summary, err
	}

	md, err := s.Metadata.ReadMetadata(ctx, path)
	if err != nil {
		return summary, err
	}
	summary.Total = md.RowCount()

	selected := Select(summary.Total, k, s.Rand)
	s.Logger.Debug("Selected sample positions",
		zap.String("path", path),
		zap.Int64("rows", summary.Total),
		zap.Int64("requested", k),
		zap.Int("selected", len(selected)))
	if len(selected) == 0 {
		return summary, nil
	}

	ds, err := s.Opener.Open(ctx, path)
	if err != nil {
		return summary, err
	}
	defer ds.Close()

	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	reader, err := ds.Batches(ctx, batchSize)
	if err != nil {
		return summary, err
	}
	defer reader.Close()

	out := bufio.NewWriter(s.Out)
	defer out.Flush()

	// selected is sorted, so a single cursor tests membership per row
	it := rows.NewIterator(reader)
	cursor := 0
	for cursor < len(selected) {
		pos := it.Position()
		row, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, err
		}
		if pos != selected[cursor] {
			continue
		}
		if err := renderer.Render(out, row); err != nil {
			return summary, err
		}
		cursor++
		summary.Emitted++
	}

	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("failed to write output: %w", err)
	}
	return summary, nil
}
