package sample

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/TFMV/pqtool/internal/fixtures"
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEdges(t *testing.T) {
	rng := NewRand(1)

	assert.Empty(t, Select(10, 0, rng))
	assert.Empty(t, Select(0, 5, rng))
	assert.Equal(t, []int64{0, 1, 2}, Select(3, 3, rng))
	assert.Equal(t, []int64{0, 1, 2}, Select(3, 100, rng))
}

func TestSelectDistinctSorted(t *testing.T) {
	got := Select(1000, 50, NewRand(7))
	require.Len(t, got, 50)

	seen := make(map[int64]bool)
	for i, pos := range got {
		assert.GreaterOrEqual(t, pos, int64(0))
		assert.Less(t, pos, int64(1000))
		assert.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
		if i > 0 {
			assert.Less(t, got[i-1], pos)
		}
	}
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	assert.Equal(t, Select(500, 20, NewRand(42)), Select(500, 20, NewRand(42)))
}

func TestSelectFairness(t *testing.T) {
	const (
		n      = 20
		k      = 5
		trials = 4000
	)
	rng := NewRand(99)
	counts := make([]int, n)
	for i := 0; i < trials; i++ {
		for _, pos := range Select(n, k, rng) {
			counts[pos]++
		}
	}

	// Each position is expected trials*k/n = 1000 times
	for pos, c := range counts {
		assert.Greater(t, c, 800, "position %d selected too rarely", pos)
		assert.Less(t, c, 1200, "position %d selected too often", pos)
	}
}

func newUsersSampler(t *testing.T, rows int64, seed uint64) (*Sampler, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fixtures.WriteUsers(fs, "users.parquet", 0, rows, fixtures.Options{RowGroupLength: 7}))

	var out bytes.Buffer
	s := NewSampler(readers.NewParquetOpener(fs), readers.NewFooterReader(fs), &out, NewRand(seed), nil)
	s.BatchSize = 4
	return s, &out
}

func TestSampleAllRowsWhenKExceedsCount(t *testing.T) {
	s, out := newUsersSampler(t, 12, 3)

	summary, err := s.Sample(context.Background(), "users.parquet", core.EncodingDefault, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(12), summary.Total)
	assert.Equal(t, int64(12), summary.Emitted)

	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, got, 12)
	assert.Equal(t, `{id: 0, name: "user-0", score: 0}`, got[0])
	assert.Equal(t, `{id: 11, name: "user-11", score: 16.5}`, got[11])
}

func TestSampleZero(t *testing.T) {
	s, out := newUsersSampler(t, 12, 3)

	summary, err := s.Sample(context.Background(), "users.parquet", core.EncodingJSON, 0)
	require.NoError(t, err)
	assert.Zero(t, summary.Emitted)
	assert.Zero(t, out.Len())
}

func TestSampleInFileOrder(t *testing.T) {
	s, out := newUsersSampler(t, 30, 11)

	summary, err := s.Sample(context.Background(), "users.parquet", core.EncodingJSON, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.Emitted)

	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, got, 6)

	// ids are strictly increasing because rows come out in file order
	prev := int64(-1)
	for _, line := range got {
		var row struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		assert.Greater(t, row.ID, prev)
		prev = row.ID
	}
}

func TestSampleCSVUnsupported(t *testing.T) {
	s, _ := newUsersSampler(t, 5, 1)

	_, err := s.Sample(context.Background(), "users.parquet", core.EncodingCSV, 2)
	assert.ErrorIs(t, err, core.ErrUnsupportedOperation)
}

func TestSampleWithMemoryDataset(t *testing.T) {
	schema := fixtures.UsersSchema(nil)
	rec := fixtures.Users(memory.NewGoAllocator(), schema, 0, 8)
	defer rec.Release()

	opener := readers.NewMemoryOpener()
	opener.Add("mem", schema, rec)
	defer opener.Release()

	var out bytes.Buffer
	s := NewSampler(opener, opener, &out, NewRand(5), nil)
	summary, err := s.Sample(context.Background(), "mem", core.EncodingDefault, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Emitted)
	assert.Equal(t, []string{"mem"}, opener.Opened)
}
