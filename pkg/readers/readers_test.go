package readers

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/TFMV/pqtool/internal/fixtures"
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, reader core.DatasetReader) []int64 {
	t.Helper()
	var sizes []int64
	for {
		rec, err := reader.Read(context.Background())
		if errors.Is(err, io.EOF) {
			return sizes
		}
		require.NoError(t, err)
		sizes = append(sizes, rec.NumRows())
	}
}

func TestParquetOpener(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fixtures.WriteUsers(fs, "users.parquet", 0, 10, fixtures.Options{RowGroupLength: 4}))

	ctx := context.Background()
	ds, err := NewParquetOpener(fs).Open(ctx, "users.parquet")
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, "users.parquet", ds.Path())
	assert.Equal(t, int64(10), ds.NumRows())
	assert.Equal(t, []string{"id", "name", "score"}, []string{
		ds.Schema().Field(0).Name, ds.Schema().Field(1).Name, ds.Schema().Field(2).Name,
	})

	// every call to Batches starts a fresh pass
	for pass := 0; pass < 2; pass++ {
		reader, err := ds.Batches(ctx, 3)
		require.NoError(t, err)

		var total int64
		for _, n := range drain(t, reader) {
			assert.LessOrEqual(t, n, int64(3))
			total += n
		}
		assert.Equal(t, int64(10), total)
		require.NoError(t, reader.Close())
	}

	require.NoError(t, ds.Close())
	assert.NoError(t, ds.Close(), "closing twice is harmless")
}

func TestParquetOpenerErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.parquet", []byte("definitely not parquet"), 0o644))

	opener := NewParquetOpener(fs)

	_, err := opener.Open(context.Background(), "missing.parquet")
	assert.ErrorIs(t, err, core.ErrCouldNotOpenFile)

	_, err = opener.Open(context.Background(), "bad.parquet")
	assert.ErrorIs(t, err, core.ErrColumnarFormat)
	assert.Contains(t, err.Error(), "bad.parquet")
}

func TestParquetReaderCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fixtures.WriteUsers(fs, "users.parquet", 0, 5, fixtures.Options{}))

	ds, err := NewParquetOpener(fs).Open(context.Background(), "users.parquet")
	require.NoError(t, err)
	defer ds.Close()

	reader, err := ds.Batches(context.Background(), 2)
	require.NoError(t, err)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFooterReader(t *testing.T) {
	fs := afero.NewMemMapFs()
	withMeta := fixtures.UsersSchema(map[string]string{"origin": "test"})
	rec := fixtures.Users(memory.NewGoAllocator(), withMeta, 0, 10)
	defer rec.Release()
	require.NoError(t, fixtures.WriteRecords(fs, "users.parquet", withMeta, fixtures.Options{RowGroupLength: 4, StoreSchema: true}, rec))

	md, err := NewFooterReader(fs).ReadMetadata(context.Background(), "users.parquet")
	require.NoError(t, err)

	assert.Equal(t, "users.parquet", md.Path)
	assert.Equal(t, int64(10), md.RowCount())
	require.Len(t, md.RowGroups, 3)
	assert.Equal(t, []int64{4, 4, 2}, []int64{md.RowGroups[0].NumRows, md.RowGroups[1].NumRows, md.RowGroups[2].NumRows})
	assert.Positive(t, md.UncompressedSize())
	assert.Positive(t, md.CompressedSize())
	assert.NotEmpty(t, md.CreatedBy)
	assert.Contains(t, md.Message, "id")

	require.Len(t, md.Columns, 3)
	assert.Equal(t, "id", md.Columns[0].Name)
	assert.Equal(t, "INT64", md.Columns[0].Physical)
	assert.Equal(t, "REQUIRED", md.Columns[0].Repetition)
	assert.Equal(t, "name", md.Columns[1].Name)
	assert.Equal(t, "BYTE_ARRAY", md.Columns[1].Physical)
	assert.Equal(t, "OPTIONAL", md.Columns[1].Repetition)
	assert.Equal(t, "DOUBLE", md.Columns[2].Physical)

	var keys []string
	for _, kv := range md.KeyValue {
		keys = append(keys, kv.Key)
	}
	assert.Contains(t, keys, "origin")
}

func TestFooterReaderNestedColumns(t *testing.T) {
	fs := afero.NewMemMapFs()
	rec := fixtures.Nested(memory.NewGoAllocator())
	defer rec.Release()
	require.NoError(t, fixtures.WriteRecords(fs, "nested.parquet", fixtures.NestedSchema(), fixtures.Options{}, rec))

	md, err := NewFooterReader(fs).ReadMetadata(context.Background(), "nested.parquet")
	require.NoError(t, err)
	assert.Equal(t, int64(2), md.RowCount())

	names := make([]string, len(md.Columns))
	for i, c := range md.Columns {
		names[i] = c.Name
	}
	assert.Contains(t, names, "address.city")
	assert.Contains(t, names, "address.zip")
}

func TestFooterReaderErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.parquet", []byte("PAR1 but nothing else"), 0o644))
	reader := NewFooterReader(fs)

	_, err := reader.ReadMetadata(context.Background(), "missing.parquet")
	assert.ErrorIs(t, err, core.ErrCouldNotOpenFile)

	_, err = reader.ReadMetadata(context.Background(), "bad.parquet")
	assert.ErrorIs(t, err, core.ErrColumnarFormat)
}

func TestMemoryOpener(t *testing.T) {
	schema := fixtures.UsersSchema(nil)
	first := fixtures.Users(memory.NewGoAllocator(), schema, 0, 7)
	second := fixtures.Users(memory.NewGoAllocator(), schema, 7, 3)

	opener := NewMemoryOpener()
	opener.Add("mem", schema, first, second)
	first.Release()
	second.Release()
	defer opener.Release()

	ctx := context.Background()
	md, err := opener.ReadMetadata(ctx, "mem")
	require.NoError(t, err)
	assert.Equal(t, int64(10), md.RowCount())

	ds, err := opener.Open(ctx, "mem")
	require.NoError(t, err)
	assert.Equal(t, int64(10), ds.NumRows())

	reader, err := ds.Batches(ctx, 3)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, []int64{3, 3, 1, 3}, drain(t, reader))

	_, err = opener.Open(ctx, "other")
	assert.ErrorIs(t, err, core.ErrCouldNotOpenFile)
	assert.Equal(t, []string{"mem", "other"}, opener.Opened)
}
