package writers

import (
	"context"
	"testing"

	"github.com/TFMV/pqtool/internal/fixtures"
	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParquetWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()

	schema := fixtures.UsersSchema(nil)
	first := fixtures.Users(memory.NewGoAllocator(), schema, 0, 5)
	defer first.Release()

	// records carrying schema metadata are rebound to the writer schema
	tagged := fixtures.UsersSchema(map[string]string{"origin": "b"})
	second := fixtures.Users(memory.NewGoAllocator(), tagged, 5, 3)
	defer second.Release()

	w, err := NewParquetWriterFactory(fs).Create(ctx, "out.parquet", schema)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, first))
	require.NoError(t, w.Write(ctx, second))
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "closing twice is harmless")

	assert.Error(t, w.Write(ctx, first), "write after close must fail")

	md, err := readers.NewFooterReader(fs).ReadMetadata(ctx, "out.parquet")
	require.NoError(t, err)
	assert.Equal(t, int64(8), md.RowCount())
	assert.Empty(t, md.KeyValue)
}

func TestParquetWriterExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out.parquet", []byte("original"), 0o644))

	_, err := NewParquetWriterFactory(fs).Create(context.Background(), "out.parquet", fixtures.UsersSchema(nil))
	assert.ErrorIs(t, err, core.ErrFileExists)

	data, err := afero.ReadFile(fs, "out.parquet")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestParquetWriterEmptyPath(t *testing.T) {
	_, err := NewParquetWriterFactory(afero.NewMemMapFs()).Create(context.Background(), "", fixtures.UsersSchema(nil))
	assert.Error(t, err)
}
