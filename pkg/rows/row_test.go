package rows

import (
	"context"
	"testing"

	"github.com/TFMV/pqtool/internal/fixtures"
	"github.com/TFMV/pqtool/pkg/readers"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecordFlat(t *testing.T) {
	schema := fixtures.UsersSchema(nil)
	rec := fixtures.Users(memory.NewGoAllocator(), schema, 3, 2)
	defer rec.Release()

	row := FromRecord(rec, 0)
	assert.Equal(t, `{id: 3, name: "user-3", score: 4.5}`, row.String())

	// id 4 has a null name
	row = FromRecord(rec, 1)
	assert.Equal(t, `{id: 4, name: null, score: 6}`, row.String())
	assert.Equal(t, map[string]any{"id": int64(4), "name": nil, "score": float64(6)}, row.Map())
}

func TestFromRecordNested(t *testing.T) {
	rec := fixtures.Nested(memory.NewGoAllocator())
	defer rec.Release()

	row := FromRecord(rec, 0)
	assert.Equal(t, `{id: 1, tags: ["a", "b"], address: {city: "Oslo", zip: 150}, attrs: {"k" -> 7}}`, row.String())

	m := row.Map()
	assert.Equal(t, []any{"a", "b"}, m["tags"])
	assert.Equal(t, map[string]any{"city": "Oslo", "zip": int32(150)}, m["address"])
	assert.Equal(t, map[string]any{"k": int64(7)}, m["attrs"])

	row = FromRecord(rec, 1)
	assert.Equal(t, `{id: 2, tags: null, address: null, attrs: null}`, row.String())
}

func TestIterator(t *testing.T) {
	ctx := context.Background()
	schema := fixtures.UsersSchema(nil)
	alloc := memory.NewGoAllocator()

	first := fixtures.Users(alloc, schema, 0, 3)
	defer first.Release()
	second := fixtures.Users(alloc, schema, 3, 4)
	defer second.Release()

	opener := readers.NewMemoryOpener()
	opener.Add("users", schema, first, second)
	defer opener.Release()

	ds, err := opener.Open(ctx, "users")
	require.NoError(t, err)

	reader, err := ds.Batches(ctx, 2)
	require.NoError(t, err)
	defer reader.Close()

	it := NewIterator(reader)
	got, err := Collect(ctx, it)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, int64(7), it.Position())

	for i, row := range got {
		assert.Equal(t, int64(i), row[0].Value.Raw, "rows must come out in order")
	}
}
