package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFields() []arrow.Field {
	return []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}
}

func TestCompareStrict(t *testing.T) {
	seed := arrow.NewSchema(baseFields(), nil)

	md := arrow.NewMetadata([]string{"origin"}, []string{"a.parquet"})
	withMetadata := arrow.NewSchema(baseFields(), &md)
	assert.NoError(t, CompareStrict(seed, withMetadata), "metadata must not affect comparison")

	tests := []struct {
		name   string
		fields []arrow.Field
		want   string
	}{
		{
			name:   "field count",
			fields: baseFields()[:1],
			want:   "field count mismatch",
		},
		{
			name: "field name",
			fields: []arrow.Field{
				{Name: "id", Type: arrow.PrimitiveTypes.Int64},
				{Name: "title", Type: arrow.BinaryTypes.String, Nullable: true},
			},
			want: "field name mismatch at index 1",
		},
		{
			name: "field type",
			fields: []arrow.Field{
				{Name: "id", Type: arrow.PrimitiveTypes.Int32},
				{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
			},
			want: "field type mismatch for 'id'",
		},
		{
			name: "nullability",
			fields: []arrow.Field{
				{Name: "id", Type: arrow.PrimitiveTypes.Int64},
				{Name: "name", Type: arrow.BinaryTypes.String, Nullable: false},
			},
			want: "field nullability mismatch for 'name'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareStrict(seed, arrow.NewSchema(tt.fields, nil))
			require.Error(t, err)

			var mismatch *MismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStripMetadata(t *testing.T) {
	md := arrow.NewMetadata([]string{"k"}, []string{"v"})
	schema := arrow.NewSchema(baseFields(), &md)

	stripped := StripMetadata(schema)
	assert.Equal(t, 0, stripped.Metadata().Len())
	assert.Equal(t, schema.NumFields(), stripped.NumFields())
	assert.True(t, stripped.Equal(arrow.NewSchema(baseFields(), nil)))
}

func TestSchemaToString(t *testing.T) {
	md := arrow.NewMetadata([]string{"writer"}, []string{"pqtool"})
	out := SchemaToString(arrow.NewSchema(baseFields(), &md))

	assert.Contains(t, out, "id: int64 NOT NULL")
	assert.Contains(t, out, "name: utf8 NULL")
	assert.Contains(t, out, "writer: pqtool")
}
