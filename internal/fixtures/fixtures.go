// Package fixtures builds deterministic arrow records and Parquet files used by
// tests and by the sample data generator.
package fixtures

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/spf13/afero"
)

// UsersSchema is a flat schema: id, name (nullable), score.
func UsersSchema(metadata map[string]string) *arrow.Schema {
	fields := []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}
	if len(metadata) == 0 {
		return arrow.NewSchema(fields, nil)
	}
	md := arrow.MetadataFrom(metadata)
	return arrow.NewSchema(fields, &md)
}

// Users builds n rows starting at id start. Every fifth row has a null name.
func Users(alloc memory.Allocator, schema *arrow.Schema, start, n int64) arrow.Record {
	b := array.NewRecordBuilder(alloc, schema)
	defer b.Release()

	ids := b.Field(0).(*array.Int64Builder)
	names := b.Field(1).(*array.StringBuilder)
	scores := b.Field(2).(*array.Float64Builder)
	for id := start; id < start+n; id++ {
		ids.Append(id)
		if id%5 == 4 {
			names.AppendNull()
		} else {
			names.Append(UserName(id))
		}
		scores.Append(float64(id) * 1.5)
	}
	return b.NewRecord()
}

// UserName is the name stored for a user id.
func UserName(id int64) string {
	return fmt.Sprintf("user-%d", id)
}

// NestedSchema has a list, a struct and a map column.
func NestedSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		{Name: "address", Type: arrow.StructOf(
			arrow.Field{Name: "city", Type: arrow.BinaryTypes.String, Nullable: true},
			arrow.Field{Name: "zip", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		), Nullable: true},
		{Name: "attrs", Type: arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64), Nullable: true},
	}, nil)
}

// Nested builds two rows: one fully populated and one with null nested values.
func Nested(alloc memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(alloc, NestedSchema())
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)

	tags := b.Field(1).(*array.ListBuilder)
	tagValues := tags.ValueBuilder().(*array.StringBuilder)
	tags.Append(true)
	tagValues.Append("a")
	tagValues.Append("b")
	tags.AppendNull()

	address := b.Field(2).(*array.StructBuilder)
	address.Append(true)
	address.FieldBuilder(0).(*array.StringBuilder).Append("Oslo")
	address.FieldBuilder(1).(*array.Int32Builder).Append(150)
	address.AppendNull()

	attrs := b.Field(3).(*array.MapBuilder)
	attrs.Append(true)
	attrs.KeyBuilder().(*array.StringBuilder).Append("k")
	attrs.ItemBuilder().(*array.Int64Builder).Append(7)
	attrs.AppendNull()

	return b.NewRecord()
}

// Options controls how a fixture file is written.
type Options struct {
	// RowGroupLength caps the rows per row group. Zero keeps the writer default.
	RowGroupLength int64

	// StoreSchema embeds the arrow schema in the footer key/value metadata.
	StoreSchema bool
}

// WriteRecords writes recs to a new Parquet file at path on fs.
func WriteRecords(fs afero.Fs, path string, schema *arrow.Schema, opts Options, recs ...arrow.Record) error {
	out, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	props := []parquet.WriterProperty{parquet.WithCompression(compress.Codecs.Snappy)}
	if opts.RowGroupLength > 0 {
		props = append(props, parquet.WithMaxRowGroupLength(opts.RowGroupLength))
	}

	arrowProps := pqarrow.DefaultWriterProps()
	if opts.StoreSchema {
		arrowProps = pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	}

	writer, err := pqarrow.NewFileWriter(schema, out, parquet.NewWriterProperties(props...), arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for i, rec := range recs {
		if err := writer.Write(rec); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write batch %d: %w", i, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

// WriteUsers writes rows users with ids [start, start+rows) to path.
func WriteUsers(fs afero.Fs, path string, start, rows int64, opts Options) error {
	schema := UsersSchema(nil)
	rec := Users(memory.NewGoAllocator(), schema, start, rows)
	defer rec.Release()
	return WriteRecords(fs, path, schema, opts, rec)
}
