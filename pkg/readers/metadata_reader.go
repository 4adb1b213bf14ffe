package readers

import (
	"context"
	"strings"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/segmentio/parquet-go"
	"github.com/spf13/afero"
)

// FooterReader reads Parquet footers without touching any page data.
type FooterReader struct {
	Fs afero.Fs
}

// NewFooterReader creates a footer reader over fs.
func NewFooterReader(fs afero.Fs) *FooterReader {
	return &FooterReader{Fs: fs}
}

// ReadMetadata opens path and maps its footer into core.FileMetadata.
func (r *FooterReader) ReadMetadata(ctx context.Context, path string) (*core.FileMetadata, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := r.Fs.Open(path)
	if err != nil {
		return nil, core.CouldNotOpen(path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, core.CouldNotOpen(path, err)
	}

	pqFile, err := parquet.OpenFile(f, stat.Size(),
		parquet.SkipPageIndex(true),
		parquet.SkipBloomFilters(true),
	)
	if err != nil {
		return nil, core.ColumnarFormat(path, err)
	}

	footer := pqFile.Metadata()
	md := &core.FileMetadata{
		Path:      path,
		Version:   footer.Version,
		CreatedBy: footer.CreatedBy,
		Message:   pqFile.Schema().String(),
	}

	for _, kv := range footer.KeyValueMetadata {
		md.KeyValue = append(md.KeyValue, core.KeyValue{Key: kv.Key, Value: kv.Value})
	}

	for _, rg := range footer.RowGroups {
		var compressed int64
		for _, col := range rg.Columns {
			compressed += col.MetaData.TotalCompressedSize
		}
		md.RowGroups = append(md.RowGroups, core.RowGroupMetadata{
			NumRows:        rg.NumRows,
			TotalByteSize:  rg.TotalByteSize,
			CompressedSize: compressed,
			NumColumns:     len(rg.Columns),
		})
	}

	for _, field := range pqFile.Schema().Fields() {
		md.Columns = append(md.Columns, leafColumns(field, "")...)
	}

	return md, nil
}

// leafColumns flattens a schema field into its leaf columns using dot-joined names.
func leafColumns(field parquet.Field, prefix string) []core.ColumnMetadata {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}

	if !field.Leaf() {
		var cols []core.ColumnMetadata
		for _, child := range field.Fields() {
			cols = append(cols, leafColumns(child, name)...)
		}
		return cols
	}

	col := core.ColumnMetadata{
		Name:       name,
		Physical:   physicalType(field),
		Repetition: repetition(field),
	}
	if logical := field.Type().String(); !strings.EqualFold(logical, col.Physical) {
		col.Logical = logical
	}
	return []core.ColumnMetadata{col}
}

func physicalType(field parquet.Field) string {
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

func repetition(field parquet.Field) string {
	switch {
	case field.Repeated():
		return "REPEATED"
	case field.Optional():
		return "OPTIONAL"
	default:
		return "REQUIRED"
	}
}
