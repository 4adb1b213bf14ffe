package core

// FileMetadata is the footer metadata of one Parquet file.
type FileMetadata struct {
	Path      string
	Version   int32
	CreatedBy string
	KeyValue  []KeyValue
	RowGroups []RowGroupMetadata
	Columns   []ColumnMetadata

	// Message is the schema rendered in Parquet message syntax.
	Message string
}

// KeyValue is one application-defined footer metadata entry.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RowGroupMetadata holds the size figures of a single row group.
type RowGroupMetadata struct {
	NumRows        int64 `json:"num_rows"`
	TotalByteSize  int64 `json:"total_byte_size"`
	CompressedSize int64 `json:"compressed_size"`
	NumColumns     int   `json:"num_columns"`
}

// ColumnMetadata describes a leaf column of the schema.
type ColumnMetadata struct {
	Name       string `json:"name"`
	Physical   string `json:"physical_type"`
	Logical    string `json:"logical_type,omitempty"`
	Repetition string `json:"repetition"`
}

// RowCount returns the total number of rows across row groups.
func (m *FileMetadata) RowCount() int64 {
	var n int64
	for _, rg := range m.RowGroups {
		n += rg.NumRows
	}
	return n
}

// UncompressedSize returns the total uncompressed byte size across row groups.
func (m *FileMetadata) UncompressedSize() int64 {
	var n int64
	for _, rg := range m.RowGroups {
		n += rg.TotalByteSize
	}
	return n
}

// CompressedSize returns the total compressed byte size across row groups.
func (m *FileMetadata) CompressedSize() int64 {
	var n int64
	for _, rg := range m.RowGroups {
		n += rg.CompressedSize
	}
	return n
}
