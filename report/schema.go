package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// SchemaMode selects how a schema report is printed.
type SchemaMode int

const (
	// SchemaText prints the file metadata and the schema message.
	SchemaText SchemaMode = iota

	// SchemaDetailed also prints every row group.
	SchemaDetailed

	// SchemaColumns prints the leaf columns as a table.
	SchemaColumns

	// SchemaJSON prints one JSON object per file.
	SchemaJSON
)

// SchemaDocument is the JSON form of a schema report.
type SchemaDocument struct {
	Version   int32                 `json:"version"`
	NumRows   int64                 `json:"num_rows"`
	CreatedBy string                `json:"created_by,omitempty"`
	Metadata  map[string]string     `json:"metadata,omitempty"`
	Columns   []core.ColumnMetadata `json:"columns"`
	Message   string                `json:"message"`
}

// NewSchemaDocument converts footer metadata into its JSON document.
func NewSchemaDocument(md *core.FileMetadata) SchemaDocument {
	doc := SchemaDocument{
		Version:   md.Version,
		NumRows:   md.RowCount(),
		CreatedBy: md.CreatedBy,
		Columns:   md.Columns,
		Message:   md.Message,
	}
	if len(md.KeyValue) > 0 {
		doc.Metadata = make(map[string]string, len(md.KeyValue))
		for _, kv := range md.KeyValue {
			doc.Metadata[kv.Key] = kv.Value
		}
	}
	if doc.Columns == nil {
		doc.Columns = []core.ColumnMetadata{}
	}
	return doc
}

// WriteSchema prints the schema report of one file in the given mode.
func WriteSchema(w io.Writer, md *core.FileMetadata, mode SchemaMode) error {
	if mode == SchemaJSON {
		data, err := json.Marshal(NewSchemaDocument(md))
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Metadata for file: %s\n\n", md.Path)

	if mode == SchemaColumns {
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		writeColumnTable(w, md.Columns)
		return nil
	}

	fmt.Fprintf(&b, "version: %d\n", md.Version)
	fmt.Fprintf(&b, "num of rows: %d\n", md.RowCount())
	if md.CreatedBy != "" {
		fmt.Fprintf(&b, "created by: %s\n", md.CreatedBy)
	}
	if len(md.KeyValue) > 0 {
		b.WriteString("metadata:\n")
		for _, kv := range md.KeyValue {
			fmt.Fprintf(&b, "  %s: %s\n", kv.Key, kv.Value)
		}
	}

	if mode == SchemaDetailed {
		fmt.Fprintf(&b, "num of row groups: %d\n", len(md.RowGroups))
		for i, rg := range md.RowGroups {
			fmt.Fprintf(&b, "\nrow group %d:\n", i)
			fmt.Fprintf(&b, "  total byte size: %d\n", rg.TotalByteSize)
			fmt.Fprintf(&b, "  compressed size: %d\n", rg.CompressedSize)
			fmt.Fprintf(&b, "  num of rows: %d\n", rg.NumRows)
			fmt.Fprintf(&b, "  num of columns: %d\n", rg.NumColumns)
		}
		b.WriteString("\n")
	}

	b.WriteString(md.Message)
	if !strings.HasSuffix(md.Message, "\n") {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeColumnTable(w io.Writer, columns []core.ColumnMetadata) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Physical Type", "Logical Type", "Repetition"})
	for _, c := range columns {
		table.Append([]string{c.Name, c.Physical, c.Logical, c.Repetition})
	}
	table.Render()
}
