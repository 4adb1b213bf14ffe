// Package rows decodes arrow record batches into ordered, nested row values.
package rows

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Kind is the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindGroup
	KindMap
)

// Value is one decoded cell. Which fields are set depends on Kind.
type Value struct {
	Kind Kind

	// Scalar
	Raw    any
	Text   string
	Quoted bool

	Items   []Value // List
	Fields  []Field // Group
	Entries []Entry // Map
}

// Field is a named value inside a row or group.
type Field struct {
	Name  string
	Value Value
}

// Entry is a key/value pair of a map value.
type Entry struct {
	Key   Value
	Value Value
}

// Row is a single record with its fields in schema order.
type Row []Field

// FromRecord decodes row i of rec.
func FromRecord(rec arrow.Record, i int) Row {
	row := make(Row, rec.NumCols())
	for j := range row {
		row[j] = Field{Name: rec.ColumnName(j), Value: valueAt(rec.Column(j), i)}
	}
	return row
}

func valueAt(arr arrow.Array, i int) Value {
	if arr.IsNull(i) {
		return Value{Kind: KindNull}
	}

	switch a := arr.(type) {
	case *array.Dictionary:
		return valueAt(a.Dictionary(), a.GetValueIndex(i))
	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		fields := make([]Field, a.NumField())
		for j := range fields {
			fields[j] = Field{Name: st.Field(j).Name, Value: valueAt(a.Field(j), i)}
		}
		return Value{Kind: KindGroup, Fields: fields}
	case *array.Map:
		// Map is also ListLike, so it must be matched first
		start, end := a.ValueOffsets(i)
		keys, items := a.Keys(), a.Items()
		entries := make([]Entry, 0, end-start)
		for k := start; k < end; k++ {
			entries = append(entries, Entry{Key: valueAt(keys, int(k)), Value: valueAt(items, int(k))})
		}
		return Value{Kind: KindMap, Entries: entries}
	case array.ListLike:
		start, end := a.ValueOffsets(i)
		values := a.ListValues()
		items := make([]Value, 0, end-start)
		for k := start; k < end; k++ {
			items = append(items, valueAt(values, int(k)))
		}
		return Value{Kind: KindList, Items: items}
	}

	return Value{
		Kind:   KindScalar,
		Raw:    arr.GetOneForMarshal(i),
		Text:   arr.ValueStr(i),
		Quoted: isTextual(arr.DataType()),
	}
}

func isTextual(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW,
		arrow.BINARY, arrow.LARGE_BINARY, arrow.BINARY_VIEW, arrow.FIXED_SIZE_BINARY:
		return true
	}
	return false
}

// Interface converts the value to plain Go values suitable for JSON encoding.
// Groups and maps become map[string]any; map keys use their text form.
func (v Value) Interface() any {
	switch v.Kind {
	case KindScalar:
		return v.Raw
	case KindList:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	case KindGroup:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = f.Value.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			out[e.Key.keyString()] = e.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

func (v Value) keyString() string {
	if v.Kind == KindScalar {
		return v.Text
	}
	return v.String()
}

// String renders the value in the compact text form used by the default encoding.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindScalar:
		if v.Quoted {
			b.WriteByte('"')
			b.WriteString(v.Text)
			b.WriteByte('"')
		} else {
			b.WriteString(v.Text)
		}
	case KindList:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindGroup:
		writeFields(b, v.Fields)
	case KindMap:
		b.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.write(b)
			b.WriteString(" -> ")
			e.Value.write(b)
		}
		b.WriteByte('}')
	}
}

func writeFields(b *strings.Builder, fields []Field) {
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		f.Value.write(b)
	}
	b.WriteByte('}')
}

// String renders the row as {name: value, ...} in schema order.
func (r Row) String() string {
	var b strings.Builder
	writeFields(&b, r)
	return b.String()
}

// Map returns the row as a map from field name to plain Go value.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r))
	for _, f := range r {
		out[f.Name] = f.Value.Interface()
	}
	return out
}
