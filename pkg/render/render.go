// Package render formats decoded rows for output.
package render

import (
	"fmt"
	"io"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/TFMV/pqtool/pkg/rows"
	"github.com/goccy/go-json"
)

// Renderer writes a single row, including its trailing newline.
type Renderer interface {
	Render(w io.Writer, row rows.Row) error
}

// Text renders rows as {name: value, ...} in schema order.
type Text struct{}

func (Text) Render(w io.Writer, row rows.Row) error {
	_, err := fmt.Fprintln(w, row.String())
	return err
}

// JSON renders each row as one compact JSON object per line. Keys are sorted.
type JSON struct{}

func (JSON) Render(w io.Writer, row rows.Row) error {
	data, err := json.Marshal(row.Map())
	if err != nil {
		return fmt.Errorf("failed to encode row as JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ForEncoding returns the row renderer for enc. CSV encodings are batch
// oriented and have no row renderer.
func ForEncoding(enc core.Encoding) (Renderer, error) {
	switch enc {
	case core.EncodingDefault:
		return Text{}, nil
	case core.EncodingJSON:
		return JSON{}, nil
	default:
		return nil, core.Unsupported("%s output is not row oriented", enc)
	}
}
