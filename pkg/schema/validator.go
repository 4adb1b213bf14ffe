// Package schema compares and describes Apache Arrow schemas.
package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// MismatchError lists every difference found by a strict comparison.
type MismatchError struct {
	Differences []string
}

func (e *MismatchError) Error() string {
	return "strict validation failed: " + strings.Join(e.Differences, "; ")
}

// CompareStrict checks that two schemas have the same fields in the same order
// with identical names, types and nullability. Schema metadata is ignored.
func CompareStrict(seed, other *arrow.Schema) error {
	if seed.NumFields() != other.NumFields() {
		return &MismatchError{Differences: []string{
			fmt.Sprintf("schema field count mismatch: got %d, expected %d", other.NumFields(), seed.NumFields()),
		}}
	}

	var differences []string
	for i := 0; i < seed.NumFields(); i++ {
		expected := seed.Field(i)
		got := other.Field(i)

		if got.Name != expected.Name {
			differences = append(differences, fmt.Sprintf("field name mismatch at index %d: got '%s', expected '%s'",
				i, got.Name, expected.Name))
			continue
		}

		if !arrow.TypeEqual(got.Type, expected.Type) {
			differences = append(differences, fmt.Sprintf("field type mismatch for '%s': got '%s', expected '%s'",
				got.Name, got.Type, expected.Type))
		}

		if got.Nullable != expected.Nullable {
			differences = append(differences, fmt.Sprintf("field nullability mismatch for '%s': got %v, expected %v",
				got.Name, got.Nullable, expected.Nullable))
		}
	}

	if len(differences) > 0 {
		return &MismatchError{Differences: differences}
	}
	return nil
}

// StripMetadata returns a schema with the same fields and no schema-level metadata.
func StripMetadata(schema *arrow.Schema) *arrow.Schema {
	return arrow.NewSchema(schema.Fields(), nil)
}
