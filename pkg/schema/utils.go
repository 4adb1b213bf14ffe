package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// SchemaToString converts an Arrow schema to a human-readable string.
func SchemaToString(schema *arrow.Schema) string {
	var builder strings.Builder
	builder.WriteString("Schema:\n")

	// Add fields
	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)
		nullabilityStr := "NOT NULL"
		if field.Nullable {
			nullabilityStr = "NULL"
		}
		builder.WriteString(fmt.Sprintf("  %s: %s %s\n", field.Name, field.Type, nullabilityStr))
	}

	// Add metadata if present
	metadata := schema.Metadata()
	if metadata.Len() > 0 {
		builder.WriteString("\nMetadata:\n")
		for i, key := range metadata.Keys() {
			value := metadata.Values()[i]
			builder.WriteString(fmt.Sprintf("  %s: %s\n", key, value))
		}
	}

	return builder.String()
}
