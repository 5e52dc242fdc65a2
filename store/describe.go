package store

import (
	"fmt"
	"strings"
)

// Describe renders the schema as plain text for prompting. The rendering is
// deterministic: tables appear in load order, columns in header order, and
// at most SampleRowLimit sample rows per table. This text is the only
// channel through which the translator learns the schema.
func Describe(schema *Schema) string {
	var sb strings.Builder
	sb.WriteString("Available tables and their schemas:\n\n")

	for _, name := range schema.Tables() {
		info, _ := schema.Info(name)

		names := make([]string, len(info.Columns))
		for i, col := range info.Columns {
			names[i] = col.Name
		}

		fmt.Fprintf(&sb, "Table: %s\n", info.Name)
		fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(&sb, "Row count: %d\n", info.RowCount)

		sb.WriteString("Data types:\n")
		for _, col := range info.Columns {
			fmt.Fprintf(&sb, "  - %s: %s\n", col.Name, col.Type)
		}

		fmt.Fprintf(&sb, "Sample data (first %d rows):\n", SampleRowLimit)
		for i, row := range info.Sample {
			pairs := make([]string, len(row))
			for j, v := range row {
				pairs[j] = fmt.Sprintf("%s=%s", info.Columns[j].Name, v)
			}
			fmt.Fprintf(&sb, "  Row %d: %s\n", i+1, strings.Join(pairs, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
