package catalog

import "strings"

// CanonicalText builds the deterministic embedding input for the entry.
//
// The field order is fixed: table name, table description, then one line per
// column in catalog order. Identical catalog content always yields identical
// text, and therefore identical vectors, across rebuilds.
func (e Entry) CanonicalText() string {
	var b strings.Builder
	b.WriteString("Table: ")
	b.WriteString(e.name)
	b.WriteString("\nDescription: ")
	b.WriteString(e.description)
	b.WriteString("\nColumns:")
	for _, col := range e.columns {
		b.WriteString("\n- Column '")
		b.WriteString(col.name)
		b.WriteString("': ")
		b.WriteString(col.description)
	}
	return b.String()
}
