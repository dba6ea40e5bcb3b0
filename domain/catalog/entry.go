// Package catalog provides the data-catalog domain: table entries and their
// columns, document parsing and validation, canonical text construction,
// source fingerprinting, and the immutable snapshot that readers search.
package catalog

// Column describes one column of a catalog table.
type Column struct {
	name        string
	description string
	dataType    string
	primaryKey  bool
}

// NewColumn creates a new Column.
func NewColumn(name, description, dataType string, primaryKey bool) Column {
	return Column{
		name:        name,
		description: description,
		dataType:    dataType,
		primaryKey:  primaryKey,
	}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Description returns the column description.
func (c Column) Description() string { return c.description }

// DataType returns the display data type of the column.
func (c Column) DataType() string { return c.dataType }

// IsPrimaryKey reports whether the column is part of the primary key.
func (c Column) IsPrimaryKey() bool { return c.primaryKey }

// Entry is one table's metadata record plus its columns. Entries are
// immutable once part of a built snapshot.
type Entry struct {
	name        string
	description string
	columns     []Column
}

// NewEntry creates a new Entry.
func NewEntry(name, description string, columns []Column) Entry {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return Entry{
		name:        name,
		description: description,
		columns:     cols,
	}
}

// Name returns the table name, unique within a snapshot.
func (e Entry) Name() string { return e.name }

// Description returns the table description.
func (e Entry) Description() string { return e.description }

// Columns returns the ordered columns (copy).
func (e Entry) Columns() []Column {
	cols := make([]Column, len(e.columns))
	copy(cols, e.columns)
	return cols
}
