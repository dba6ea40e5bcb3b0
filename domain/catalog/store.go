package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultDataType is used when a column omits its display data type.
const defaultDataType = "N/A"

// Format identifies the catalog document encoding.
type Format string

// Format values.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// tableDoc is the raw wire shape of one table in the catalog document.
// Pointer fields distinguish absent from empty so validation can name the
// exact missing field.
type tableDoc struct {
	Name        *string     `json:"name" yaml:"name"`
	Description *string     `json:"description" yaml:"description"`
	Columns     []columnDoc `json:"columns" yaml:"columns"`
}

type columnDoc struct {
	Name            *string `json:"name" yaml:"name"`
	Description     *string `json:"description" yaml:"description"`
	DataTypeDisplay *string `json:"dataTypeDisplay" yaml:"dataTypeDisplay"`
	IsPrimaryKey    *bool   `json:"isPrimaryKey" yaml:"isPrimaryKey"`
}

// Store holds the validated, ordered catalog entries of one source document.
// The entry order is the document order; an entry's position is its index id
// within a snapshot built from this store.
type Store struct {
	entries []Entry
	byName  map[string]int
}

// ParseFile reads and validates a catalog document. The format is chosen by
// file extension: .yaml/.yml parse as YAML, everything else as JSON.
func ParseFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data, formatForPath(path))
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse validates a raw catalog document and returns a Store. Any missing or
// malformed required field fails the whole document with a ValidationError,
// leaving nothing half-parsed.
func Parse(data []byte, format Format) (*Store, error) {
	var docs []tableDoc
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	entries := make([]Entry, 0, len(docs))
	byName := make(map[string]int, len(docs))

	for i, doc := range docs {
		entry, err := validateTable(i, doc)
		if err != nil {
			return nil, err
		}
		if _, exists := byName[entry.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTable, entry.Name())
		}
		byName[entry.Name()] = len(entries)
		entries = append(entries, entry)
	}

	return &Store{entries: entries, byName: byName}, nil
}

func validateTable(pos int, doc tableDoc) (Entry, error) {
	label := fmt.Sprintf("table #%d", pos)
	if doc.Name != nil && strings.TrimSpace(*doc.Name) != "" {
		label = *doc.Name
	}

	if doc.Name == nil || strings.TrimSpace(*doc.Name) == "" {
		return Entry{}, NewValidationError(label, "name", "required and must be a non-empty string")
	}
	if doc.Description == nil {
		return Entry{}, NewValidationError(label, "description", "required")
	}

	columns := make([]Column, 0, len(doc.Columns))
	for j, col := range doc.Columns {
		if col.Name == nil || strings.TrimSpace(*col.Name) == "" {
			field := fmt.Sprintf("columns[%d].name", j)
			return Entry{}, NewValidationError(label, field, "required and must be a non-empty string")
		}
		if col.Description == nil {
			field := fmt.Sprintf("columns[%d].description", j)
			return Entry{}, NewValidationError(label, field, "required")
		}

		dataType := defaultDataType
		if col.DataTypeDisplay != nil && *col.DataTypeDisplay != "" {
			dataType = *col.DataTypeDisplay
		}
		primaryKey := col.IsPrimaryKey != nil && *col.IsPrimaryKey

		columns = append(columns, NewColumn(*col.Name, *col.Description, dataType, primaryKey))
	}

	return NewEntry(*doc.Name, *doc.Description, columns), nil
}

// Entries returns the ordered entries (copy).
func (s *Store) Entries() []Entry {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entry returns the entry at the given position.
func (s *Store) Entry(id int) (Entry, bool) {
	if id < 0 || id >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[id], true
}

// ByName returns the position and entry for a table name.
func (s *Store) ByName(name string) (int, Entry, bool) {
	id, ok := s.byName[name]
	if !ok {
		return 0, Entry{}, false
	}
	return id, s.entries[id], true
}

// CanonicalTexts returns one canonical text per entry, in entry order.
func (s *Store) CanonicalTexts() []string {
	texts := make([]string, len(s.entries))
	for i, entry := range s.entries {
		texts[i] = entry.CanonicalText()
	}
	return texts
}
