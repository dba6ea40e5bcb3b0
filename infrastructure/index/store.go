package index

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
)

// ErrNoPersistedIndex indicates the store holds no saved index yet.
var ErrNoPersistedIndex = errors.New("no persisted index found")

// Float64Slice is a custom type for JSON serialization of []float64 in SQLite.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON from SQLite.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON to SQLite.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// metaEntity is the single-row table recording which catalog content the
// persisted vectors belong to.
type metaEntity struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Fingerprint string `gorm:"column:fingerprint"`
	Kind        string `gorm:"column:kind"`
	Dimension   int    `gorm:"column:dimension"`
	EntryCount  int    `gorm:"column:entry_count"`
}

func (metaEntity) TableName() string { return "catalog_index_meta" }

// vectorEntity is one persisted embedding row. Position is the index id;
// TableName records the id-to-entry mapping so a loaded index can be checked
// against the catalog source.
type vectorEntity struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Position  int          `gorm:"column:position;uniqueIndex"`
	Table     string       `gorm:"column:table_name"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
}

func (vectorEntity) TableName() string { return "catalog_index_vectors" }

// Persisted is one loaded index artifact: the source fingerprint, the index
// kind it was built as, and the id-ordered table names and vectors.
type Persisted struct {
	fingerprint catalog.Fingerprint
	kind        Kind
	names       []string
	vectors     []search.Vector
}

// Fingerprint returns the catalog source fingerprint.
func (p Persisted) Fingerprint() catalog.Fingerprint { return p.fingerprint }

// Kind returns the index kind the artifact was built as.
func (p Persisted) Kind() Kind { return p.kind }

// Names returns the id-ordered table names.
func (p Persisted) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// Vectors returns the id-ordered vectors.
func (p Persisted) Vectors() []search.Vector {
	vectors := make([]search.Vector, len(p.vectors))
	for i, v := range p.vectors {
		vectors[i] = v.Clone()
	}
	return vectors
}

// Store persists built indexes to a SQLite file so a restart can serve the
// same catalog without re-encoding it. The catalog source file remains the
// system of record; the store only ever holds derived state.
type Store struct {
	db     *gorm.DB
	path   string
	logger *slog.Logger
}

// NewStore opens (creating if needed) the index database at path.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	if err := db.AutoMigrate(&metaEntity{}, &vectorEntity{}); err != nil {
		return nil, fmt.Errorf("migrate index schema: %w", err)
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Save replaces the persisted artifact with the given one, atomically with
// respect to Load (single transaction).
func (s *Store) Save(ctx context.Context, fingerprint catalog.Fingerprint, kind Kind, names []string, vectors []search.Vector) error {
	if len(names) != len(vectors) {
		return fmt.Errorf("%w: %d names for %d vectors", search.ErrIndex, len(names), len(vectors))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&metaEntity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&vectorEntity{}).Error; err != nil {
			return err
		}

		meta := metaEntity{
			ID:          1,
			Fingerprint: string(fingerprint),
			Kind:        string(kind),
			Dimension:   dim,
			EntryCount:  len(vectors),
		}
		if err := tx.Create(&meta).Error; err != nil {
			return err
		}

		for i, v := range vectors {
			row := vectorEntity{
				Position:  i,
				Table:     names[i],
				Embedding: Float64Slice(v),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: persist index: %s", search.ErrIndex, err.Error())
	}

	s.logger.Debug("persisted vector index",
		"path", s.path,
		"entries", len(vectors),
		"dimension", dim,
		"kind", string(kind),
	)
	return nil
}

// Load reads the persisted artifact. Returns ErrNoPersistedIndex when the
// store is empty.
func (s *Store) Load(ctx context.Context) (Persisted, error) {
	var meta metaEntity
	err := s.db.WithContext(ctx).First(&meta, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Persisted{}, ErrNoPersistedIndex
	}
	if err != nil {
		return Persisted{}, fmt.Errorf("%w: load index meta: %s", search.ErrIndex, err.Error())
	}

	var rows []vectorEntity
	if err := s.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return Persisted{}, fmt.Errorf("%w: load index vectors: %s", search.ErrIndex, err.Error())
	}

	if len(rows) != meta.EntryCount {
		return Persisted{}, fmt.Errorf("%w: index meta records %d entries, found %d rows", search.ErrIndex, meta.EntryCount, len(rows))
	}

	names := make([]string, len(rows))
	vectors := make([]search.Vector, len(rows))
	for i, row := range rows {
		if row.Position != i {
			return Persisted{}, fmt.Errorf("%w: gap in persisted positions at %d", search.ErrIndex, i)
		}
		names[i] = row.Table
		vectors[i] = search.Vector(row.Embedding)
	}

	return Persisted{
		fingerprint: catalog.Fingerprint(meta.Fingerprint),
		kind:        Kind(meta.Kind),
		names:       names,
		vectors:     vectors,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
