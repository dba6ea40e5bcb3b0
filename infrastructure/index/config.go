package index

import (
	"fmt"

	"github.com/catalogmesh/tablequery/domain/search"
)

// Kind selects the index structure. The flat exact index is the default;
// IVF is an explicit opt-in for catalogs large enough that full scans hurt,
// accepting the recall trade-off.
type Kind string

// Kind values.
const (
	KindFlat Kind = "flat"
	KindIVF  Kind = "ivf"
)

// Default IVF parameters, used when the config leaves them zero.
const (
	DefaultIVFLists  = 64
	DefaultIVFProbes = 8
)

// Config selects and parameterizes the index structure.
type Config struct {
	kind      Kind
	ivfLists  int
	ivfProbes int
}

// NewConfig creates a Config. An empty kind means KindFlat; non-positive
// IVF parameters fall back to the defaults.
func NewConfig(kind Kind, ivfLists, ivfProbes int) Config {
	if kind == "" {
		kind = KindFlat
	}
	if ivfLists <= 0 {
		ivfLists = DefaultIVFLists
	}
	if ivfProbes <= 0 {
		ivfProbes = DefaultIVFProbes
	}
	return Config{kind: kind, ivfLists: ivfLists, ivfProbes: ivfProbes}
}

// Kind returns the index kind.
func (c Config) Kind() Kind { return c.kind }

// IVFLists returns the number of IVF clusters.
func (c Config) IVFLists() int { return c.ivfLists }

// IVFProbes returns the number of IVF lists scanned per search.
func (c Config) IVFProbes() int { return c.ivfProbes }

// Build constructs the configured index over the given vectors. Building
// from the same vectors and config is deterministic for both kinds, which
// is what makes persist/load round-trips answer identical queries.
func Build(vectors []search.Vector, cfg Config) (search.Index, error) {
	switch cfg.Kind() {
	case KindFlat, "":
		return BuildFlat(vectors)
	case KindIVF:
		return BuildIVF(vectors, cfg.IVFLists(), cfg.IVFProbes())
	default:
		return nil, fmt.Errorf("%w: unknown index kind %q", search.ErrIndex, cfg.Kind())
	}
}
