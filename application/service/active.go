// Package service provides the application services: the catalog search
// engine and the index update coordinator.
package service

import (
	"sync/atomic"

	"github.com/catalogmesh/tablequery/domain/catalog"
)

// Active holds the single shared reference to the current catalog snapshot.
// Readers dereference it once per operation and use that snapshot
// throughout, so a concurrent swap never mixes entries of one snapshot with
// the index of another. The swap itself is one atomic pointer store.
type Active struct {
	ptr atomic.Pointer[catalog.Snapshot]
}

// NewActive creates an empty holder (no snapshot yet).
func NewActive() *Active {
	return &Active{}
}

// Snapshot returns the active snapshot, or nil when none has been built.
func (a *Active) Snapshot() *catalog.Snapshot {
	return a.ptr.Load()
}

// Swap atomically replaces the active snapshot. The old snapshot is simply
// dropped; in-flight readers that resolved it keep using it until they
// finish.
func (a *Active) Swap(s *catalog.Snapshot) {
	a.ptr.Store(s)
}
