package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
	domainservice "github.com/catalogmesh/tablequery/domain/service"
	"github.com/catalogmesh/tablequery/infrastructure/index"
)

// UpdateStatus reports the outcome of an update call.
type UpdateStatus string

// UpdateStatus values.
const (
	StatusUpdated   UpdateStatus = "updated"
	StatusUnchanged UpdateStatus = "unchanged"
)

// UpdateResult is the outcome of one update call.
type UpdateResult struct {
	status UpdateStatus
	detail string
}

// Status returns the update status.
func (r UpdateResult) Status() UpdateStatus { return r.status }

// Detail returns a human-readable explanation.
func (r UpdateResult) Detail() string { return r.detail }

// Updater coordinates index rebuilds. A rebuild runs entirely off to the
// side (parse, encode, index build, persist) and becomes visible through
// one atomic snapshot swap at the very end. Rebuilds are serialized:
// a concurrent update is rejected with search.ErrRebuildInProgress rather
// than queued, so duplicate rebuilds of the same catalog never run in
// parallel. Readers are never blocked; the mutex only excludes other
// rebuilds.
type Updater struct {
	active      *Active
	bulk        *domainservice.BulkEncoder
	store       *index.Store
	cfg         index.Config
	catalogPath string
	mu          sync.Mutex
	logger      *slog.Logger
}

// NewUpdater creates an Updater. store may be nil to disable persistence.
func NewUpdater(active *Active, bulk *domainservice.BulkEncoder, store *index.Store, cfg index.Config, catalogPath string, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		active:      active,
		bulk:        bulk,
		store:       store,
		cfg:         cfg,
		catalogPath: catalogPath,
		logger:      logger,
	}
}

// CatalogPath returns the configured default catalog file path.
func (u *Updater) CatalogPath() string { return u.catalogPath }

// Update rebuilds the catalog snapshot if the source file changed. An empty
// path means the configured default. When the content fingerprint matches
// the active snapshot's, the call returns StatusUnchanged without doing any
// rebuild work and without touching the snapshot.
func (u *Updater) Update(ctx context.Context, path string) (UpdateResult, error) {
	if !u.mu.TryLock() {
		return UpdateResult{}, search.ErrRebuildInProgress
	}
	defer u.mu.Unlock()

	target := u.resolvePath(path)

	fingerprint, err := catalog.FingerprintFile(target)
	if err != nil {
		return UpdateResult{}, err
	}

	if current := u.active.Snapshot(); current != nil && current.Fingerprint() == fingerprint {
		return UpdateResult{
			status: StatusUnchanged,
			detail: "catalog content unchanged, active snapshot kept",
		}, nil
	}

	snapshot, err := u.rebuild(ctx, target, fingerprint)
	if err != nil {
		return UpdateResult{}, err
	}

	u.active.Swap(snapshot)
	u.logger.Info("catalog snapshot swapped",
		"path", target,
		"entries", snapshot.Len(),
		"fingerprint", string(fingerprint)[:12],
	)

	return UpdateResult{
		status: StatusUpdated,
		detail: fmt.Sprintf("catalog reindexed: %d entries", snapshot.Len()),
	}, nil
}

// Bootstrap builds the initial snapshot at startup. A persisted index whose
// fingerprint still matches the catalog file is loaded instead of
// re-encoding the whole catalog; anything else triggers a full rebuild.
func (u *Updater) Bootstrap(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	target := u.catalogPath

	fingerprint, err := catalog.FingerprintFile(target)
	if err != nil {
		return err
	}

	if snapshot, ok := u.loadPersisted(ctx, target, fingerprint); ok {
		u.active.Swap(snapshot)
		u.logger.Info("loaded persisted catalog index",
			"path", target,
			"entries", snapshot.Len(),
		)
		return nil
	}

	snapshot, err := u.rebuild(ctx, target, fingerprint)
	if err != nil {
		return err
	}

	u.active.Swap(snapshot)
	u.logger.Info("built initial catalog snapshot",
		"path", target,
		"entries", snapshot.Len(),
	)
	return nil
}

func (u *Updater) resolvePath(path string) string {
	if path == "" {
		return u.catalogPath
	}
	return path
}

// rebuild constructs a complete, not-yet-visible snapshot. Any failure
// aborts the rebuild with nothing swapped in, so the previously active
// snapshot (if any) stays fully serviceable.
func (u *Updater) rebuild(ctx context.Context, path string, fingerprint catalog.Fingerprint) (*catalog.Snapshot, error) {
	store, err := catalog.ParseFile(path)
	if err != nil {
		return nil, err
	}

	vectors, err := u.bulk.Encode(ctx, store.CanonicalTexts())
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(vectors, u.cfg)
	if err != nil {
		return nil, err
	}

	if u.store != nil {
		names := make([]string, store.Len())
		for i, entry := range store.Entries() {
			names[i] = entry.Name()
		}
		if err := u.store.Save(ctx, fingerprint, u.cfg.Kind(), names, idx.Vectors()); err != nil {
			return nil, err
		}
	}

	return catalog.NewSnapshot(store, idx, fingerprint), nil
}

// loadPersisted tries to serve the persisted index for the given catalog
// content. Returns false when there is no usable artifact; load problems
// are logged and fall back to a rebuild rather than failing startup.
func (u *Updater) loadPersisted(ctx context.Context, path string, fingerprint catalog.Fingerprint) (*catalog.Snapshot, bool) {
	if u.store == nil {
		return nil, false
	}

	persisted, err := u.store.Load(ctx)
	if errors.Is(err, index.ErrNoPersistedIndex) {
		return nil, false
	}
	if err != nil {
		u.logger.Warn("persisted index unreadable, rebuilding", "error", err)
		return nil, false
	}

	if persisted.Fingerprint() != fingerprint || persisted.Kind() != u.cfg.Kind() {
		return nil, false
	}

	store, err := catalog.ParseFile(path)
	if err != nil {
		u.logger.Warn("catalog unreadable while loading persisted index", "error", err)
		return nil, false
	}

	names := persisted.Names()
	if store.Len() != len(names) {
		u.logger.Warn("persisted index does not match catalog, rebuilding")
		return nil, false
	}
	for i, entry := range store.Entries() {
		if entry.Name() != names[i] {
			u.logger.Warn("persisted index does not match catalog, rebuilding")
			return nil, false
		}
	}

	idx, err := index.Build(persisted.Vectors(), u.cfg)
	if err != nil {
		u.logger.Warn("persisted index unusable, rebuilding", "error", err)
		return nil, false
	}

	return catalog.NewSnapshot(store, idx, fingerprint), true
}
