// Package watch keeps runtime settings in sync with files on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/catalogmesh/tablequery/application/service"
	"github.com/catalogmesh/tablequery/internal/config"
)

// GovernanceWatcher reloads the governance platform base URL whenever the
// configured dotenv-style file changes. Editors replace files instead of
// writing in place, so the watch is on the parent directory and events are
// filtered by name.
type GovernanceWatcher struct {
	links   *service.GovernanceLinks
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewGovernanceWatcher creates a watcher for the given config file. The
// file does not have to exist yet; it picks up the URL once it appears.
func NewGovernanceWatcher(links *service.GovernanceLinks, path string, logger *slog.Logger) (*GovernanceWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &GovernanceWatcher{
		links:   links,
		path:    path,
		watcher: watcher,
		logger:  logger,
	}, nil
}

// Run applies the current file contents and then blocks, reapplying on
// every change, until ctx is cancelled.
func (w *GovernanceWatcher) Run(ctx context.Context) error {
	w.reload()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			} else if event.Has(fsnotify.Remove) {
				// Nothing to apply, but make the stale state visible.
				w.logger.Debug("governance config removed, keeping last base URL",
					"path", w.path, "base_url", w.links.BaseURL())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("governance watcher error", "error", err)
		}
	}
}

// Close stops the underlying file watcher.
func (w *GovernanceWatcher) Close() error {
	return w.watcher.Close()
}

func (w *GovernanceWatcher) reload() {
	baseURL, err := config.ReadGovernanceBaseURL(w.path)
	if err != nil {
		w.logger.Warn("failed to read governance config", "path", w.path, "error", err)
		return
	}
	if baseURL == "" {
		return
	}
	if strings.TrimRight(baseURL, "/") == w.links.BaseURL() {
		return
	}

	w.links.SetBaseURL(baseURL)
	w.logger.Info("governance base URL updated", "base_url", w.links.BaseURL())
}
