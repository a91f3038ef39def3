package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store hands out the current content snapshot. Snapshots are never
// mutated after they are published, so readers need no locking.
type Store struct {
	site atomic.Pointer[Site]
}

func NewStore(site *Site) *Store {
	s := &Store{}
	s.site.Store(site)
	return s
}

func (s *Store) Load() *Site {
	return s.site.Load()
}

func (s *Store) Replace(site *Site) {
	s.site.Store(site)
}

// Open loads content from path, or the built-in default when path is
// empty.
func Open(path string) (*Store, error) {
	var (
		site *Site
		err  error
	)
	if path == "" {
		site, err = Default()
	} else {
		site, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(site), nil
}

// watchDebounce absorbs the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads path into store whenever the file changes, until ctx is
// done. The directory is watched rather than the file so that editors
// which save by rename are picked up. A file that fails to parse is
// logged and the previous snapshot stays live.
func Watch(ctx context.Context, path string, store *Store, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("Watching content for changes", zap.String("path", abs))

	var (
		timer   *time.Timer
		reloadC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			reloadC = timer.C

		case <-reloadC:
			reloadC = nil
			site, err := LoadFile(abs)
			if err != nil {
				logger.Warn("Content reload failed, keeping previous version", zap.Error(err))
				continue
			}
			store.Replace(site)
			logger.Info("Content reloaded", zap.Int("projects", len(site.Projects)))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Content watcher error", zap.Error(err))
		}
	}
}
