package capability

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a vocabulary file into a Store whenever it changes on disk. A file that
// fails to parse is logged and the previous configuration stays in force.
type Watcher struct {
	log   *logger.Logger
	path  string
	store *Store
	fsw   *fsnotify.Watcher

	// OnReload, when set, is called after every reload attempt.
	OnReload func(err error)
}

// NewWatcher watches the directory containing path, so editors that replace the file by
// rename are picked up too.
func NewWatcher(log *logger.Logger, path string, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("vocabulary watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("vocabulary watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("vocabulary watcher: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		log:   logger.OrNop(log).With("component", "VocabularyWatcher", "path", abs),
		path:  abs,
		store: store,
		fsw:   fsw,
	}, nil
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("vocabulary watch error", "error", err)
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

// Close stops watching. It is safe to call after Run has returned.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.log.Warn("vocabulary reload failed; keeping previous config", "error", err)
	} else {
		w.store.Set(cfg)
		w.log.Info("vocabulary reloaded", "tiers", len(cfg.Tiers()))
	}
	if w.OnReload != nil {
		w.OnReload(err)
	}
}
