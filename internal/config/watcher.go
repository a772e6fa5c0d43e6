package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the several events an editor emits per save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads the card file when it changes. It watches the parent
// directory so that editors which save by renaming are seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger
	updates  chan Config
}

// NewWatcher starts watching the directory holding path.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		debounce: DefaultDebounce,
		log:      log,
		updates:  make(chan Config, 1),
	}, nil
}

// Updates delivers every successfully reloaded card.
func (w *Watcher) Updates() <-chan Config { return w.updates }

// Run blocks until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("card file event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("card file watcher error", zap.Error(err))

		case <-timer.C:
			cfg, ok := w.reload()
			if !ok {
				continue
			}
			select {
			case w.updates <- cfg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// reload keeps the previous card when the file is gone or malformed.
func (w *Watcher) reload() (Config, bool) {
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		w.log.Info("card file removed, keeping current card", zap.String("path", w.path))
		return Config{}, false
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("ignoring card file reload", zap.Error(err))
		return Config{}, false
	}
	w.log.Info("card file reloaded", zap.String("path", w.path), zap.Int("age", cfg.Age))
	return cfg, true
}
