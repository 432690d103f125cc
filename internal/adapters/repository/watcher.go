package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/pkg/logger"
	"github.com/okian/skillwheel/pkg/metrics"
)

const defaultDebounce = time.Second

// ReloadFunc receives a freshly decoded dataset.
type ReloadFunc func(ctx context.Context, ds model.Dataset)

// Watcher reloads a dataset file whenever it changes on disk. Broken files
// are logged and skipped; the previous dataset stays live.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload ReloadFunc
	logger   logger.Logger
}

// NewWatcher watches path and calls onReload after every successful decode.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: defaultDebounce,
		onReload: onReload,
		logger:   logger.Get().Named("dataset-watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done. The parent directory is watched so editors
// that replace the file by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve dataset path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create dataset watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info(ctx, "watching dataset", logger.String("path", abs), logger.Duration("debounce", w.debounce))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				settle = time.After(w.debounce)
			}
		case <-settle:
			settle = nil
			w.reload(ctx, abs)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(ctx, "dataset watcher error", logger.Error(err))
			metrics.RecordErrorByComponent("watcher", "fsnotify")
		}
	}
}

func (w *Watcher) reload(ctx context.Context, path string) {
	ds, err := LoadFile(path)
	if err != nil {
		w.logger.Error(ctx, "dataset reload failed, keeping previous dataset",
			logger.String("path", path), logger.Error(err))
		metrics.RecordDatasetReload("error")
		metrics.RecordErrorByComponent("watcher", "decode")
		return
	}
	w.logger.Info(ctx, "dataset changed on disk", logger.String("path", path), logger.Int("competences", len(ds)))
	w.onReload(ctx, ds)
}
