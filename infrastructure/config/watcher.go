package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the YAML overlay whenever the file changes, so the
// runtime tunables (demo feed, table overrides are startup-only) can be
// flipped without a restart.
type Watcher struct {
	cfg    *Config
	logger *zap.Logger
	fs     *fsnotify.Watcher
}

// NewWatcher creates a watcher for the config's overlay file. Returns nil
// when no overlay file is configured.
func NewWatcher(cfg *Config, logger *zap.Logger) (*Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	if err := fs.Add(filepath.Dir(cfg.ConfigFile)); err != nil {
		fs.Close()
		return nil, err
	}

	return &Watcher{cfg: cfg, logger: logger, fs: fs}, nil
}

// Close stops the watcher. Safe to call whether or not Run was started.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	target := filepath.Clean(w.cfg.ConfigFile)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.cfg.ApplyFile(target); err != nil {
				w.logger.Warn("Failed to reload config file",
					zap.String("file", target),
					zap.Error(err),
				)
				continue
			}
			w.logger.Info("Reloaded config file",
				zap.String("file", target),
				zap.Bool("demoFeed", w.cfg.DemoFeedEnabled()),
			)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}
