package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/owlscrubber/config"
)

// debounceDelay is how long to wait for more changes before re-running.
const debounceDelay = 500 * time.Millisecond

// watch runs once, then re-runs after every change to the configuration
// file or the deletion lists until ctx is cancelled. Failed runs are
// logged and do not stop the loop.
func watch(ctx context.Context, opts *options, logger *slog.Logger, stdout io.Writer) error {
	w, err := newChangeWatcher(debounceDelay, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	cfg, err := runOnce(ctx, opts, logger, stdout)
	if err != nil {
		logger.Error("Run failed", "error", err)
	}
	w.Watch(watchTargets(opts.configPath, cfg))
	go w.Run(ctx)

	logger.Info("Watching for changes", "debounce", debounceDelay)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Received shutdown signal")
			return nil
		case <-w.Changes():
			logger.Info("Change detected, re-running")
			cfg, err := runOnce(ctx, opts, logger, stdout)
			if err != nil {
				logger.Error("Run failed", "error", err)
			}
			w.Watch(watchTargets(opts.configPath, cfg))
		}
	}
}

// watchTargets lists the configuration file and the list patterns of cfg.
func watchTargets(configPath string, cfg *config.Config) []string {
	if configPath == "" {
		configPath = config.DefaultConfigFile
	}
	targets := []string{configPath}
	if cfg == nil {
		return targets
	}
	for _, p := range []string{
		cfg.Lists.BranchDelete,
		cfg.Lists.PropsDelete,
		cfg.Lists.ComplexDelete,
		cfg.Lists.ComplexSimplify,
	} {
		if p != "" {
			targets = append(targets, p)
		}
	}
	return targets
}

// changeWatcher watches the directories holding a set of files or glob
// patterns and signals, debounced, when a matching file is written.
type changeWatcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	changes  chan struct{}

	mu       sync.Mutex
	patterns []string
}

func newChangeWatcher(debounce time.Duration, logger *slog.Logger) (*changeWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &changeWatcher{
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Watch replaces the watched targets. Directories are watched rather than
// files so editors that save by rename are still seen.
func (w *changeWatcher) Watch(targets []string) {
	patterns := make([]string, 0, len(targets))
	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			w.logger.Warn("Cannot resolve watch target", "target", t, "error", err)
			continue
		}
		patterns = append(patterns, filepath.ToSlash(abs))

		dir, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		if err := w.fsw.Add(filepath.FromSlash(dir)); err != nil {
			w.logger.Warn("Failed to watch directory", "path", dir, "error", err)
		} else {
			w.logger.Debug("Watching directory", "path", dir)
		}
	}

	w.mu.Lock()
	w.patterns = patterns
	w.mu.Unlock()
}

// Changes delivers one value per debounced burst of matching events.
func (w *changeWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes filesystem events until ctx is done or the watcher is
// closed.
func (w *changeWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.logger.Debug("Watched file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

// Close stops the underlying watcher.
func (w *changeWatcher) Close() error {
	return w.fsw.Close()
}

func (w *changeWatcher) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.ToSlash(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.patterns {
		if p == abs {
			return true
		}
		if ok, err := doublestar.Match(p, abs); err == nil && ok {
			return true
		}
	}
	return false
}
