// Package watch re-runs an action when watched resume files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/logger"
)

// relevantOps are the operations that can change a resume's content.
// Editors that save atomically show up as Create or Rename.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher calls OnChange once per burst of relevant file events.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	match    func(path string) bool
	onChange func(ctx context.Context)
	logger   *zap.Logger
	dirs     map[string]bool
}

// New creates a Watcher. match decides which paths matter; onChange runs
// after debounce has passed without further matching events.
func New(debounce time.Duration, match func(path string) bool, onChange func(ctx context.Context), log *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		match:    match,
		onChange: onChange,
		logger:   logger.OrNop(log),
		dirs:     make(map[string]bool),
	}, nil
}

// AddDir watches a directory. Directories rather than files are watched so
// that atomic saves (write to temp, rename over) are still seen.
func (w *Watcher) AddDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if w.dirs[abs] {
		return nil
	}
	if err := w.fs.Add(abs); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", abs, err)
	}
	w.dirs[abs] = true
	w.logger.Debug("watching directory", zap.String("dir", abs))
	return nil
}

// Dirs returns the number of watched directories.
func (w *Watcher) Dirs() int {
	return len(w.dirs)
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	return w.loop(ctx, w.fs.Events, w.fs.Errors)
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
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
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			w.logger.Debug("change detected", zap.String(logger.FieldFile, event.Name), zap.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.onChange(ctx)
		}
	}
}
