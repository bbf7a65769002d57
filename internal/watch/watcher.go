package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher subscribes to filesystem notifications for one source file and
// forwards matching write events to the scheduler. It watches the parent
// directory rather than the file itself so that the legacy application's
// replace-by-rename saves keep being observed.
type Watcher struct {
	path  string // absolute path of the watched file
	fsw   *fsnotify.Watcher
	sched *Scheduler
	log   *zap.Logger
}

func NewWatcher(path string, sched *Scheduler, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, fsw: fsw, sched: sched, log: log}, nil
}

// Run pumps filesystem events until ctx is cancelled. The goroutine only
// ever pushes a lightweight notification to the scheduler; all actual work
// happens on the scheduler's side.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.matches(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("source file changed", zap.String("op", ev.Op.String()))
			w.sched.Notify()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	return err == nil && abs == w.path
}
