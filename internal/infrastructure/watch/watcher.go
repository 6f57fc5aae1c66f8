package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/planwave/pkg/storage"
)

// planningInputs are the files whose edits invalidate the current
// execution plan. plan.json itself is excluded so the replan's own
// write does not re-trigger the watcher.
var planningInputs = map[string]bool{
	storage.DecompositionFile: true,
	storage.PolicyFile:        true,
	storage.HistoryFile:       true,
}

// PlanWatcher watches the workspace's .planwave directory and invokes
// onReplan after planning inputs settle.
type PlanWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReplan func(changed string)
}

func NewPlanWatcher(root string, debounce time.Duration, onReplan func(changed string)) (*PlanWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &PlanWatcher{
		root:     root,
		watcher:  w,
		debounce: debounce,
		onReplan: onReplan,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *PlanWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Join(w.root, storage.PlanwaveDir)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var lastChanged string
	debouncer := NewDebouncer(w.debounce, func() {
		if w.onReplan != nil {
			w.onReplan(lastChanged)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !planningInputs[filepath.Base(event.Name)] {
				continue
			}
			lastChanged = filepath.Base(event.Name)
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
