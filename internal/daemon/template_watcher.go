package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one change.
const DefaultDebounce = 500 * time.Millisecond

// TemplateWatcher calls onChange after the watched file was written or
// replaced and then stayed quiet for the debounce period.
type TemplateWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(ctx context.Context)
	debounce time.Duration

	stopOnce sync.Once
	stopChan chan struct{}
	trigger  chan struct{}
	done     sync.WaitGroup
}

// NewTemplateWatcher creates a watcher for path.
func NewTemplateWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*TemplateWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &TemplateWatcher{
		path:     absPath,
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		stopChan: make(chan struct{}),
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file by rename are still noticed.
func (tw *TemplateWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(tw.path)
	if err := tw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch template directory %s: %w", dir, err)
	}
	slog.Info("Watching redirect template", logfields.Path(tw.path))

	tw.done.Add(2)
	go tw.watchLoop(ctx)
	go tw.debounceLoop(ctx)
	return nil
}

// Stop stops watching and waits for the loops to exit.
func (tw *TemplateWatcher) Stop() error {
	var err error
	tw.stopOnce.Do(func() {
		close(tw.stopChan)
		err = tw.watcher.Close()
		tw.done.Wait()
	})
	return err
}

func (tw *TemplateWatcher) watchLoop(ctx context.Context) {
	defer tw.done.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tw.stopChan:
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Template change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				select {
				case tw.trigger <- struct{}{}:
				default:
				}
			case event.Has(fsnotify.Remove):
				slog.Warn("Redirect template removed", logfields.Path(event.Name))
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Template watcher error", logfields.Error(err))
		}
	}
}

func (tw *TemplateWatcher) debounceLoop(ctx context.Context) {
	defer tw.done.Done()
	timer := time.NewTimer(tw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tw.stopChan:
			return
		case <-tw.trigger:
			timer.Reset(tw.debounce)
		case <-timer.C:
			tw.onChange(ctx)
		}
	}
}
