package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc runs one build.
type RebuildFunc func(ctx context.Context) error

// Watch rebuilds whenever a markdown file directly in dir changes, until ctx is done. Bursts of
// events within debounce collapse into one rebuild, and changes during a rebuild queue
// exactly one follow-up. Rebuild failures are logged and do not stop the watch.
func Watch(ctx context.Context, dir string, debounce time.Duration, rebuild RebuildFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ferrors.FileSystemError("create content directory").WithCause(err).WithContext("path", dir).Build()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "start file watcher").Fatal().Build()
	}
	defer func() {
		_ = watcher.Close()
	}()
	// Posts live only at the top level of dir, so subdirectories are not watched.
	if err := watcher.Add(dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch content directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}

	rebuildReq, trigger, stop := newDebouncer(debounce)
	defer stop()

	workerCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runRebuildWorker(workerCtx, rebuildReq, rebuild, logger)
	}()
	defer wg.Wait()
	defer cancel()

	logger.Info("Watching for content changes", logfields.Path(dir))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(dir, ev, trigger, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns a request channel (buffer of one, so requests coalesce), a trigger
// that (re)arms the timer, and a stop function.
func newDebouncer(delay time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func runRebuildWorker(ctx context.Context, req <-chan struct{}, rebuild RebuildFunc, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-req:
			logger.Info("Change detected; rebuilding")
			if err := rebuild(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func handleFileEvent(dir string, ev fsnotify.Event, trigger func(), logger *slog.Logger) {
	if shouldIgnoreEvent(ev.Name) || filepath.Ext(ev.Name) != ".md" {
		return
	}
	if filepath.Clean(filepath.Dir(ev.Name)) != filepath.Clean(dir) {
		return
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// shouldIgnoreEvent reports editor swap files, hidden files and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
