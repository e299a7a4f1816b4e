package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/codegraph/pkg/graph"
)

// RescanFunc receives the result of each watch-triggered rescan.
type RescanFunc func(g *graph.Graph, stats *ScanStats, err error)

// TreeWatcher watches a source tree and triggers debounced full rescans.
//
// A full rescan after every change burst keeps the pipeline single-threaded
// and the output idempotent; the scanner's per-file result cache makes the
// rescan cheap since only changed files are re-extracted.
type TreeWatcher struct {
	watcher *fsnotify.Watcher
	scanner *TreeScanner
	options WatchOptions
	scanOpt ScanOptions
	logger  *slog.Logger

	root         string
	excludeNames map[string]bool
	onRescan     RescanFunc
	rescan       func() // performs one scan; swapped out in tests

	timerMu sync.Mutex
	timer   *time.Timer

	// scanMu is held for the duration of each watch-triggered rescan; Stop
	// takes it as a barrier so no onRescan callback lands after Stop returns.
	scanMu sync.Mutex

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewTreeWatcher creates a watcher that rescans root with the given scan
// options after each debounced change burst, reporting through onRescan.
func NewTreeWatcher(
	scanner *TreeScanner,
	root string,
	scanOpt ScanOptions,
	options WatchOptions,
	onRescan RescanFunc,
	logger *slog.Logger,
) (*TreeWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultWatchOptions().Debounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	excludeNames := make(map[string]bool, len(scanOpt.ExcludeDirs))
	for _, name := range scanOpt.ExcludeDirs {
		excludeNames[name] = true
	}

	tw := &TreeWatcher{
		watcher:      w,
		scanner:      scanner,
		options:      options,
		scanOpt:      scanOpt,
		logger:       logger,
		root:         root,
		excludeNames: excludeNames,
		onRescan:     onRescan,
		stopChan:     make(chan struct{}),
	}
	tw.rescan = tw.runScan
	return tw, nil
}

// Start adds watches for the root and its non-excluded subdirectories and
// begins the event loop in a background goroutine.
func (tw *TreeWatcher) Start() error {
	err := filepath.Walk(tw.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // continue on error
		}
		if !info.IsDir() {
			return nil
		}
		if path != tw.root && tw.excludeNames[info.Name()] {
			return filepath.SkipDir
		}
		if err := tw.watcher.Add(path); err != nil {
			tw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("setup watches: %w", err)
	}

	tw.logger.Info("file watcher started", "root", tw.root, "debounce", tw.options.Debounce)
	go tw.eventLoop()
	return nil
}

// Stop stops the watcher and waits out any in-flight rescan. Safe to call
// more than once.
func (tw *TreeWatcher) Stop() error {
	tw.mu.Lock()
	if tw.stopped {
		tw.mu.Unlock()
		return nil
	}
	tw.stopped = true
	close(tw.stopChan)
	tw.mu.Unlock()

	tw.timerMu.Lock()
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timerMu.Unlock()

	tw.scanMu.Lock()
	tw.scanMu.Unlock()

	return tw.watcher.Close()
}

// eventLoop consumes fsnotify events until Stop.
func (tw *TreeWatcher) eventLoop() {
	for {
		select {
		case <-tw.stopChan:
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			tw.handleEvent(event)

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent filters an event and schedules a debounced rescan. Newly
// created directories are added to the watch set so nested changes keep
// arriving.
func (tw *TreeWatcher) handleEvent(event fsnotify.Event) {
	if tw.excluded(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := tw.watcher.Add(event.Name); err != nil {
				tw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			tw.schedule()
			return
		}
	}

	if !tw.eligible(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	tw.logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
	tw.schedule()
}

// excluded reports whether the path, or any ancestor of it under the root,
// carries a denylisted directory name. A vendored tree created mid-watch
// (an npm install, say) must neither join the watch set nor trigger rescans.
func (tw *TreeWatcher) excluded(path string) bool {
	rel, err := filepath.Rel(tw.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if tw.excludeNames[part] {
			return true
		}
	}
	return false
}

// eligible reports whether the path's extension belongs to a registered
// language family.
func (tw *TreeWatcher) eligible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, registered := range tw.scanner.registry.Extensions() {
		if ext == registered {
			return true
		}
	}
	return false
}

// schedule resets the debounce timer; the rescan fires once the burst ends.
func (tw *TreeWatcher) schedule() {
	tw.timerMu.Lock()
	defer tw.timerMu.Unlock()
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timer = time.AfterFunc(tw.options.Debounce, tw.rescan)
}

// runScan performs one full rescan and reports the outcome. A timer that
// fires during or after Stop is a no-op, so no callback arrives once Stop
// has returned.
func (tw *TreeWatcher) runScan() {
	tw.scanMu.Lock()
	defer tw.scanMu.Unlock()

	tw.mu.Lock()
	stopped := tw.stopped
	tw.mu.Unlock()
	if stopped {
		return
	}

	g, stats, err := tw.scanner.Scan(tw.root, tw.scanOpt, nil)
	if err != nil {
		tw.logger.Error("rescan failed", "error", err)
	}
	if tw.onRescan != nil {
		tw.onRescan(g, stats, err)
	}
}
