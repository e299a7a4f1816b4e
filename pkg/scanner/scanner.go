// Package scanner walks a source tree, runs the per-file extraction
// pipeline and assembles the results into a finalized graph.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/codegraph/pkg/extract"
	"github.com/gnana997/codegraph/pkg/graph"
	"github.com/gnana997/codegraph/pkg/util"
)

// resultCacheSize bounds the per-file result cache. Evicted files are simply
// re-extracted on the next scan.
const resultCacheSize = 4096

// cachedResult is a per-file extraction result with the file identity it was
// computed from. Size+mtime is the change check; a stale entry is replaced.
type cachedResult struct {
	size    int64
	modTime time.Time
	rel     string // origin-file label the result was computed with
	result  *graph.FileResult
}

// TreeScanner scans directories (or a single file) and produces graphs.
//
// The per-file pipeline runs sequentially: the graph is mutated by one
// logical thread, so no synchronization is needed during a scan. Rescans of
// a mostly unchanged tree are cheap because unchanged files are served from
// an LRU cache keyed by path and validated by size+mtime.
type TreeScanner struct {
	registry *extract.Registry
	logger   *slog.Logger
	cache    *lru.Cache[string, cachedResult]
}

// NewTreeScanner creates a scanner over the given extractor registry.
func NewTreeScanner(registry *extract.Registry, logger *slog.Logger) *TreeScanner {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, cachedResult](resultCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create result cache: %v", err))
	}
	return &TreeScanner{
		registry: registry,
		logger:   logger,
		cache:    cache,
	}
}

// Scan processes the tree rooted at root (a directory, or a single file) and
// returns the finalized graph plus scan statistics.
//
// Per-file extraction anomalies are logged, recorded in stats.Errors and
// skipped; they never abort the walk. A returned error means the scan as a
// whole could not run (bad root, invalid patterns).
func (ts *TreeScanner) Scan(root string, options ScanOptions, progress ProgressCallback) (*graph.Graph, *ScanStats, error) {
	start := time.Now()
	stats := &ScanStats{StartTime: start}

	ts.logger.Info("starting scan", "root", root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat root %q: %w", root, err)
	}

	discoveryStart := time.Now()
	var files []string
	if info.IsDir() {
		files, err = ts.discoverFiles(root, options)
		if err != nil {
			return nil, nil, fmt.Errorf("file discovery failed: %w", err)
		}
	} else {
		files = []string{root}
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ts.logger.Info("file discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	extractStart := time.Now()
	builder := graph.NewBuilder()

	for i, file := range files {
		relPath := ts.relativePath(root, info.IsDir(), file)

		res, fromCache, err := ts.extractOne(file, relPath)
		if err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, FileError{FilePath: file, Err: err})
			ts.logger.Warn("file extraction failed", "file", file, "error", err)
			continue
		}
		if fromCache {
			stats.CacheHits++
		}

		builder.AddResult(res)
		stats.FilesExtracted++
		stats.NodesExtracted += len(res.Nodes)
		stats.EdgesExtracted += len(res.Edges)

		if progress != nil {
			progress(i+1, len(files), file)
		}
	}

	stats.ExtractTimeMs = time.Since(extractStart).Milliseconds()

	g := builder.Finalize()
	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(start).Milliseconds()

	ts.logger.Info("scan complete",
		"files_extracted", stats.FilesExtracted,
		"files_failed", stats.FilesFailed,
		"cache_hits", stats.CacheHits,
		"nodes", g.Stats.TotalNodes,
		"edges", g.Stats.TotalEdges,
		"duration_ms", stats.TotalTimeMs)

	return g, stats, nil
}

// discoverFiles walks the directory tree collecting eligible files.
// Denylisted directory names are never descended into.
func (ts *TreeScanner) discoverFiles(root string, options ScanOptions) ([]string, error) {
	include := options.Include
	if len(include) == 0 {
		for _, ext := range ts.registry.Extensions() {
			include = append(include, "**/*"+ext)
		}
	}
	for _, pattern := range append(append([]string{}, include...), options.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}
	}

	excludeDir := make(map[string]bool, len(options.ExcludeDirs))
	for _, name := range options.ExcludeDirs {
		excludeDir[name] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ts.logger.Warn("walk error", "path", path, "error", err)
			return nil // continue walking
		}

		if d.IsDir() {
			if path != root && excludeDir[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				return nil
			}
		}

		matched := false
		for _, pattern := range include {
			if m, _ := doublestar.PathMatch(pattern, relPath); m {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// extractOne runs (or replays from cache) the extraction pipeline for a
// single file. relPath is recorded as the origin file on nodes and edges.
func (ts *TreeScanner) extractOne(path, relPath string) (*graph.FileResult, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("stat: %w", err)
	}

	if entry, ok := ts.cache.Get(path); ok {
		if entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) && entry.rel == relPath {
			return entry.result, true, nil
		}
	}

	extractor, ok := ts.registry.ForFile(path)
	if !ok {
		return nil, false, fmt.Errorf("no extractor for %q", path)
	}

	src, err := util.ReadSource(path)
	if err != nil {
		return nil, false, err
	}

	res, err := extractor.ExtractFile(relPath, src)
	if err != nil {
		return nil, false, fmt.Errorf("extract: %w", err)
	}

	ts.cache.Add(path, cachedResult{size: info.Size(), modTime: info.ModTime(), rel: relPath, result: res})
	return res, false, nil
}

// relativePath computes the origin-file label: tree-relative inside a
// directory scan, the bare file name for a single-file scan.
func (ts *TreeScanner) relativePath(root string, rootIsDir bool, file string) string {
	if !rootIsDir {
		return filepath.Base(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
