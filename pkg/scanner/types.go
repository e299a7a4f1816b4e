package scanner

import "time"

// ScanOptions configures a tree scan.
type ScanOptions struct {
	// Include patterns (doublestar glob syntax, e.g. "**/*.ts").
	// If empty, patterns are derived from the registered extractors'
	// extension allow-lists.
	Include []string

	// Exclude patterns (doublestar glob syntax) applied to files, in
	// addition to ExcludeDirs.
	Exclude []string

	// ExcludeDirs is a name denylist of directories that are never
	// descended into, wherever they appear in the tree.
	ExcludeDirs []string
}

// DefaultScanOptions returns the conventional generated/vendor/VCS
// exclusions shared by both language families.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		ExcludeDirs: []string{
			"node_modules",
			"vendor",
			".git",
			"dist",
			"build",
			".next",
			".nuxt",
			"coverage",
			"out",
		},
	}
}

// FileError records a per-file extraction anomaly. These are non-fatal: one
// unparsable file never aborts the walk.
type FileError struct {
	FilePath string
	Err      error
}

// ScanStats describes one full tree scan.
type ScanStats struct {
	FilesDiscovered int
	FilesExtracted  int
	FilesFailed     int
	CacheHits       int

	NodesExtracted int
	EdgesExtracted int

	DiscoveryTimeMs int64
	ExtractTimeMs   int64
	TotalTimeMs     int64

	Errors []FileError

	StartTime time.Time
	EndTime   time.Time
}

// ProgressCallback is invoked after each file is processed.
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures watch mode.
type WatchOptions struct {
	// Debounce groups rapid change bursts into a single rescan.
	Debounce time.Duration
}

// DefaultWatchOptions returns the recommended watch settings.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{Debounce: 200 * time.Millisecond}
}
