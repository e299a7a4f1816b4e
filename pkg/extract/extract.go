// Package extract implements the per-language symbol and relationship
// extraction front ends.
//
// Matching is deliberately heuristic: an ordered table of pattern
// recognizers over raw lines (JS/TS family) or over a lexed token stream
// (PHP family), with brace counting for scope. Constructs split across
// lines may be missed and some may be double counted; that is the accepted
// precision/robustness trade-off. This is not a compiler-grade parser.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/gnana997/codegraph/pkg/graph"
)

// Extractor is the per-language-family capability interface. Adding a new
// source language means implementing this once; graph assembly, walking and
// reporting are shared.
type Extractor interface {
	// Language returns the language family name (e.g. "javascript", "php").
	Language() string

	// Extensions returns the file extensions this extractor handles,
	// including the leading dot.
	Extensions() []string

	// ExtractFile scans one file's source text and returns its declared
	// symbols and relationship occurrences. The path is recorded as the
	// origin file on nodes and edges; it is not read from disk.
	ExtractFile(path string, src []byte) (*graph.FileResult, error)
}

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
	all   []Extractor
}

// NewRegistry builds a registry from the given extractors. A later extractor
// claiming an already-registered extension wins.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	for _, e := range extractors {
		r.all = append(r.all, e)
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// DefaultRegistry returns a registry with the built-in JS/TS and PHP
// front ends.
func DefaultRegistry() *Registry {
	return NewRegistry(NewJavaScript(), NewPHP())
}

// ForFile returns the extractor responsible for the file's extension.
func (r *Registry) ForFile(path string) (Extractor, bool) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Extensions returns every registered extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// Extractors returns the registered extractors in registration order.
func (r *Registry) Extractors() []Extractor { return r.all }

// lastSegment returns the identifier after the final namespace separator,
// used for display labels of namespace-qualified IDs.
func lastSegment(id string) string {
	if i := strings.LastIndex(id, "\\"); i >= 0 {
		return id[i+1:]
	}
	return id
}
