// Package graph defines the shared code-relationship graph model and the
// assembler that merges per-file extraction results into a finalized graph.
package graph

import "strings"

// NodeKind classifies a declared symbol.
type NodeKind string

const (
	NodeKindClass    NodeKind = "class"
	NodeKindFunction NodeKind = "function"
	NodeKindMethod   NodeKind = "method"
)

// EdgeKind classifies a relationship between two symbols.
type EdgeKind string

const (
	EdgeKindExtends      EdgeKind = "extends"
	EdgeKindInstantiates EdgeKind = "instantiates"
	EdgeKindCalls        EdgeKind = "calls"
	EdgeKindStaticCall   EdgeKind = "static_call"
	EdgeKindMethodCall   EdgeKind = "method_call"
)

// Node is a declared symbol in the graph.
//
// ID is globally unique across the scanned tree (methods are qualified as
// "Class::method"). Label is the display name: for methods the unqualified
// method name, otherwise the identifier after the last namespace separator.
// InDegree/OutDegree are derived; they are zero until Builder.Finalize.
type Node struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Kind      NodeKind `json:"type"`
	File      string   `json:"file"`
	Line      int      `json:"line"`
	InDegree  int      `json:"in_degree"`
	OutDegree int      `json:"out_degree"`
}

// Edge is a directed relationship occurrence.
//
// Target may be a literal name with no corresponding declared node (an
// unresolved callee, or a wildcard receiver). Such edges are retained as-is;
// they never fabricate a node. Edges form a multiset: repeated call sites
// produce repeated edges.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"type"`
	File   string   `json:"file,omitempty"`
	Line   int      `json:"line,omitempty"`
}

// FileResult holds one file's extraction output before graph assembly.
type FileResult struct {
	Nodes   []Node
	Edges   []Edge
	Imports []Import
}

// Import records an import/use statement. Imports are surfaced for
// downstream consumers but contribute no nodes or edges.
type Import struct {
	Module string `json:"module"`
	Alias  string `json:"alias,omitempty"`
	Line   int    `json:"line"`
}

// Stats summarizes a finalized graph.
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
	Classes    int `json:"classes"`
	Methods    int `json:"methods"`
	Functions  int `json:"functions"`
}

// Graph is the finalized node index plus edge multiset.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// IsWildcard reports whether id is a sentinel for an unresolved receiver
// ("*.name" in the JS family, "*::name" in the PHP family). Wildcard targets
// are a deliberate under-approximation, not an error: they let consumers
// distinguish resolved edges from unknown-receiver edges.
func IsWildcard(id string) bool {
	return strings.HasPrefix(id, "*.") || strings.HasPrefix(id, "*::")
}
