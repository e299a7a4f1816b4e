// Package report renders the human-readable scan summary and persists the
// graph artifact.
package report

import (
	"fmt"
	"io"

	"github.com/gnana997/codegraph/pkg/graph"
)

// topCount is how many of the most connected nodes the summary shows.
const topCount = 10

// PrintSummary writes the console summary for a finalized graph: totals,
// per-kind counts and the most connected nodes by in_degree + out_degree.
func PrintSummary(w io.Writer, g *graph.Graph) {
	fmt.Fprintf(w, "Nodes: %d (classes: %d, methods: %d, functions: %d)\n",
		g.Stats.TotalNodes, g.Stats.Classes, g.Stats.Methods, g.Stats.Functions)
	fmt.Fprintf(w, "Edges: %d\n", g.Stats.TotalEdges)

	top := g.TopConnected(topCount)
	if len(top) == 0 {
		return
	}
	fmt.Fprintf(w, "\nTop %d most connected nodes:\n", len(top))
	for _, n := range top {
		total := n.InDegree + n.OutDegree
		fmt.Fprintf(w, "  - %s (%s): %d connections\n", n.Label, n.Kind, total)
	}
}

// Save persists the graph document to path.
func Save(g *graph.Graph, path string) error {
	if err := g.WriteFile(path); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	return nil
}
