package graph

import "sort"

// Builder merges per-file extraction results into a single graph.
//
// Nodes are keyed by ID: a later declaration of the same ID overwrites the
// node's metadata (file, line, label, kind) while all edges from both
// occurrences keep resolving against the single merged node. Edges always
// append; duplicate (source, target, kind) triples are counted every time.
//
// Builder is not safe for concurrent use. The scan pipeline is a single
// logical thread, so no locking is needed.
type Builder struct {
	nodes map[string]Node
	order []string // insertion order of first-seen IDs, for stable output
	edges []Edge
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]Node)}
}

// AddNode inserts or overwrites a node keyed by its ID.
func (b *Builder) AddNode(n Node) {
	if _, seen := b.nodes[n.ID]; !seen {
		b.order = append(b.order, n.ID)
	}
	b.nodes[n.ID] = n
}

// AddEdge appends an edge to the multiset.
func (b *Builder) AddEdge(e Edge) {
	b.edges = append(b.edges, e)
}

// AddResult merges one file's extraction output.
func (b *Builder) AddResult(res *FileResult) {
	if res == nil {
		return
	}
	for _, n := range res.Nodes {
		b.AddNode(n)
	}
	for _, e := range res.Edges {
		b.AddEdge(e)
	}
}

// NodeCount returns the number of distinct node IDs added so far.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// EdgeCount returns the number of edges added so far.
func (b *Builder) EdgeCount() int { return len(b.edges) }

// Finalize computes degrees and stats over the accumulated nodes and edges.
//
// Degree is a plain multiset cardinality: out_degree(n) counts edges whose
// source is n, in_degree(n) counts edges whose target is n. An edge endpoint
// that does not resolve to a node in the index (unknown callee, wildcard
// receiver) contributes nothing; the edge itself is still kept.
//
// The Builder can keep accepting results after Finalize; a later call
// recomputes everything from scratch.
func (b *Builder) Finalize() *Graph {
	degIn := make(map[string]int, len(b.nodes))
	degOut := make(map[string]int, len(b.nodes))
	for _, e := range b.edges {
		if _, ok := b.nodes[e.Source]; ok {
			degOut[e.Source]++
		}
		if _, ok := b.nodes[e.Target]; ok {
			degIn[e.Target]++
		}
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(b.nodes)),
		Edges: make([]Edge, len(b.edges)),
	}
	for _, id := range b.order {
		n := b.nodes[id]
		n.InDegree = degIn[id]
		n.OutDegree = degOut[id]
		g.Nodes = append(g.Nodes, n)

		switch n.Kind {
		case NodeKindClass:
			g.Stats.Classes++
		case NodeKindMethod:
			g.Stats.Methods++
		case NodeKindFunction:
			g.Stats.Functions++
		}
	}

	// Output edges drop file/line; the artifact keeps only the triple.
	for i, e := range b.edges {
		g.Edges[i] = Edge{Source: e.Source, Target: e.Target, Kind: e.Kind}
	}

	g.Stats.TotalNodes = len(g.Nodes)
	g.Stats.TotalEdges = len(g.Edges)
	return g
}

// TopConnected returns up to limit nodes ordered by in_degree + out_degree
// descending. Ties keep the graph's node order, so the result is stable for
// an unchanged tree.
func (g *Graph) TopConnected(limit int) []Node {
	ranked := make([]Node, len(g.Nodes))
	copy(ranked, g.Nodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InDegree+ranked[i].OutDegree > ranked[j].InDegree+ranked[j].OutDegree
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FindNode returns the node with the given ID, if present.
func (g *Graph) FindNode(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}
