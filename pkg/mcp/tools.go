package mcp

import "github.com/mark3labs/mcp-go/mcp"

func graphStatsTool() mcp.Tool {
	return mcp.NewTool("graph_stats",
		mcp.WithDescription("Summary statistics for the scanned tree: total nodes, total edges, and per-kind node counts."),
	)
}

func topConnectedTool() mcp.Tool {
	return mcp.NewTool("top_connected",
		mcp.WithDescription("Nodes ranked by in_degree + out_degree, most connected first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of nodes to return (default 10)."),
		),
	)
}

func getNodeTool() mcp.Tool {
	return mcp.NewTool("get_node",
		mcp.WithDescription("Look up one symbol node by its fully qualified identifier (methods are qualified as Class::method)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier."),
		),
	)
}

func nodeEdgesTool() mcp.Tool {
	return mcp.NewTool("node_edges",
		mcp.WithDescription("Relationship edges touching a symbol. Includes edges whose other endpoint is undeclared or a wildcard receiver."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier."),
		),
		mcp.WithString("direction",
			mcp.Description(`"in" (node is target), "out" (node is source) or "both" (default).`),
		),
	)
}

func searchNodesTool() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Case-insensitive substring search over node identifiers and labels."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match."),
		),
		mcp.WithString("kind",
			mcp.Description(`Optional node kind filter: "class", "method" or "function".`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matches to return (default 20)."),
		),
	)
}
