package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/codegraph/pkg/graph"
)

// jsonResult marshals v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGraphStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.graph.Stats)
}

func (s *Server) handleTopConnected(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	return jsonResult(s.graph.TopConnected(limit))
}

func (s *Server) handleGetNode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, ok := s.graph.FindNode(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("node not found: %s", id)), nil
	}
	return jsonResult(node)
}

func (s *Server) handleNodeEdges(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction := req.GetString("direction", "both")
	switch direction {
	case "in", "out", "both":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid direction: %q", direction)), nil
	}

	edges := make([]graph.Edge, 0)
	for _, e := range s.graph.Edges {
		if (direction == "out" || direction == "both") && e.Source == id {
			edges = append(edges, e)
			continue
		}
		if (direction == "in" || direction == "both") && e.Target == id {
			edges = append(edges, e)
		}
	}
	return jsonResult(edges)
}

func (s *Server) handleSearchNodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := req.GetString("kind", "")
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	needle := strings.ToLower(query)
	matches := make([]graph.Node, 0)
	for _, n := range s.graph.Nodes {
		if kind != "" && string(n.Kind) != kind {
			continue
		}
		if !strings.Contains(strings.ToLower(n.ID), needle) &&
			!strings.Contains(strings.ToLower(n.Label), needle) {
			continue
		}
		matches = append(matches, n)
		if len(matches) >= limit {
			break
		}
	}
	return jsonResult(matches)
}
