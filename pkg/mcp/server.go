// Package mcp exposes a finalized code-relationship graph over the Model
// Context Protocol, so agent tooling can query symbols, edges and
// connectivity statistics without re-reading the JSON artifact.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/codegraph/pkg/graph"
)

const serverVersion = "0.1.0-dev"

// Server wraps an MCP stdio server over a finalized graph.
type Server struct {
	mcpServer *server.MCPServer
	graph     *graph.Graph
	logger    *slog.Logger
}

// NewServer creates an MCP server backed by the given graph.
func NewServer(g *graph.Graph, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{graph: g, logger: logger}

	s.mcpServer = server.NewMCPServer(
		"codegraph",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: graphStatsTool(), Handler: s.handleGraphStats},
		server.ServerTool{Tool: topConnectedTool(), Handler: s.handleTopConnected},
		server.ServerTool{Tool: getNodeTool(), Handler: s.handleGetNode},
		server.ServerTool{Tool: nodeEdgesTool(), Handler: s.handleNodeEdges},
		server.ServerTool{Tool: searchNodesTool(), Handler: s.handleSearchNodes},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
