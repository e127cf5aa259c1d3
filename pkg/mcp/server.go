// Package mcp exposes the stylesheet engine to editor agents over the Model
// Context Protocol.
package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/twgen/pkg/engine"
	"github.com/gnana997/twgen/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for twgen, exposing utility lookup and
// stylesheet generation tools.
type Server struct {
	mcpServer *server.MCPServer
	builder   *engine.Builder
	publisher *engine.Publisher // may be nil; build_stylesheet then never writes
	logger    *mcplog.Logger    // may be nil

	// builds are serialized so a tool call never races another build.
	buildMu sync.Mutex
}

// NewServer creates a new MCP server backed by b. pub and logger are optional.
func NewServer(b *engine.Builder, pub *engine.Publisher, logger *mcplog.Logger) *Server {
	s := &Server{builder: b, publisher: pub, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("twgen", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listUtilitiesTool(), Handler: s.handleListUtilities},
		server.ServerTool{Tool: explainClassTool(), Handler: s.handleExplainClass},
		server.ServerTool{Tool: generateCSSTool(), Handler: s.handleGenerateCSS},
		server.ServerTool{Tool: buildStylesheetTool(), Handler: s.handleBuildStylesheet},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
