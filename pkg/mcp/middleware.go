package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/twgen/pkg/mcplog"
)

// loggingMiddleware appends one JSONL entry per tool call. NewServer only
// installs it when a logger is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			_ = s.logger.Write(callEntry(req, result, err, start))
			return result, err
		}
	}
}

// callEntry summarizes a finished call. Tool-level failures (IsError results)
// carry their first text block as the error message.
func callEntry(req mcp.CallToolRequest, result *mcp.CallToolResult, err error, start time.Time) mcplog.LogEntry {
	size := mcplog.ResponseBytes(result)
	entry := mcplog.LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Params:        mcplog.SanitizeParams(req.GetArguments()),
		DurationMs:    time.Since(start).Milliseconds(),
		ResponseBytes: size,
		TokensEst:     size / 4,
	}
	switch {
	case err != nil:
		msg := err.Error()
		entry.Error = &msg
	case result != nil && result.IsError:
		entry.IsError = true
		for _, c := range result.Content {
			if tc, ok := c.(mcp.TextContent); ok {
				msg := tc.Text
				entry.Error = &msg
				break
			}
		}
	}
	return entry
}
