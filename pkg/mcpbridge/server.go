// Package mcpbridge serves token sync and the token and component transforms
// as MCP tools over stdio.
package mcpbridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

const serverName = "figma-ds-sync"

// Syncer is the Figma side of the bridge. *figmasync.Syncer implements it.
type Syncer interface {
	Pull(ctx context.Context) (*figmasync.PullResult, error)
	Push(ctx context.Context, set tokens.Set, opts figmasync.PushOptions) (*figmasync.PushResult, error)
}

// Server is the MCP server. Without a Syncer the pull and push tools
// answer with a tool error and the local tools keep working.
type Server struct {
	mcpServer *server.MCPServer
	syncer    Syncer
	logger    *slog.Logger
}

// NewServer creates the MCP server and registers its tools.
func NewServer(syncer Syncer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{syncer: syncer, logger: logger}

	s.mcpServer = server.NewMCPServer(
		serverName,
		figma.Version,
		server.WithToolCapabilities(false),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
		server.WithRecovery(),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: pullTool(), Handler: s.handlePull},
		server.ServerTool{Tool: pushTool(), Handler: s.handlePush},
		server.ServerTool{Tool: validateTool(), Handler: s.handleValidate},
		server.ServerTool{Tool: buildTool(), Handler: s.handleBuild},
		server.ServerTool{Tool: componentSpecTool(), Handler: s.handleComponentSpec},
	)

	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			attrs := []any{"tool", req.Params.Name, "duration", time.Since(start)}
			switch {
			case err != nil:
				s.logger.Error("tool call failed", append(attrs, "error", err)...)
			case result != nil && result.IsError:
				s.logger.Warn("tool call returned error", attrs...)
			default:
				s.logger.Info("tool call", attrs...)
			}
			return result, err
		}
	}
}
