// Package mcpserver binds the tool registry to a Model Context Protocol server.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	stdlog "log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"taskmcp/internal/tools"
)

// Info identifies the server to MCP clients.
type Info struct {
	Name    string
	Version string
}

// Server exposes every registered tool over MCP.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tools.Dispatcher
	log        *logrus.Entry
}

// New creates an MCP server with one MCP tool per registered tool.
func New(d *tools.Dispatcher, info Info, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		mcp: server.NewMCPServer(
			info.Name,
			info.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		dispatcher: d,
		log:        log.WithField("component", "mcp"),
	}

	for _, t := range d.Registry().All() {
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Schema()), s.handler(t.Name()))
	}
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.CallTool(ctx, name, req.GetArguments()), nil
	}
}

// CallTool runs a tool and converts the outcome to an MCP tool result.
// Failures become results with IsError set, never protocol errors.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	result, err := s.dispatcher.Call(ctx, name, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.log.WithError(err).WithField("tool", name).Error("encode tool result")
		return mcp.NewToolResultError("failed to encode result")
	}
	return mcp.NewToolResultText(string(data))
}

// ServeStdio serves newline-delimited JSON-RPC on in/out until ctx is
// cancelled or in reaches EOF.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(s.log.WriterLevel(logrus.ErrorLevel), "", 0))

	s.log.Info("serving MCP on stdio")
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns a streamable HTTP handler for the server.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}
