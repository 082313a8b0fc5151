package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with its tool dependencies.
type Server struct {
	server   *mcp.Server
	searcher Searcher
	registry Registry
}

// Config holds server dependencies.
type Config struct {
	Searcher Searcher
	Registry Registry
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "pdfrag-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Semantic search across all indexed PDF documents. Returns ranked text chunks balanced across documents.",
	}, makeSearchHandler(cfg.Searcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all indexed PDF documents with their chunk counts.",
	}, makeListHandler(cfg.Registry))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an indexed document and all its chunks. Deleting an unknown document is a no-op.",
	}, makeDeleteHandler(cfg.Registry))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_index_status",
		Description: "Get index status: document count, total chunks, and indexed filenames.",
	}, makeStatusHandler(cfg.Registry))

	return &Server{
		server:   server,
		searcher: cfg.Searcher,
		registry: cfg.Registry,
	}
}

// Run starts the server with stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a Streamable HTTP handler for mounting the MCP
// server on a route, e.g. "/mcp". Stateless: every request carries its
// full tool call, and the server never initiates requests of its own.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
