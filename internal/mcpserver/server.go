// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes archival description tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fonds/internal/display"
	"github.com/starford/fonds/internal/hierarchy"
)

// Backend is the slice of the archival client the tools consume.
type Backend interface {
	hierarchy.Fetcher
	ResolveRefID(ctx context.Context, refID string) (string, error)
	ResolveComponentID(ctx context.Context, componentID string) (string, error)
}

// Server wraps the MCP server with archival description tools.
type Server struct {
	mcp      *server.MCPServer
	client   Backend
	resolver *hierarchy.Resolver
}

// New creates a new MCP server with all tools registered.
func New(client Backend) *Server {
	s := &Server{client: client, resolver: hierarchy.NewResolver(client)}

	s.mcp = server.NewMCPServer(
		"Fonds",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_record",
		mcp.WithDescription("Fetch the raw JSON document stored at a backend uri."),
		mcp.WithString("uri", mcp.Required(), mcp.Description("Record uri (e.g. /repositories/2/archival_objects/123)")),
	), s.getRecord)

	s.mcp.AddTool(mcp.NewTool("get_display_string",
		mcp.WithDescription("Render a record's display string: sanitized title with date "+
			"fallbacks, optionally prefixed with the parent's title. Follows the "+
			"conventions in the fonds://display-conventions resource."),
		mcp.WithString("uri", mcp.Required(), mcp.Description("Record uri")),
		mcp.WithBoolean("parent_title", mcp.Description("Prefix the parent's stored display string")),
	), s.getDisplayString)

	s.mcp.AddTool(mcp.NewTool("get_hierarchy",
		mcp.WithDescription("Render a record's full ancestor chain, oldest ancestor first."),
		mcp.WithString("uri", mcp.Required(), mcp.Description("Record uri")),
		mcp.WithString("delimiter", mcp.Description("Separator between levels (default \">\")")),
	), s.getHierarchy)

	s.mcp.AddTool(mcp.NewTool("resolve_ref_id",
		mcp.WithDescription("Resolve an EAD ref id (with or without the aspace_ prefix) "+
			"to an archival object uri."),
		mcp.WithString("ref_id", mcp.Required(), mcp.Description("Ref id from an EAD finding aid")),
	), s.resolveRefID)

	s.mcp.AddTool(mcp.NewTool("format_extents",
		mcp.WithDescription("Render a record's extent statements as one display string."),
		mcp.WithString("uri", mcp.Required(), mcp.Description("Record uri")),
	), s.formatExtents)

	// Resource: display conventions.
	s.mcp.AddResource(
		mcp.NewResource("fonds://display-conventions", "Display Conventions",
			mcp.WithResourceDescription("How archival description fields are rendered for display."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventionsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.client.RecordByURI(ctx, uri)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch %s: %v", uri, err)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDisplayString(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.client.RecordByURI(ctx, uri)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch %s: %v", uri, err)), nil
	}
	withParent := false
	if v, bErr := req.RequireBool("parent_title"); bErr == nil {
		withParent = v
	}
	out, err := s.resolver.DisplayString(ctx, rec, withParent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) getHierarchy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.client.RecordByURI(ctx, uri)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch %s: %v", uri, err)), nil
	}
	delimiter := hierarchy.DefaultDelimiter
	if d, dErr := req.RequireString("delimiter"); dErr == nil && d != "" {
		delimiter = d
	}
	out, err := s.resolver.Build(ctx, rec, delimiter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) resolveRefID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refID, err := req.RequireString("ref_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	uri, err := s.client.ResolveRefID(ctx, refID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve %s: %v", refID, err)), nil
	}
	return mcp.NewToolResultText(uri), nil
}

func (s *Server) formatExtents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.client.RecordByURI(ctx, uri)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch %s: %v", uri, err)), nil
	}
	if len(rec.Extents) == 0 {
		return mcp.NewToolResultText("no extents recorded"), nil
	}
	return mcp.NewToolResultText(display.FormatExtents(rec.Extents)), nil
}

func (s *Server) readConventionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "fonds://display-conventions",
			MIMEType: "text/markdown",
			Text:     DisplayConventions,
		},
	}, nil
}
