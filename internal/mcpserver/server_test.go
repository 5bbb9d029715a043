package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fonds/internal/models"
)

// fakeBackend serves records from a uri-keyed map.
type fakeBackend struct {
	records map[string]*models.Record
	refIDs  map[string]string
}

func (f *fakeBackend) RecordByURI(_ context.Context, uri string) (*models.Record, error) {
	rec, ok := f.records[uri]
	if !ok {
		return nil, &notFoundError{uri}
	}
	return rec, nil
}

func (f *fakeBackend) ResolveRefID(_ context.Context, refID string) (string, error) {
	refID = strings.TrimPrefix(refID, "aspace_")
	uri, ok := f.refIDs[refID]
	if !ok {
		return "", &notFoundError{refID}
	}
	return uri, nil
}

func (f *fakeBackend) ResolveComponentID(ctx context.Context, componentID string) (string, error) {
	return f.ResolveRefID(ctx, componentID)
}

type notFoundError struct{ what string }

func (e *notFoundError) Error() string { return "not found: " + e.what }

func testServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{
		records: map[string]*models.Record{},
		refIDs:  map[string]string{},
	}
	return New(backend), backend
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go exposes no direct call-tool test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_record":
		result, err = srv.getRecord(ctx, req)
	case "get_display_string":
		result, err = srv.getDisplayString(ctx, req)
	case "get_hierarchy":
		result, err = srv.getHierarchy(ctx, req)
	case "resolve_ref_id":
		result, err = srv.resolveRefID(ctx, req)
	case "format_extents":
		result, err = srv.formatExtents(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetDisplayString(t *testing.T) {
	srv, backend := testServer(t)
	uri := "/repositories/2/archival_objects/1"
	backend.records[uri] = &models.Record{
		URI:   uri,
		Title: "Correspondence, <emph>mostly</emph> outgoing",
	}

	r := callTool(t, srv, "get_display_string", map[string]interface{}{"uri": uri})
	if got := resultText(r); got != "Correspondence, mostly outgoing" {
		t.Errorf("display string = %q", got)
	}
}

func TestGetHierarchy(t *testing.T) {
	srv, backend := testServer(t)
	childURI := "/repositories/2/archival_objects/2"
	parentURI := "/repositories/2/archival_objects/1"
	backend.records[parentURI] = &models.Record{URI: parentURI, Title: "Series I"}
	backend.records[childURI] = &models.Record{
		URI:    childURI,
		Title:  "Folder 3",
		Parent: &models.Ref{Ref: parentURI},
	}

	r := callTool(t, srv, "get_hierarchy", map[string]interface{}{"uri": childURI})
	if got := resultText(r); got != "Series I" {
		t.Errorf("hierarchy = %q, want %q", got, "Series I")
	}

	r = callTool(t, srv, "get_hierarchy", map[string]interface{}{
		"uri":       childURI,
		"delimiter": "/",
	})
	if got := resultText(r); got != "Series I" {
		t.Errorf("hierarchy with delimiter = %q", got)
	}
}

func TestResolveRefID(t *testing.T) {
	srv, backend := testServer(t)
	backend.refIDs["abc123"] = "/repositories/2/archival_objects/9"

	r := callTool(t, srv, "resolve_ref_id", map[string]interface{}{"ref_id": "aspace_abc123"})
	if got := resultText(r); got != "/repositories/2/archival_objects/9" {
		t.Errorf("resolved uri = %q", got)
	}

	r = callTool(t, srv, "resolve_ref_id", map[string]interface{}{"ref_id": "missing"})
	if !r.IsError {
		t.Error("expected error for unknown ref id")
	}
}

func TestFormatExtents(t *testing.T) {
	srv, backend := testServer(t)
	uri := "/repositories/2/resources/1"
	backend.records[uri] = &models.Record{
		URI: uri,
		Extents: []models.Extent{
			{Number: "10", ExtentType: "linear feet", ContainerSummary: "8 boxes"},
		},
	}

	r := callTool(t, srv, "format_extents", map[string]interface{}{"uri": uri})
	if got := resultText(r); got != "10 linear feet (8 boxes)" {
		t.Errorf("extents = %q", got)
	}
}

func TestGetRecordMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_record", map[string]interface{}{"uri": "/repositories/2/resources/404"})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}
