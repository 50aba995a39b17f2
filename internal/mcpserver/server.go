// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the module catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/modcat/internal/catalogservice"
	"github.com/starford/modcat/internal/index"
	"github.com/starford/modcat/internal/models"
)

const defaultSearchLimit = 20

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalogservice.Service
	db  index.CatalogIndex
}

// New creates a new MCP server with all catalog tools registered.
// db is optional; when set, search_catalog queries it instead of the
// in-memory catalog.
func New(svc *catalogservice.Service, db index.CatalogIndex, version string) *Server {
	s := &Server{svc: svc, db: db}

	s.mcp = server.NewMCPServer(
		"modcat",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("classify_path",
		mcp.WithDescription("Classify a relative source path without touching the filesystem. "+
			"Returns the record the catalog would hold for it."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the modules root (e.g. tracktion_engine/model/tracktion_Edit.cpp)")),
	), s.classifyPath)

	s.mcp.AddTool(mcp.NewTool("catalog_summary",
		mcp.WithDescription("Total file count, per-category counts and checksum of the current catalog."),
	), s.catalogSummary)

	s.mcp.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List cataloged file paths, optionally restricted to one category. "+
			"See the "+taxonomyURI+" resource for valid categories."),
		mcp.WithString("category", mcp.Description("Optional category tag")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of paths (default 100)")),
		mcp.WithNumber("offset", mcp.Description("Number of paths to skip")),
	), s.listFiles)

	s.mcp.AddTool(mcp.NewTool("describe_file",
		mcp.WithDescription("Return the full catalog record of one file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Cataloged path, as returned by list_files")),
	), s.describeFile)

	s.mcp.AddTool(mcp.NewTool("search_catalog",
		mcp.WithDescription("Search file paths and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchCatalog)

	s.mcp.AddResource(
		mcp.NewResource(taxonomyURI, "Catalog Taxonomy",
			mcp.WithResourceDescription("Category tags and the order in which paths are classified."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTaxonomyResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) classifyPath(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return mcp.NewToolResultError("path is empty"), nil
	}
	return jsonResult(catalogservice.Classify(p))
}

type summary struct {
	TotalFiles int            `json:"total_files"`
	Categories map[string]int `json:"categories"`
	Checksum   string         `json:"checksum"`
}

func (s *Server) catalogSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, sum := s.svc.Snapshot()
	return jsonResult(summary{
		TotalFiles: report.TotalFiles,
		Categories: s.svc.Categories(),
		Checksum:   sum,
	})
}

func (s *Server) listFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	files, total := s.svc.ListFiles(ctx, category, req.GetInt("limit", 0), req.GetInt("offset", 0))
	if total == 0 {
		return mcp.NewToolResultText("no files found"), nil
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if len(files) < total {
		paths = append(paths, fmt.Sprintf("(%d of %d shown)", len(files), total))
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) describeFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.GetFile(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", p)), nil
	}
	return jsonResult(rec)
}

func (s *Server) searchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultSearchLimit)

	var results []models.FileRecord
	if s.db != nil {
		results, err = s.db.Search(query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		results = s.svc.Search(ctx, query, limit)
	}
	if results == nil {
		results = []models.FileRecord{}
	}
	return jsonResult(results)
}

func (s *Server) readTaxonomyResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      taxonomyURI,
			MIMEType: "text/markdown",
			Text:     TaxonomyDocument(),
		},
	}, nil
}
