// Package server exposes the plugin registry cache to agents over MCP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pluginhub-hq/pluginhub/registry"
)

const (
	// maxOutputBytes is the maximum response size before truncation (1 MB).
	maxOutputBytes = 1 << 20
)

// Server is the pluginhub MCP server. All tools answer from the registry
// cache; a registry outage degrades to stale data, never to a tool error.
type Server struct {
	version string
	cache   *registry.Cache
}

// New creates a new MCP server over the given cache.
func New(version string, cache *registry.Cache) *Server {
	return &Server{version: version, cache: cache}
}

// Serve starts the MCP server on stdio and blocks until the client disconnects.
func (s *Server) Serve() error {
	srv := mcpserver.NewMCPServer(
		"pluginhub",
		s.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	s.registerTools(srv)
	s.registerResources(srv)

	return mcpserver.ServeStdio(srv)
}

func (s *Server) registerTools(srv *mcpserver.MCPServer) {
	// list_plugins tool — filtered, sorted, paginated catalog listing.
	srv.AddTool(
		mcp.NewTool("list_plugins",
			mcp.WithDescription("List plugins from the registry catalog, with optional filters, sorting, and pagination"),
			mcp.WithString("name",
				mcp.Description("Case-insensitive substring match on plugin name"),
			),
			mcp.WithString("category",
				mcp.Description("Exact category tag"),
			),
			mcp.WithString("integration",
				mcp.Description("Exact integration tag"),
			),
			mcp.WithString("keywords",
				mcp.Description("Comma-separated keyword terms (any match)"),
			),
			mcp.WithString("modality",
				mcp.Description("Modality that at least one of the plugin's models must support"),
			),
			mcp.WithNumber("min_price",
				mcp.Description("Minimum price, inclusive"),
			),
			mcp.WithNumber("max_price",
				mcp.Description("Maximum price, inclusive"),
			),
			mcp.WithString("sort",
				mcp.Description("Sort order"),
				mcp.Enum("name", "price", "updated"),
			),
			mcp.WithNumber("page",
				mcp.Description("1-indexed page number (default 1)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Page size (default 20)"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListPlugins,
	)

	// get_plugin tool — one record by id or display name.
	srv.AddTool(
		mcp.NewTool("get_plugin",
			mcp.WithDescription("Get a single plugin by id or display name"),
			mcp.WithString("plugin",
				mcp.Description("Plugin id, or display name (case-insensitive)"),
				mcp.Required(),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetPlugin,
	)

	// refresh_registry tool — force a refetch, ignoring the TTL.
	srv.AddTool(
		mcp.NewTool("refresh_registry",
			mcp.WithDescription("Force a registry refetch, ignoring the cache TTL"),
		),
		s.handleRefresh,
	)

	// registry_stats tool — aggregate catalog counts.
	srv.AddTool(
		mcp.NewTool("registry_stats",
			mcp.WithDescription("Get catalog statistics: totals, facet counts, last update and cache expiry"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleStats,
	)

	// list_facets tool — distinct categories, integrations, and modalities.
	srv.AddTool(
		mcp.NewTool("list_facets",
			mcp.WithDescription("List the distinct category, integration, and modality tags in the catalog"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleFacets,
	)
}

func (s *Server) registerResources(srv *mcpserver.MCPServer) {
	srv.AddResource(
		mcp.NewResource("pluginhub://catalog", "Plugin Catalog",
			mcp.WithResourceDescription("All plugin records in the current registry snapshot"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceCatalog,
	)

	srv.AddResource(
		mcp.NewResource("pluginhub://stats", "Registry Stats",
			mcp.WithResourceDescription("Aggregate statistics for the current registry snapshot"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceStats,
	)
}

// listPage is the list_plugins response payload.
type listPage struct {
	Plugins    []registry.Plugin `json:"plugins"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
}

func (s *Server) handleListPlugins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Warm the cache; on outage this serves the retained snapshot.
	s.cache.Plugins(ctx)

	crit := registry.Criteria{
		Name:        request.GetString("name", ""),
		Category:    request.GetString("category", ""),
		Integration: request.GetString("integration", ""),
		Modality:    request.GetString("modality", ""),
	}
	if kw := request.GetString("keywords", ""); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				crit.Keywords = append(crit.Keywords, k)
			}
		}
	}
	if min := request.GetFloat("min_price", math.NaN()); !math.IsNaN(min) {
		crit.MinPrice = &min
	}
	if max := request.GetFloat("max_price", math.NaN()); !math.IsNaN(max) {
		crit.MaxPrice = &max
	}

	records := s.cache.Filter(crit)

	switch request.GetString("sort", "") {
	case "name":
		registry.SortByName(records)
	case "price":
		registry.SortByPrice(records)
	case "updated":
		registry.SortByRecency(records)
	}

	total := len(records)
	page := request.GetInt("page", 1)
	limit := request.GetInt("limit", 20)
	records, totalPages := registry.Paginate(records, page, limit)

	return jsonResult(listPage{
		Plugins:    records,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

func (s *Server) handleGetPlugin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("plugin")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: plugin"), nil
	}

	s.cache.Plugins(ctx)

	p, ok := s.cache.PluginByID(key)
	if !ok {
		if id, found := s.cache.IDByName(key); found {
			p, ok = s.cache.PluginByID(id)
		}
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plugin %q not found", key)), nil
	}

	return jsonResult(p)
}

func (s *Server) handleRefresh(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := s.cache.Refresh(ctx)
	stats := s.cache.Stats()

	summary := fmt.Sprintf("Registry refreshed: %d plugins, %d categories, %d integrations",
		len(records), stats.Categories, stats.Integrations)
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.cache.Plugins(ctx)
	return jsonResult(s.cache.Stats())
}

// facets is the list_facets response payload.
type facets struct {
	Categories   []string `json:"categories"`
	Integrations []string `json:"integrations"`
	Modalities   []string `json:"modalities"`
}

func (s *Server) handleFacets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.cache.Plugins(ctx)
	return jsonResult(facets{
		Categories:   s.cache.Categories(),
		Integrations: s.cache.Integrations(),
		Modalities:   s.cache.Modalities(),
	})
}

// Resource handlers.

func (s *Server) handleResourceCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records := s.cache.Plugins(ctx)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generating catalog JSON: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

func (s *Server) handleResourceStats(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.cache.Plugins(ctx)
	data, err := json.MarshalIndent(s.cache.Stats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generating stats JSON: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

// jsonResult marshals v into a truncated text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(truncate(string(data))), nil
}

// truncate limits output to maxOutputBytes, appending a truncation notice if needed.
func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "\n... [truncated: output exceeded 1MB limit]"
}
