package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Conegliano", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Conegliano workout planner. Generate balanced workout plans from the exercise catalog, inspect per-area difficulty statistics, and retrieve previously generated plans."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolGetCatalog, Handler: h.getCatalog},
		server.ServerTool{Tool: toolGetAreaSummary, Handler: h.getAreaSummary},
		server.ServerTool{Tool: toolFindExercises, Handler: h.findExercises},
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolGetLatestPlan, Handler: h.getLatestPlan},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalogResource},
		server.ServerResource{Resource: resLatestPlan, Handler: h.latestPlanResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
