package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseLevels turns a comma-separated list like "3,4,5" into difficulty levels.
func parseLevels(s string) ([]int, error) {
	var levels []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid difficulty level %q", part)
		}
		levels = append(levels, n)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no difficulty levels given")
	}
	return levels, nil
}

// --- Tool definitions ---

var toolGeneratePlan = mcp.NewTool("generate_plan",
	mcp.WithDescription("Generate a workout plan: one column of exercises per difficulty level, balanced across muscle-group areas. The plan is stored and returned with its ID."),
	mcp.WithString("levels", mcp.Required(), mcp.Description("Comma-separated target difficulty levels, one workout day each (e.g. '3,4,5')")),
	mcp.WithBoolean("coverage", mcp.Description("Guarantee at least one exercise per area with random fill (default true)")),
	mcp.WithNumber("tolerance", mcp.Description("Allowed deviation between achieved and target mean difficulty (default 0.5)")),
	mcp.WithNumber("seed", mcp.Description("Fixed random seed for a reproducible plan")),
)

var toolGetCatalog = mcp.NewTool("get_catalog",
	mcp.WithDescription("List all exercises in the catalog with their muscle-group area and difficulty score."),
)

var toolGetAreaSummary = mcp.NewTool("get_area_summary",
	mcp.WithDescription("Per-area statistics of the exercise catalog: exercise count and mean/min/max difficulty."),
)

var toolFindExercises = mcp.NewTool("find_exercises",
	mcp.WithDescription("Find catalog exercises within a difficulty range."),
	mcp.WithNumber("min", mcp.Required(), mcp.Description("Minimum difficulty (inclusive)")),
	mcp.WithNumber("max", mcp.Required(), mcp.Description("Maximum difficulty (inclusive)")),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List recently generated workout plans, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of plans to return (default 10)")),
)

var toolGetLatestPlan = mcp.NewTool("get_latest_plan",
	mcp.WithDescription("Retrieve the most recently generated workout plan with all its exercises."),
)

// --- Tool handlers ---

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levels, err := parseLevels(req.GetString("levels", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	genReq := workout.GenerateRequest{
		Levels:    levels,
		Coverage:  req.GetBool("coverage", true),
		Tolerance: req.GetFloat("tolerance", 0),
	}
	if seed := req.GetFloat("seed", -1); seed >= 0 {
		s := uint64(seed)
		genReq.Seed = &s
	}

	record, err := h.ds.GeneratePlan(ctx, genReq)
	if err != nil {
		h.log.Error("mcp generate_plan", "error", err)
		return mcp.NewToolResultError("plan generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(record)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.Catalog(ctx)
	if err != nil {
		h.log.Error("mcp get_catalog", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAreaSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.AreaSummary(ctx)
	if err != nil {
		h.log.Error("mcp get_area_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) findExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	min := req.GetFloat("min", 0)
	max := req.GetFloat("max", 0)
	if max < min {
		return mcp.NewToolResultError("max must be >= min"), nil
	}

	records, err := h.ds.FindExercises(ctx, min, max)
	if err != nil {
		h.log.Error("mcp find_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit < 1 {
		limit = 10
	}

	plans, err := h.ds.RecentPlans(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plans)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := h.ds.LatestPlan(ctx)
	if err != nil {
		h.log.Error("mcp get_latest_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(record)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
