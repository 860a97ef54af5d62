package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"conegliano://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with their muscle-group areas and difficulty scores, plus per-area statistics"),
	mcp.WithMIMEType("application/json"),
)

var resLatestPlan = mcp.NewResource(
	"conegliano://latest_plan",
	"Latest Workout Plan",
	mcp.WithResourceDescription("The most recently generated workout plan"),
	mcp.WithMIMEType("application/json"),
)

// --- Resource handlers ---

func (h *handlers) catalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := h.ds.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.ds.AreaSummary(ctx)
	if err != nil {
		h.log.Warn("catalog resource: area summary failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"exercises": records,
		"areas":     summary,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) latestPlanResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	record, err := h.ds.LatestPlan(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
