package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the Conegliano REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// catalog and plans live on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only needed for plan generation.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, reqBody any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTPClient) GeneratePlan(ctx context.Context, req workout.GenerateRequest) (*workout.PlanRecord, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/plans", nil, req)
	if err != nil {
		return nil, err
	}

	var record workout.PlanRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return &record, nil
}

func (c *HTTPClient) Catalog(ctx context.Context) ([]catalog.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/catalog", nil)
	if err != nil {
		return nil, err
	}

	var records []catalog.Exercise
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode catalog: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) AreaSummary(ctx context.Context) ([]catalog.AreaStats, error) {
	body, err := c.get(ctx, "/api/v1/catalog/summary", nil)
	if err != nil {
		return nil, err
	}

	var summary []catalog.AreaStats
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("httpclient: decode area summary: %w", err)
	}
	return summary, nil
}

func (c *HTTPClient) FindExercises(ctx context.Context, min, max float64) ([]catalog.Exercise, error) {
	params := url.Values{}
	params.Set("min", strconv.FormatFloat(min, 'f', -1, 64))
	params.Set("max", strconv.FormatFloat(max, 'f', -1, 64))

	body, err := c.get(ctx, "/api/v1/catalog/exercises", params)
	if err != nil {
		return nil, err
	}

	var records []catalog.Exercise
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) RecentPlans(ctx context.Context, limit int) ([]workout.PlanSummary, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/plans", params)
	if err != nil {
		return nil, err
	}

	var plans []workout.PlanSummary
	if err := json.Unmarshal(body, &plans); err != nil {
		return nil, fmt.Errorf("httpclient: decode plans: %w", err)
	}
	return plans, nil
}

func (c *HTTPClient) GetPlan(ctx context.Context, id uuid.UUID) (*workout.PlanRecord, error) {
	body, err := c.get(ctx, "/api/v1/plans/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var record workout.PlanRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return &record, nil
}

func (c *HTTPClient) LatestPlan(ctx context.Context) (*workout.PlanRecord, error) {
	body, err := c.get(ctx, "/api/v1/plans/latest", nil)
	if err != nil {
		return nil, err
	}

	var record workout.PlanRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return &record, nil
}
