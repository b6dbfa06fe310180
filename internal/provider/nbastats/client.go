// Package nbastats fetches league-wide player statistics from the
// stats.nba.com endpoints.
//
// The stats API is unauthenticated but rejects non-browser traffic, so
// every request carries browser-style headers. Responses are tabular
// resultSets (parallel header and row arrays). A token bucket limiter
// spaces requests to stay under the API's informal rate ceiling.
package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://stats.nba.com/stats"

// Client is the shared HTTP client for all stats.nba.com endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a stats API client. requestSpacing is the minimum
// delay between consecutive requests.
func NewClient(timeout, requestSpacing time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(requestSpacing), 1),
		logger:     logger,
	}
}

var browserHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Connection":         "keep-alive",
	"Referer":            "https://www.nba.com/",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// statsResponse is the common stats.nba.com response wrapper.
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

// resultSet is one tabular block: a header array and parallel row arrays.
type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// row pairs one rowSet entry with its result set's header index.
type row struct {
	index  map[string]int
	values []interface{}
}

func (rs resultSet) rows() []row {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[h] = i
	}
	out := make([]row, len(rs.RowSet))
	for i, v := range rs.RowSet {
		out[i] = row{index: index, values: v}
	}
	return out
}

// float returns a numeric column value. Null cells and unknown columns
// report ok=false so callers can distinguish missing from zero.
func (r row) float(col string) (float64, bool) {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return 0, false
	}
	switch v := r.values[i].(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (r row) int(col string) (int, bool) {
	f, ok := r.float(col)
	return int(f), ok
}

func (r row) string(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	if s, ok := r.values[i].(string); ok {
		return s
	}
	return ""
}

// get performs a rate-limited GET against a stats endpoint.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*statsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API %s returned %d: %s", endpoint, resp.StatusCode, truncate(body, 200))
	}

	var result statsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.ResultSets) == 0 {
		return nil, fmt.Errorf("stats API %s returned no result sets", endpoint)
	}

	c.logger.Debug("fetched stats endpoint", "endpoint", endpoint)
	return &result, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
