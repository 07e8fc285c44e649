// Package chatapi provides a typed HTTP client for the chatbot web API.
// Skipper uses it to probe readiness after launching the server; the
// remaining routes are consumed by the operator's own integration, not here.
package chatapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// Routes lists the endpoints the server exposes, for the launch summary.
var Routes = []string{
	"POST /api/session/create",
	"POST /api/upload",
	"POST /api/query",
	"GET  /api/health",
}

// Client wraps the chatbot server's HTTP API.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a client pointing at baseURL (e.g. "http://localhost:5000").
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// HealthResponse maps to GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health fetches the server's health status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("health %d: %s", resp.StatusCode, string(b))
	}
	var h HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &h, nil
}

// WaitReady polls the health endpoint until it answers, the budget elapses,
// or ctx is cancelled. The clock is injected so the wait is testable.
func (c *Client) WaitReady(ctx context.Context, clock clockwork.Clock, budget, interval time.Duration) error {
	deadline := clock.Now().Add(budget)
	for {
		if _, err := c.Health(ctx); err == nil {
			return nil
		}
		if !clock.Now().Before(deadline) {
			return fmt.Errorf("server at %s not healthy after %s", c.BaseURL, budget)
		}
		select {
		case <-clock.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
