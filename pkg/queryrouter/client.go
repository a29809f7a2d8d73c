package queryrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/pkg/circuitbreaker"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/httpclient"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// QueryRequest is the payload forwarded to the query router backend.
type QueryRequest struct {
	Query     string         `json:"query"`
	UserRole  string         `json:"user_role"`
	UserData  map[string]any `json:"user_data,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	IsGuest   bool           `json:"is_guest"`
}

// QueryResponse is the answer returned by the query router backend.
type QueryResponse struct {
	Response         string `json:"response"`
	AccessRestricted bool   `json:"access_restricted,omitempty"`
	SuggestedTitle   string `json:"suggested_title,omitempty"`
}

// Client talks to the query router service over HTTP.
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a query router client.
// The circuit breaker protects the chat path from a flapping router backend.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpclient.NewClientWithTimeout(timeout),
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("query_router")),
	}
}

// NewClientWithHTTPClient creates a client with an injected HTTP client (for tests).
func NewClientWithHTTPClient(baseURL string, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("query_router")),
	}
}

// Query forwards a user question to the query router and returns its answer.
// Network failures and open-breaker states are reported as ErrNetwork so the
// caller can substitute its fallback answer.
func (c *Client) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	start := time.Now()
	operation := "query"

	result, err := circuitbreaker.Execute(c.breaker, func() (*QueryResponse, error) {
		return c.doQuery(ctx, req)
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.QueryRouterRequests.WithLabelValues("error").Inc()
		metrics.QueryRouterDuration.WithLabelValues("error").Observe(duration)
		logger.LogAPICall("query_router", operation, "error", duration,
			zap.Error(err),
			zap.String("user_role", req.UserRole),
			zap.Bool("is_guest", req.IsGuest))
		return nil, errors.NetworkError("query_router", circuitbreaker.FormatError(c.breaker.Name(), err))
	}

	metrics.QueryRouterRequests.WithLabelValues("success").Inc()
	metrics.QueryRouterDuration.WithLabelValues("success").Observe(duration)
	logger.LogAPICall("query_router", operation, "success", duration,
		zap.String("user_role", req.UserRole),
		zap.Bool("is_guest", req.IsGuest),
		zap.Bool("access_restricted", result.AccessRestricted))

	return result, nil
}

func (c *Client) doQuery(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query router request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query router response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query router returned status %d: %s", resp.StatusCode, string(body))
	}

	var result QueryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query router response: %w", err)
	}

	return &result, nil
}

// State exposes the breaker state for health reporting.
func (c *Client) State() string {
	return c.breaker.State().String()
}
