package endpoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// maxErrorBodySize limits the size of error response bodies.
	maxErrorBodySize = 4096

	// DefaultTimeout is the HTTP timeout used by NewClient.
	DefaultTimeout = 30 * time.Second

	resultsMediaType = "application/sparql-results+json"
)

// Executor runs query text and returns decoded results.
type Executor interface {
	Query(ctx context.Context, text string) (*ResultSet, error)
}

// RawExecutor runs query text and returns the raw response body.
type RawExecutor interface {
	QueryRaw(ctx context.Context, text string) ([]byte, error)
}

// Client talks to one SPARQL endpoint over HTTP.
// Safe for concurrent use.
type Client struct {
	// URL is the endpoint's query URL.
	URL string

	// HTTPClient performs requests. Nil means a client with DefaultTimeout.
	HTTPClient *http.Client

	// Metrics records request outcomes. Nil disables recording.
	Metrics *Metrics

	// Logger receives request logs. Nil means slog.Default().
	Logger *slog.Logger
}

// NewClient creates a Client for endpointURL.
func NewClient(endpointURL string) *Client {
	return &Client{
		URL:        endpointURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Query executes text and decodes the SPARQL JSON response.
func (c *Client) Query(ctx context.Context, text string) (*ResultSet, error) {
	body, err := c.QueryRaw(ctx, text)
	if err != nil {
		return nil, err
	}
	rs, err := ParseResults(body)
	if err != nil {
		c.Metrics.recordDecodeFailure()
		return nil, err
	}
	return rs, nil
}

// QueryRaw POSTs text as a form-encoded query and returns the response
// body. Non-2xx responses return *HTTPError.
func (c *Client) QueryRaw(ctx context.Context, text string) ([]byte, error) {
	form := url.Values{"query": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", resultsMediaType)

	logger := c.logger()
	start := time.Now()

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.Metrics.recordRequest(OutcomeTransport, time.Since(start))
		logger.Warn("endpoint request failed", "url", c.URL, "error", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.Metrics.recordRequest(OutcomeHTTPError, time.Since(start))
		logger.Warn("endpoint returned error status", "url", c.URL, "status", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Metrics.recordRequest(OutcomeTransport, time.Since(start))
		return nil, fmt.Errorf("read response: %w", err)
	}

	elapsed := time.Since(start)
	c.Metrics.recordRequest(OutcomeOK, elapsed)
	logger.Debug("endpoint request complete", "url", c.URL, "bytes", len(body), "duration", elapsed)
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
