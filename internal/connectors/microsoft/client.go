// Package microsoft provides the shared plumbing for Microsoft Graph
// connectors: an authenticated HTTP client, per-service rate limiting, and
// error mapping for Graph responses.
package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
)

// GraphBaseURL is the production Microsoft Graph endpoint.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// Client executes authenticated Microsoft Graph requests on behalf of the
// connectors. It owns the bearer token lookup and the per-service rate
// limiter; connectors own their URLs and payloads.
type Client struct {
	// BaseURL may be overridden in tests. Requests are issued against
	// BaseURL + path.
	BaseURL string

	httpClient    *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// NewClient creates a Graph client rate limited for the given service.
func NewClient(tokenProvider driven.TokenProvider, service ServiceType) *Client {
	return &Client{
		BaseURL:       GraphBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(service),
	}
}

// Do issues one Graph request. A non-nil body is JSON encoded. The caller
// owns the response and must close its body. 429 responses feed the rate
// limiter's backoff before being returned.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.DoURL(ctx, method, c.BaseURL+path, body)
}

// DoURL is Do against an absolute URL, for endpoints that hand back monitor
// or download URLs outside the API base.
func (c *Client) DoURL(ctx context.Context, method, url string, body any) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.rateLimiter.RecordRateLimitError(retryAfter)
	}

	return resp, nil
}

// DoJSON issues one Graph request and decodes a 2xx response body into out.
// Non-2xx responses are mapped through ResponseError. A nil out discards the
// response body.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ResponseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Upload issues a request with a raw, non-JSON body, for drive item content.
func (c *Client) Upload(
	ctx context.Context, method, path, contentType string, content []byte,
) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph upload: %w", err)
	}
	return resp, nil
}
