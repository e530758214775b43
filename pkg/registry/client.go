// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
// Prevents unbounded memory consumption from malicious or malformed responses.
const maxJSONResponseBytes = 10 << 20

type (
	// Client is the HTTP client shared by the built-in providers. It only
	// adds common headers; per-provider concerns (auth, pagination) live in
	// the providers themselves.
	Client struct {
		httpClient *http.Client
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client with sensible defaults.
// Defaults: httpClient=http.DefaultClient, userAgent="urlup/dev".
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "urlup/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes req with the client's common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// GetJSON fetches reqURL and decodes the JSON response body into out.
// Any non-200 status is an error; the body read is capped at
// maxJSONResponseBytes.
func (c *Client) GetJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, reqURL)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", reqURL, err)
	}
	return nil
}
