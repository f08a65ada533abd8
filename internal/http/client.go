package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
)

const (
	// DefaultTimeout bounds a single snapshot download.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent identifies the client as a browser. The Wayback Machine
	// may reject requests that carry no recognisable User-Agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client wraps HTTP operations with archive-specific configuration.
//
// Client provides:
//   - A fixed User-Agent header on every request
//   - A per-client request timeout
//   - Status checking that folds HTTP errors and transport errors into FetchError
//
// Example usage:
//
//	client := NewClient(WithTimeout(15 * time.Second))
//
//	// Fetch an archived page
//	body, err := client.Get(ctx, "https://web.archive.org/web/20200101000000/http://example.com/")
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTransport swaps the underlying round tripper. Tests use this to install
// mock transports.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient creates a new HTTP client.
//
// Without options the client is configured with:
//   - 15 second timeout
//   - a browser-like User-Agent header
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the User-Agent header value sent with each request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Request returns a request builder bound to this client's transport,
// timeout and User-Agent. Callers add parameters and handlers before
// calling Fetch.
//
// Example:
//
//	var rows [][]string
//	err := client.Request(endpoint).
//	    Param("url", "example.com").
//	    ToJSON(&rows).
//	    Fetch(ctx)
func (c *Client) Request(rawURL string) *requests.Builder {
	return requests.
		URL(rawURL).
		Client(c.httpClient).
		UserAgent(c.userAgent)
}

// Get performs a single GET request and returns the full response body.
//
// No retries are attempted. Returns a *FetchError if:
//   - The request cannot be built or sent
//   - The response status is not 2xx
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var (
		buf    bytes.Buffer
		status int
	)
	err := c.Request(url).
		AddValidator(checkStatus(&status)).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: status, Err: err}
	}
	return buf.Bytes(), nil
}

// Fetch downloads one snapshot. It is Get under the name the download
// manager expects from its fetcher.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

// checkStatus records the response status and rejects anything outside 2xx.
func checkStatus(status *int) requests.ResponseHandler {
	return func(res *http.Response) error {
		*status = res.StatusCode
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return fmt.Errorf("unexpected status: %s", res.Status)
		}
		return nil
	}
}
