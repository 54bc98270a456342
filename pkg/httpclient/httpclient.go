// Package httpclient is a small HTTP client bound to a base URL with default
// headers. Every request resolves its endpoint against the base URL and
// merges per request headers over the defaults.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"aarambh/aarambhnet/pkg/log"
)

// Client sends requests relative to a base URL.
type Client struct {
	base     *url.URL
	defaults http.Header
	hc       *http.Client
	logger   *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithLogger logs every request URL and its merged headers at verbose level.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL, which must be absolute.
// defaultHeaders may be nil.
func New(baseURL string, defaultHeaders http.Header, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse(%s): %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	c := &Client{
		base:     base,
		defaults: defaultHeaders.Clone(),
		hc:       http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.VerboseMsg("HTTP client for %s", base)
	return c, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, headers http.Header) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, headers, nil)
}

// Post sends a POST request. body may be nil.
func (c *Client) Post(ctx context.Context, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, endpoint, headers, body)
}

// Put sends a PUT request. body may be nil.
func (c *Client) Put(ctx context.Context, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, endpoint, headers, body)
}

// Patch sends a PATCH request. body may be nil.
func (c *Client) Patch(ctx context.Context, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPatch, endpoint, headers, body)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, headers http.Header) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, endpoint, headers, nil)
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, endpoint string, headers http.Header) (*http.Response, error) {
	return c.do(ctx, http.MethodHead, endpoint, headers, nil)
}

// Do sends a request with any method, for callers that pick the method at
// runtime.
func (c *Client) Do(ctx context.Context, method, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	return c.do(ctx, method, endpoint, headers, body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	u, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest(%s, %s): %w", method, u, err)
	}
	req.Header = c.merge(headers)

	c.logger.VerboseMsg("Sending %s request to %s", method, u)
	c.logger.VerboseMsg("Merged headers: %v", req.Header)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	return resp, nil
}

// resolve joins endpoint to the base URL the way a browser resolves a link.
func (c *Client) resolve(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("url.Parse(%s): %w", endpoint, err)
	}
	return c.base.ResolveReference(ref), nil
}

// merge returns the default headers overridden by extra. A key present in
// extra replaces all default values of that key.
func (c *Client) merge(extra http.Header) http.Header {
	merged := c.defaults.Clone()
	if merged == nil {
		merged = make(http.Header)
	}

	for k, vs := range extra {
		merged.Del(k)
		for _, v := range vs {
			merged.Add(k, v)
		}
	}
	return merged
}
