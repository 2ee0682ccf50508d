// Package api is the HTTP adapter for the appointments backend. It owns the
// one normalized error type, attaches the demo identity header to outgoing
// requests, and does nothing else: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pegaso-health/clinicctl/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// IdentitySource resolves the demo header for the currently active role.
// It is consulted on every request, at call time.
type IdentitySource interface {
	ActiveHeader() (name, value string, ok bool)
}

// Client wraps REST calls against the appointments backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	identity   IdentitySource
	logger     *logging.Logger
}

// Option configures the client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs an adapter for the backend at baseURL. identity may be
// nil when no demo headers should ever be sent.
func NewClient(baseURL string, identity IdentitySource, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		identity:   identity,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

type requestOptions struct {
	suppressIdentity bool
	query            url.Values
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

// SuppressIdentity sends the request without any demo header, e.g. for the
// unfiltered selector listings.
func SuppressIdentity() RequestOption {
	return func(o *requestOptions) { o.suppressIdentity = true }
}

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) { o.query = q }
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Do performs a request against the backend. Any failure is reported as
// *Error: TIMEOUT / NETWORK_ERROR when no response arrived, the backend's
// structured error when the body carries one, a localized per-status message
// otherwise.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	var reqOpts requestOptions
	for _, opt := range opts {
		opt(&reqOpts)
	}

	endpoint := c.baseURL + path
	if len(reqOpts.query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		endpoint += sep + reqOpts.query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: msgUnknown, Code: CodeUnknown, Details: err.Error()}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return &Error{Message: msgUnknown, Code: CodeUnknown, Details: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if !reqOpts.suppressIdentity && c.identity != nil {
		if name, value, ok := c.identity.ActiveHeader(); ok {
			req.Header.Set(name, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: msgNetwork, Code: CodeNetwork, Details: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newResponseError(resp.StatusCode, respBody)
		c.logger.Warn("backend returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"code", apiErr.Code,
		)
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{
			Message:    msgUnknown,
			StatusCode: resp.StatusCode,
			Code:       CodeUnknown,
			Details:    "decode response: " + err.Error(),
		}
	}
	return nil
}

func (c *Client) transportError(method, path string, err error) *Error {
	var urlErr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded)
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		timedOut = true
	}
	if timedOut {
		c.logger.Warn("request timed out", "method", method, "path", path)
		return &Error{Message: msgTimeout, Code: CodeTimeout, Details: err.Error()}
	}
	c.logger.Warn("request failed before a response", "method", method, "path", path, "error", err)
	return &Error{Message: msgNetwork, Code: CodeNetwork, Details: err.Error()}
}
