// Package http implements the transport primitive: it issues requests with
// credentials (a cookie jar carrying the backend session) and returns a
// normalized success/error result that the interceptor chain has already
// seen.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers http.Header
}

// Response is the normalized transport result.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against the backend. It retries transient
// transport failures (the interceptor never does) and funnels every result
// through the interceptor chain exactly once.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	chain      *parcel.InterceptorChain
	logger     parcel.Logger
	userAgent  string
	debug      bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger parcel.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables verbose request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes transient-failure retries.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// NewClient creates a transport client for the given backend origin.
func NewClient(baseURL string, chain *parcel.InterceptorChain, opts ...Option) *Client {
	if chain == nil {
		chain = parcel.NewInterceptorChain()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	// Cookie-based sessions: the backend sets the session cookie on login
	// and expects it on every subsequent request.
	if jar, err := cookiejar.New(nil); err == nil {
		retryClient.HTTPClient.Jar = jar
	}

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		chain:      chain,
		userAgent:  "parcel-client-go",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Chain returns the interceptor chain for registration.
func (c *Client) Chain() *parcel.InterceptorChain {
	return c.chain
}

// Do executes a request: request interceptors, the HTTP exchange, error
// normalization, then response interceptors, in that order. Response
// interceptors observe every outcome, including network-level failures
// where no HTTP response exists.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	interceptReq := &parcel.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: cloneHeader(req.Headers),
	}

	if err := c.chain.ExecuteRequestInterceptors(ctx, interceptReq); err != nil {
		return nil, err
	}

	var bodyBytes []byte

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyBytes = data
		interceptReq.Body = data
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range interceptReq.Headers {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		unreachable := fmt.Errorf("%w: %v", parcel.ErrUnreachable, err)

		// The interceptor still sees transport-level failures; the caller
		// still gets the error after any side effects ran.
		_ = c.chain.ExecuteResponseInterceptors(ctx, interceptReq, &parcel.Response{
			StatusCode: parcel.UnreachableStatus,
			Error:      unreachable,
		})

		return nil, unreachable
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	var resultErr error
	if httpResp.StatusCode >= http.StatusBadRequest {
		resultErr = parcel.ParseAPIError(httpResp.StatusCode, respBody)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("API Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	_ = c.chain.ExecuteResponseInterceptors(ctx, interceptReq, &parcel.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		Error:      resultErr,
	})

	if resultErr != nil {
		return resp, resultErr
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func cloneHeader(h http.Header) http.Header {
	cloned := make(http.Header, len(h))
	for key, values := range h {
		cloned[key] = append([]string(nil), values...)
	}

	return cloned
}
