package parcel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents a transport result that can be intercepted. For
// network-level failures StatusCode is zero and Error carries the
// ErrUnreachable-wrapped cause.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Navigator abstracts the browsing context the interceptor redirects. The
// real implementation performs a hard navigation; tests substitute a fake.
type Navigator interface {
	// CurrentPath returns the current location as path plus optional raw
	// query ("/pages/branches?page=2").
	CurrentPath() string

	// NavigateTo performs a full navigation to the given path.
	NavigateTo(path string)
}

// PathConfig is the fixed allowlist of path prefixes the interceptor
// classifies against. Configuration, not logic, but the auth-flow list is
// what prevents a 401 on the login screen from looping.
type PathConfig struct {
	ProtectedPrefixes []string
	AuthFlowPrefixes  []string
	LoginPath         string
	ForbiddenPath     string
	MaintenancePath   string
}

// DefaultPathConfig returns the path allowlists used by the dashboard.
func DefaultPathConfig() PathConfig {
	return PathConfig{
		ProtectedPrefixes: []string{"/pages/", "/dashboard/", "/settings/"},
		AuthFlowPrefixes:  []string{"/authentication/"},
		LoginPath:         "/authentication/login",
		ForbiddenPath:     "/error/403",
		MaintenancePath:   "/maintenance",
	}
}

// Protected reports whether path is under a protected prefix.
func (c PathConfig) Protected(path string) bool {
	return hasAnyPrefix(path, c.ProtectedPrefixes)
}

// AuthFlow reports whether path is part of the auth flow itself.
func (c PathConfig) AuthFlow(path string) bool {
	return hasAnyPrefix(path, c.AuthFlowPrefixes)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// RedirectAction is the outcome of classifying one response.
type RedirectAction int

const (
	// RedirectNone leaves the caller to handle the result.
	RedirectNone RedirectAction = iota

	// RedirectLogin clears the session and navigates to the login screen
	// with a return URL.
	RedirectLogin

	// RedirectForbidden navigates to the static 403 page.
	RedirectForbidden

	// RedirectMaintenance navigates to the maintenance page.
	RedirectMaintenance
)

// UnreachableStatus is the pseudo-status passed to DecideRedirect when the
// transport never received an HTTP response.
const UnreachableStatus = 0

// DecideRedirect is the pure redirect decision: computed once per response
// from (status, currentPath), applied at most once. Only 401, 403, and
// network unreachability are global concerns; every other status is the
// calling component's responsibility.
func DecideRedirect(status int, currentPath string, cfg PathConfig) RedirectAction {
	path := stripQuery(currentPath)

	switch status {
	case http.StatusUnauthorized:
		if cfg.Protected(path) && !cfg.AuthFlow(path) {
			return RedirectLogin
		}
	case http.StatusForbidden:
		if cfg.Protected(path) {
			return RedirectForbidden
		}
	case UnreachableStatus:
		if cfg.Protected(path) {
			return RedirectMaintenance
		}
	}

	return RedirectNone
}

// LoginRedirectURL builds the login target carrying the percent-encoded
// pre-redirect path and query as returnUrl.
func LoginRedirectURL(cfg PathConfig, currentPath string) string {
	return cfg.LoginPath + "?returnUrl=" + url.QueryEscape(currentPath)
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}

	return path
}

// NewAuthRedirectInterceptor builds the single choke point for
// session-affecting side effects. It clears the session on 401 and performs
// at most one navigation per response, then always lets the original result
// continue to the caller. It never retries.
func NewAuthRedirectInterceptor(session *SessionStore, nav Navigator, cfg PathConfig) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if resp.Error == nil && resp.StatusCode < http.StatusBadRequest {
			return nil
		}

		status := resp.StatusCode
		if resp.Error != nil && IsUnreachable(resp.Error) {
			status = UnreachableStatus
		}

		// Session clear on 401 happens regardless of where the user is;
		// it is idempotent when the principal is already gone.
		if status == http.StatusUnauthorized {
			session.Clear()
		}

		currentPath := nav.CurrentPath()

		switch DecideRedirect(status, currentPath, cfg) {
		case RedirectLogin:
			nav.NavigateTo(LoginRedirectURL(cfg, currentPath))
		case RedirectForbidden:
			nav.NavigateTo(cfg.ForbiddenPath)
		case RedirectMaintenance:
			nav.NavigateTo(cfg.MaintenancePath)
		case RedirectNone:
		}

		return nil
	}
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RequestIDInterceptor stamps every outgoing request with a fresh
// X-Request-ID.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		if req.Headers.Get("X-Request-ID") == "" {
			req.Headers.Set("X-Request-ID", uuid.NewString())
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}
