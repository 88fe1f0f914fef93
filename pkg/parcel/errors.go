package parcel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the delivery API.
type APIError struct {
	Status  int    `json:"status"            yaml:"status"`
	Message string `json:"message"           yaml:"message"`
	Path    string `json:"path,omitempty"    yaml:"path,omitempty"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Message, e.Details, e.Status)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// Common static errors that can be wrapped with context.
var (
	// ErrUnreachable marks network-level failures where no HTTP response was
	// received at all. Distinct from any 4xx/5xx status.
	ErrUnreachable = errors.New("failed to reach server")

	ErrConfigRequired     = errors.New("config is required")
	ErrBaseURLRequired    = errors.New("API base URL is required")
	ErrCacheKeyNotFound   = errors.New("key not found")
	ErrCacheEntryExpired  = errors.New("entry expired")
	ErrCacheDisabled      = errors.New("cache disabled")
	ErrNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrNATSConfigRequired = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCache   = errors.New("unsupported cache type")
	ErrNoPrincipal        = errors.New("no authenticated principal")
	ErrUnknownPrincipal   = errors.New("profile response matches no known principal shape")
)

// IsUnauthenticated checks if the error is a 401 from the API.
func IsUnauthenticated(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusForbidden
	}

	return false
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}

// IsUnreachable reports whether the transport never got an HTTP response.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// ParseAPIError parses an error response body. A body that is not valid JSON
// still yields a usable error carrying the raw text.
func ParseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}

	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
		apiErr.Details = string(data)
	}

	apiErr.Status = status

	return apiErr
}
