package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Session lifecycle.
const (
	// LogoutCacheResetDelay is the gap between the immediate session clear
	// and the full cache reset on logout. Requests already in flight when
	// logout fires resolve against the old cache instead of being dropped
	// mid-transition.
	LogoutCacheResetDelay = 1 * time.Second
)

// Pagination defaults.
const (
	// DefaultPageNumber is the first page of paginated reads.
	DefaultPageNumber = 0

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 10

	// MaxPageSize is the largest page size the backend accepts.
	MaxPageSize = 100
)

// Cache defaults.
const (
	// DefaultCacheSize is the maximum number of entries in the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a cache entry stays fresh.
	DefaultCacheTTL = 5 * time.Minute
)

// Navigation targets used by the response interceptor.
const (
	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/authentication/login"

	// ForbiddenPath is the static 403 page.
	ForbiddenPath = "/error/403"

	// MaintenancePath is shown when the backend is unreachable.
	MaintenancePath = "/maintenance"
)

// APIPrefix is the versioned prefix for every backend endpoint.
const APIPrefix = "/api/v1"
