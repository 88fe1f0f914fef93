package parcel

import (
	"context"
	"time"
)

// BranchesClient provides access to branch operations.
type BranchesClient interface {
	List(ctx context.Context, page *PageRequest) (*Page[Branch], error)
	Get(ctx context.Context, id string) (*Branch, error)
	Create(ctx context.Context, request *BranchCreateRequest) (*Branch, error)
	Update(ctx context.Context, id string, request *BranchUpdateRequest) (*Branch, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) (*Branch, error)
	Unarchive(ctx context.Context, id string) (*Branch, error)
	Search(ctx context.Context, request *BranchSearchRequest, page *PageRequest) (*Page[Branch], error)
}

// DispatchersClient provides access to dispatcher operations.
type DispatchersClient interface {
	List(ctx context.Context, page *PageRequest) (*Page[Dispatcher], error)
	Get(ctx context.Context, id string) (*Dispatcher, error)
	Create(ctx context.Context, request *DispatcherCreateRequest) (*Dispatcher, error)
	Update(ctx context.Context, id string, request *DispatcherUpdateRequest) (*Dispatcher, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, request *DispatcherSearchRequest, page *PageRequest) (*Page[Dispatcher], error)
}

// CustomersClient provides access to customer operations.
type CustomersClient interface {
	List(ctx context.Context, page *PageRequest) (*Page[Customer], error)
	Get(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, id string, request *CustomerUpdateRequest) (*Customer, error)
	Search(ctx context.Context, request *CustomerSearchRequest, page *PageRequest) (*Page[Customer], error)
}

// ParcelsClient provides access to parcel operations.
type ParcelsClient interface {
	Create(ctx context.Context, request *ParcelCreateRequest) (*Parcel, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, request *ParcelSearchRequest, page *PageRequest) (*Page[Parcel], error)
	Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error)
	UpdateStatus(ctx context.Context, id string, request *ParcelStatusUpdateRequest) (*MessageResponse, error)

	// Receipt downloads the parcel receipt as raw bytes. Receipts bypass
	// the cache entirely: never stored, never tagged.
	Receipt(ctx context.Context, id string) ([]byte, error)

	Sent(ctx context.Context, customerID string, page *PageRequest) (*Page[Parcel], error)
	Received(ctx context.Context, customerID string, page *PageRequest) (*Page[Parcel], error)
	All(ctx context.Context, customerID string, page *PageRequest) (*Page[Parcel], error)
	SentCount(ctx context.Context, customerID string) (int64, error)
	ReceivedCount(ctx context.Context, customerID string) (int64, error)
	AllCount(ctx context.Context, customerID string) (int64, error)
}

// UsersClient provides access to system-user operations.
type UsersClient interface {
	List(ctx context.Context, page *PageRequest) (*Page[User], error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, request *UserCreateRequest) (*User, error)
	Update(ctx context.Context, id string, request *UserUpdateRequest) (*User, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, request *UserSearchRequest, page *PageRequest) (*Page[User], error)
	Suspend(ctx context.Context, id string) (*User, error)
	Reinstate(ctx context.Context, id string) (*User, error)
	Activate(ctx context.Context, id string) (*User, error)
	Deactivate(ctx context.Context, id string) (*User, error)
}

// ConfigurationsClient provides access to the singleton delivery-cost
// configuration.
type ConfigurationsClient interface {
	Get(ctx context.Context) (*Configuration, error)
	Update(ctx context.Context, request *Configuration) (*Configuration, error)
}

// DashboardClient provides access to read-only dashboard aggregates.
type DashboardClient interface {
	ParcelStatistics(ctx context.Context) (*ParcelStatistics, error)
	MonthlyStats(ctx context.Context) ([]MonthlyParcelStats, error)
	RecentDeliveries(ctx context.Context) ([]RecentDelivery, error)
}

// AuthClient provides the session lifecycle operations. Login calls only
// perform the network exchange; FetchProfile is what populates the session
// store.
type AuthClient interface {
	Login(ctx context.Context, request *LoginRequest) (*ProfileResponse, error)
	InitiatePhoneLogin(ctx context.Context, request *InitiatePhoneLoginRequest) (*MessageResponse, error)
	PhoneLogin(ctx context.Context, request *PhoneLoginRequest) (*ProfileResponse, error)
	Logout(ctx context.Context) error
	FetchProfile(ctx context.Context) (Principal, error)
}

// DirectoryClients groups the people-and-places resource clients.
type DirectoryClients interface {
	Branches() BranchesClient
	Dispatchers() DispatchersClient
	Customers() CustomersClient
	Users() UsersClient
}

// DeliveryClients groups the parcel-movement resource clients.
type DeliveryClients interface {
	Parcels() ParcelsClient
}

// InsightClients groups read-mostly configuration and reporting clients.
type InsightClients interface {
	Dashboard() DashboardClient
	Configurations() ConfigurationsClient
}

// Client is the full delivery API client.
type Client interface {
	DirectoryClients
	DeliveryClients
	InsightClients

	Auth() AuthClient

	// Session exposes the session store route guards read.
	Session() *SessionStore

	// InvalidateTags forces a refresh for actions not modeled as mutations.
	InvalidateTags(ctx context.Context, tags []Tag)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Scheduler defers work. The default implementation is a plain timer; tests
// substitute a synchronous one to observe the logout clear-then-reset gap.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler is the default timer-backed Scheduler.
type TimerScheduler struct{}

// AfterFunc runs f after d on its own goroutine.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Config represents client configuration.
type Config struct {
	// BaseURL is the backend origin (e.g. "https://api.example.com"). The
	// versioned /api/v1 prefix is added per request. parcelclient.New
	// normalizes this value by trimming a trailing slash and adding
	// "https://" when no scheme is present.
	BaseURL string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPTimeout is the per-request timeout; prefer context deadlines.
	HTTPTimeout time.Duration

	// RetryMax is the maximum retry count for transient transport
	// failures. The interceptor itself never retries.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables verbose request/response logging via Logger.
	Debug bool

	// Logger is the optional structured logger.
	Logger Logger

	// Cache selects the cache backend; nil means in-memory defaults.
	Cache *CacheConfig

	// Navigator receives the interceptor's redirects. Nil disables
	// navigation side effects (errors are still classified and returned).
	Navigator Navigator

	// Paths overrides the protected/auth-flow path allowlists.
	Paths *PathConfig

	// Scheduler overrides deferred-work scheduling; nil uses timers.
	Scheduler Scheduler
}
