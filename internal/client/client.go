// Package client implements the parcel.Client interface.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired = errors.New("API base URL is required")
)

// Client implements the parcel.Client interface.
type Client struct {
	httpClient *http.Client
	registry   *parcel.Registry
	session    *parcel.SessionStore
	scheduler  parcel.Scheduler
	logger     parcel.Logger
	baseURL    string

	// Resource clients
	branches       parcel.BranchesClient
	dispatchers    parcel.DispatchersClient
	customers      parcel.CustomersClient
	parcels        parcel.ParcelsClient
	users          parcel.UsersClient
	dashboard      parcel.DashboardClient
	configurations parcel.ConfigurationsClient
	auth           parcel.AuthClient
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *parcel.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new delivery API client.
func New(config *parcel.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	cacheConfig := config.Cache
	if cacheConfig == nil {
		cacheConfig = parcel.DefaultCacheConfig()
	}

	cache, err := parcel.NewCacheFromConfig(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("creating cache backend: %w", err)
	}

	registry := parcel.NewRegistry(cache, cacheConfig.TTL)
	session := parcel.NewSessionStore()

	paths := parcel.DefaultPathConfig()
	if config.Paths != nil {
		paths = *config.Paths
	}

	chain := parcel.NewInterceptorChain()
	chain.AddRequestInterceptor(parcel.RequestIDInterceptor())

	if config.Debug && config.Logger != nil {
		chain.AddRequestInterceptor(parcel.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(parcel.LoggingResponseInterceptor(config.Logger))
	}

	if config.Navigator != nil {
		chain.AddResponseInterceptor(parcel.NewAuthRedirectInterceptor(session, config.Navigator, paths))
	}

	httpClient := http.NewClient(config.BaseURL, chain, createHTTPClientOptions(config)...)

	scheduler := config.Scheduler
	if scheduler == nil {
		scheduler = parcel.TimerScheduler{}
	}

	client := &Client{
		httpClient: httpClient,
		registry:   registry,
		session:    session,
		scheduler:  scheduler,
		logger:     config.Logger,
		baseURL:    config.BaseURL,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.branches = NewBranchesClient(c.httpClient, c.registry)
	c.dispatchers = NewDispatchersClient(c.httpClient, c.registry)
	c.customers = NewCustomersClient(c.httpClient, c.registry)
	c.parcels = NewParcelsClient(c.httpClient, c.registry)
	c.users = NewUsersClient(c.httpClient, c.registry)
	c.dashboard = NewDashboardClient(c.httpClient, c.registry)
	c.configurations = NewConfigurationsClient(c.httpClient, c.registry)
	c.auth = NewAuthClient(c.httpClient, c.registry, c.session, c.scheduler)
}

// Branches implements parcel.Client.Branches.
func (c *Client) Branches() parcel.BranchesClient {
	return c.branches
}

// Dispatchers implements parcel.Client.Dispatchers.
func (c *Client) Dispatchers() parcel.DispatchersClient {
	return c.dispatchers
}

// Customers implements parcel.Client.Customers.
func (c *Client) Customers() parcel.CustomersClient {
	return c.customers
}

// Parcels implements parcel.Client.Parcels.
func (c *Client) Parcels() parcel.ParcelsClient {
	return c.parcels
}

// Users implements parcel.Client.Users.
func (c *Client) Users() parcel.UsersClient {
	return c.users
}

// Dashboard implements parcel.Client.Dashboard.
func (c *Client) Dashboard() parcel.DashboardClient {
	return c.dashboard
}

// Configurations implements parcel.Client.Configurations.
func (c *Client) Configurations() parcel.ConfigurationsClient {
	return c.configurations
}

// Auth implements parcel.Client.Auth.
func (c *Client) Auth() parcel.AuthClient {
	return c.auth
}

// Session implements parcel.Client.Session.
func (c *Client) Session() *parcel.SessionStore {
	return c.session
}

// InvalidateTags implements parcel.Client.InvalidateTags.
func (c *Client) InvalidateTags(ctx context.Context, tags []parcel.Tag) {
	c.registry.InvalidateTags(ctx, tags)
}

// Registry exposes the cache registry for advanced callers and tests.
func (c *Client) Registry() *parcel.Registry {
	return c.registry
}
