// Package parcelclient provides the main entry point for creating parcel
// delivery API clients.
package parcelclient

import (
	"fmt"
	"strings"

	"github.com/parceldesk-io/parcel-client/internal/client"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

// New creates a new delivery API client from config, normalizing the base
// URL (trailing slash trimmed, https assumed when no scheme is given).
func New(config *parcel.Config) (parcel.Client, error) {
	if config == nil {
		return nil, parcel.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, parcel.ErrBaseURLRequired
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithBaseURL creates a client for the given backend origin with default
// settings.
func NewWithBaseURL(baseURL string) (parcel.Client, error) {
	return New(&parcel.Config{BaseURL: baseURL})
}

// NewWithNavigator creates a client wired to a navigation target, enabling
// the interceptor's redirect side effects.
func NewWithNavigator(baseURL string, nav parcel.Navigator) (parcel.Client, error) {
	return New(&parcel.Config{BaseURL: baseURL, Navigator: nav})
}
