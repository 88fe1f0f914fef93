package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const configurationsPath = constants.APIPrefix + "/configurations"

const epConfigurationsGet = "configurations.get"

// ConfigurationsClient implements parcel.ConfigurationsClient. The
// delivery-cost configuration is a singleton outside the tag categories, so
// Update drops its one cache key directly.
type ConfigurationsClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewConfigurationsClient creates a new configurations client.
func NewConfigurationsClient(httpClient *http.Client, registry *parcel.Registry) *ConfigurationsClient {
	return &ConfigurationsClient{httpClient: httpClient, registry: registry}
}

// Get implements parcel.ConfigurationsClient.Get.
func (c *ConfigurationsClient) Get(ctx context.Context) (*parcel.Configuration, error) {
	data, err := c.registry.Fetch(ctx, epConfigurationsGet, nil, nil,
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, configurationsPath, nil)
			if err != nil {
				return nil, fmt.Errorf("getting configuration: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.Configuration](data, "configuration")
}

// Update implements parcel.ConfigurationsClient.Update.
func (c *ConfigurationsClient) Update(ctx context.Context, request *parcel.Configuration) (*parcel.Configuration, error) {
	resp, err := c.httpClient.Put(ctx, configurationsPath, request)
	if err != nil {
		return nil, fmt.Errorf("updating configuration: %w", err)
	}

	config, err := decodeResource[parcel.Configuration](resp.Body, "configuration")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateKey(ctx, epConfigurationsGet, nil)

	return config, nil
}
