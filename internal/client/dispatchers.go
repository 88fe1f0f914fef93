package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const dispatchersPath = constants.APIPrefix + "/dispatchers"

const (
	epDispatchersList   = "dispatchers.list"
	epDispatchersGet    = "dispatchers.get"
	epDispatchersSearch = "dispatchers.search"
)

// DispatchersClient implements parcel.DispatchersClient.
type DispatchersClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewDispatchersClient creates a new dispatchers client.
func NewDispatchersClient(httpClient *http.Client, registry *parcel.Registry) *DispatchersClient {
	return &DispatchersClient{httpClient: httpClient, registry: registry}
}

// List implements parcel.DispatchersClient.List.
func (c *DispatchersClient) List(ctx context.Context, page *parcel.PageRequest) (*parcel.Page[parcel.Dispatcher], error) {
	if page == nil {
		page = &parcel.PageRequest{PageSize: constants.DefaultPageSize}
	}

	data, err := c.registry.Fetch(ctx, epDispatchersList, page, pageTags[parcel.Dispatcher](parcel.TagDispatcher),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, dispatchersPath, page.ToValues())
			if err != nil {
				return nil, fmt.Errorf("listing dispatchers: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Dispatcher](data, "dispatchers list")
}

// Get implements parcel.DispatchersClient.Get.
func (c *DispatchersClient) Get(ctx context.Context, id string) (*parcel.Dispatcher, error) {
	path := fmt.Sprintf("%s/%s", dispatchersPath, id)

	data, err := c.registry.Fetch(ctx, epDispatchersGet, id, singleTag(parcel.TagDispatcher, id),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("getting dispatcher: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.Dispatcher](data, "dispatcher")
}

// Search implements parcel.DispatchersClient.Search.
func (c *DispatchersClient) Search(ctx context.Context, request *parcel.DispatcherSearchRequest, page *parcel.PageRequest) (*parcel.Page[parcel.Dispatcher], error) {
	args := searchArgs{Request: request, Page: page}

	data, err := c.registry.Fetch(ctx, epDispatchersSearch, args, pageTags[parcel.Dispatcher](parcel.TagDispatcher),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Post(ctx, dispatchersPath+"/search", searchBody(request, page))
			if err != nil {
				return nil, fmt.Errorf("searching dispatchers: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Dispatcher](data, "dispatcher search")
}

// Create implements parcel.DispatchersClient.Create.
func (c *DispatchersClient) Create(ctx context.Context, request *parcel.DispatcherCreateRequest) (*parcel.Dispatcher, error) {
	resp, err := c.httpClient.Post(ctx, dispatchersPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	dispatcher, err := decodeResource[parcel.Dispatcher](resp.Body, "dispatcher")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagDispatcher)})

	return dispatcher, nil
}

// Update implements parcel.DispatchersClient.Update.
func (c *DispatchersClient) Update(ctx context.Context, id string, request *parcel.DispatcherUpdateRequest) (*parcel.Dispatcher, error) {
	path := fmt.Sprintf("%s/%s", dispatchersPath, id)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating dispatcher: %w", err)
	}

	dispatcher, err := decodeResource[parcel.Dispatcher](resp.Body, "dispatcher")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagDispatcher, id))

	return dispatcher, nil
}

// Delete implements parcel.DispatchersClient.Delete.
func (c *DispatchersClient) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", dispatchersPath, id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting dispatcher: %w", err)
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagDispatcher, id))

	return nil
}
