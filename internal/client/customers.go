package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const customersPath = constants.APIPrefix + "/customers"

const (
	epCustomersList   = "customers.list"
	epCustomersGet    = "customers.get"
	epCustomersSearch = "customers.search"
)

// CustomersClient implements parcel.CustomersClient. Customers are created
// by the backend during phone login, so there is no Create here.
type CustomersClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewCustomersClient creates a new customers client.
func NewCustomersClient(httpClient *http.Client, registry *parcel.Registry) *CustomersClient {
	return &CustomersClient{httpClient: httpClient, registry: registry}
}

// List implements parcel.CustomersClient.List.
func (c *CustomersClient) List(ctx context.Context, page *parcel.PageRequest) (*parcel.Page[parcel.Customer], error) {
	if page == nil {
		page = &parcel.PageRequest{PageSize: constants.DefaultPageSize}
	}

	data, err := c.registry.Fetch(ctx, epCustomersList, page, pageTags[parcel.Customer](parcel.TagCustomer),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, customersPath, page.ToValues())
			if err != nil {
				return nil, fmt.Errorf("listing customers: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Customer](data, "customers list")
}

// Get implements parcel.CustomersClient.Get.
func (c *CustomersClient) Get(ctx context.Context, id string) (*parcel.Customer, error) {
	path := fmt.Sprintf("%s/%s", customersPath, id)

	data, err := c.registry.Fetch(ctx, epCustomersGet, id, singleTag(parcel.TagCustomer, id),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("getting customer: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.Customer](data, "customer")
}

// Search implements parcel.CustomersClient.Search.
func (c *CustomersClient) Search(ctx context.Context, request *parcel.CustomerSearchRequest, page *parcel.PageRequest) (*parcel.Page[parcel.Customer], error) {
	args := searchArgs{Request: request, Page: page}

	data, err := c.registry.Fetch(ctx, epCustomersSearch, args, pageTags[parcel.Customer](parcel.TagCustomer),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Post(ctx, customersPath+"/search", searchBody(request, page))
			if err != nil {
				return nil, fmt.Errorf("searching customers: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Customer](data, "customer search")
}

// Update implements parcel.CustomersClient.Update.
func (c *CustomersClient) Update(ctx context.Context, id string, request *parcel.CustomerUpdateRequest) (*parcel.Customer, error) {
	path := fmt.Sprintf("%s/%s", customersPath, id)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	customer, err := decodeResource[parcel.Customer](resp.Body, "customer")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagCustomer, id))

	return customer, nil
}
