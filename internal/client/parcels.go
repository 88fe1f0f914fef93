package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const parcelsPath = constants.APIPrefix + "/parcels"

const (
	epParcelsSearch   = "parcels.search"
	epParcelsTrack    = "parcels.track"
	epParcelsSent     = "parcels.sent"
	epParcelsReceived = "parcels.received"
	epParcelsAll      = "parcels.all"
	epParcelsSentN    = "parcels.sent.count"
	epParcelsRecvN    = "parcels.received.count"
	epParcelsAllN     = "parcels.all.count"
)

// ParcelsClient implements parcel.ParcelsClient.
type ParcelsClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewParcelsClient creates a new parcels client.
func NewParcelsClient(httpClient *http.Client, registry *parcel.Registry) *ParcelsClient {
	return &ParcelsClient{httpClient: httpClient, registry: registry}
}

// Create implements parcel.ParcelsClient.Create. New parcels shift list
// views and the dashboard aggregates.
func (c *ParcelsClient) Create(ctx context.Context, request *parcel.ParcelCreateRequest) (*parcel.Parcel, error) {
	resp, err := c.httpClient.Post(ctx, parcelsPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating parcel: %w", err)
	}

	created, err := decodeResource[parcel.Parcel](resp.Body, "parcel")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, []parcel.Tag{
		parcel.ListTag(parcel.TagParcel),
		parcel.ListTag(parcel.TagDashboard),
	})

	return created, nil
}

// Delete implements parcel.ParcelsClient.Delete.
func (c *ParcelsClient) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", parcelsPath, id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting parcel: %w", err)
	}

	tags := append(parcel.MutationTags(parcel.TagParcel, id), parcel.ListTag(parcel.TagDashboard))
	c.registry.InvalidateTags(ctx, tags)

	return nil
}

// Search implements parcel.ParcelsClient.Search.
func (c *ParcelsClient) Search(ctx context.Context, request *parcel.ParcelSearchRequest, page *parcel.PageRequest) (*parcel.Page[parcel.Parcel], error) {
	args := searchArgs{Request: request, Page: page}

	data, err := c.registry.Fetch(ctx, epParcelsSearch, args, pageTags[parcel.Parcel](parcel.TagParcel),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Post(ctx, parcelsPath+"/search", searchBody(request, page))
			if err != nil {
				return nil, fmt.Errorf("searching parcels: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Parcel](data, "parcel search")
}

// Track implements parcel.ParcelsClient.Track. The tracking view only
// carries the public tracking number, so it is tagged under a synthetic
// parcel id; status changes still reach it through the category-wide drop.
func (c *ParcelsClient) Track(ctx context.Context, trackingNumber string) (*parcel.TrackingInfo, error) {
	path := fmt.Sprintf("%s/tracking/%s", parcelsPath, trackingNumber)

	data, err := c.registry.Fetch(ctx, epParcelsTrack, trackingNumber,
		func([]byte) []parcel.Tag {
			return []parcel.Tag{parcel.IDTag(parcel.TagParcel, "tracking-"+trackingNumber)}
		},
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("tracking parcel: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.TrackingInfo](data, "tracking info")
}

// UpdateStatus implements parcel.ParcelsClient.UpdateStatus. A status change
// ripples into every parcel-derived view (lists, per-customer slices,
// counts, tracking) and the dashboard, so it drops the whole parcel category
// rather than enumerating affected keys.
func (c *ParcelsClient) UpdateStatus(ctx context.Context, id string, request *parcel.ParcelStatusUpdateRequest) (*parcel.MessageResponse, error) {
	if !request.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidStatusValue, request.Status)
	}

	path := fmt.Sprintf("%s/%s/status", parcelsPath, id)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating parcel status: %w", err)
	}

	message, err := decodeResource[parcel.MessageResponse](resp.Body, "status update")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, []parcel.Tag{
		parcel.CategoryTag(parcel.TagParcel),
		parcel.ListTag(parcel.TagDashboard),
	})

	return message, nil
}

// Receipt implements parcel.ParcelsClient.Receipt. The PDF goes straight
// through the transport; nothing is cached.
func (c *ParcelsClient) Receipt(ctx context.Context, id string) ([]byte, error) {
	path := fmt.Sprintf("%s/receipt/%s", parcelsPath, id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading receipt: %w", err)
	}

	return resp.Body, nil
}

// Sent implements parcel.ParcelsClient.Sent.
func (c *ParcelsClient) Sent(ctx context.Context, customerID string, page *parcel.PageRequest) (*parcel.Page[parcel.Parcel], error) {
	return c.customerSlice(ctx, epParcelsSent, "sent", customerID, page)
}

// Received implements parcel.ParcelsClient.Received.
func (c *ParcelsClient) Received(ctx context.Context, customerID string, page *parcel.PageRequest) (*parcel.Page[parcel.Parcel], error) {
	return c.customerSlice(ctx, epParcelsReceived, "received", customerID, page)
}

// All implements parcel.ParcelsClient.All.
func (c *ParcelsClient) All(ctx context.Context, customerID string, page *parcel.PageRequest) (*parcel.Page[parcel.Parcel], error) {
	return c.customerSlice(ctx, epParcelsAll, "all", customerID, page)
}

// SentCount implements parcel.ParcelsClient.SentCount.
func (c *ParcelsClient) SentCount(ctx context.Context, customerID string) (int64, error) {
	return c.customerCount(ctx, epParcelsSentN, "sent", customerID)
}

// ReceivedCount implements parcel.ParcelsClient.ReceivedCount.
func (c *ParcelsClient) ReceivedCount(ctx context.Context, customerID string) (int64, error) {
	return c.customerCount(ctx, epParcelsRecvN, "received", customerID)
}

// AllCount implements parcel.ParcelsClient.AllCount.
func (c *ParcelsClient) AllCount(ctx context.Context, customerID string) (int64, error) {
	return c.customerCount(ctx, epParcelsAllN, "all", customerID)
}

// customerSliceArgs keys a per-customer parcel view.
type customerSliceArgs struct {
	CustomerID string              `json:"customerId"`
	Page       *parcel.PageRequest `json:"page,omitempty"`
}

// customerSliceTag is the synthetic id tag binding a per-customer view to
// the parcel category, so CategoryTag(TagParcel) reaches it.
func customerSliceTag(customerID, slice string) parcel.Tag {
	return parcel.IDTag(parcel.TagParcel, fmt.Sprintf("customer-%s-%s", customerID, slice))
}

func (c *ParcelsClient) customerSlice(ctx context.Context, endpoint, slice, customerID string, page *parcel.PageRequest) (*parcel.Page[parcel.Parcel], error) {
	if customerID == "" {
		return nil, constants.ErrIDRequired
	}

	if page == nil {
		page = &parcel.PageRequest{PageSize: constants.DefaultPageSize}
	}

	args := customerSliceArgs{CustomerID: customerID, Page: page}
	path := fmt.Sprintf("%s/%s/%s", parcelsPath, customerID, slice)

	data, err := c.registry.Fetch(ctx, endpoint, args,
		func(data []byte) []parcel.Tag {
			var result parcel.Page[parcel.Parcel]
			if err := json.Unmarshal(data, &result); err != nil {
				return []parcel.Tag{customerSliceTag(customerID, slice)}
			}

			return append(parcel.PageTags(parcel.TagParcel, &result), customerSliceTag(customerID, slice))
		},
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, page.ToValues())
			if err != nil {
				return nil, fmt.Errorf("listing %s parcels: %w", slice, err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Parcel](data, slice+" parcels")
}

func (c *ParcelsClient) customerCount(ctx context.Context, endpoint, slice, customerID string) (int64, error) {
	if customerID == "" {
		return 0, constants.ErrIDRequired
	}

	path := fmt.Sprintf("%s/%s/%s/count", parcelsPath, customerID, slice)

	data, err := c.registry.Fetch(ctx, endpoint, customerID,
		func([]byte) []parcel.Tag {
			return []parcel.Tag{customerSliceTag(customerID, slice)}
		},
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("counting %s parcels: %w", slice, err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return 0, err
	}

	count, err := decodeResource[parcel.CountResponse](data, slice+" parcel count")
	if err != nil {
		return 0, err
	}

	return count.Count, nil
}
