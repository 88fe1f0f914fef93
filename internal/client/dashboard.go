package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const dashboardPath = constants.APIPrefix + "/dashboard"

const (
	epDashboardStats   = "dashboard.statistics"
	epDashboardMonthly = "dashboard.monthly"
	epDashboardRecent  = "dashboard.recent"
)

// DashboardClient implements parcel.DashboardClient. Dashboard reads are
// aggregates with no identity of their own; they carry only the dashboard
// LIST tag, which every parcel mutation invalidates.
type DashboardClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewDashboardClient creates a new dashboard client.
func NewDashboardClient(httpClient *http.Client, registry *parcel.Registry) *DashboardClient {
	return &DashboardClient{httpClient: httpClient, registry: registry}
}

func dashboardTags([]byte) []parcel.Tag {
	return []parcel.Tag{parcel.ListTag(parcel.TagDashboard)}
}

// ParcelStatistics implements parcel.DashboardClient.ParcelStatistics.
func (c *DashboardClient) ParcelStatistics(ctx context.Context) (*parcel.ParcelStatistics, error) {
	data, err := c.registry.Fetch(ctx, epDashboardStats, nil, dashboardTags,
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, dashboardPath+"/statistics/parcels", nil)
			if err != nil {
				return nil, fmt.Errorf("fetching parcel statistics: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.ParcelStatistics](data, "parcel statistics")
}

// MonthlyStats implements parcel.DashboardClient.MonthlyStats.
func (c *DashboardClient) MonthlyStats(ctx context.Context) ([]parcel.MonthlyParcelStats, error) {
	data, err := c.registry.Fetch(ctx, epDashboardMonthly, nil, dashboardTags,
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, dashboardPath+"/monthly-parcels-stats", nil)
			if err != nil {
				return nil, fmt.Errorf("fetching monthly stats: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	stats, err := decodeResource[[]parcel.MonthlyParcelStats](data, "monthly stats")
	if err != nil {
		return nil, err
	}

	return *stats, nil
}

// RecentDeliveries implements parcel.DashboardClient.RecentDeliveries.
func (c *DashboardClient) RecentDeliveries(ctx context.Context) ([]parcel.RecentDelivery, error) {
	data, err := c.registry.Fetch(ctx, epDashboardRecent, nil, dashboardTags,
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, dashboardPath+"/recent-deliveries", nil)
			if err != nil {
				return nil, fmt.Errorf("fetching recent deliveries: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	deliveries, err := decodeResource[[]parcel.RecentDelivery](data, "recent deliveries")
	if err != nil {
		return nil, err
	}

	return *deliveries, nil
}
