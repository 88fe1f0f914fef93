package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

// NewDashboardCommand creates the dashboard command group.
func NewDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "View dashboard statistics",
		Long:  "Parcel counters, monthly volumes, and recent deliveries",
	}

	cmd.AddCommand(newDashboardStatsCommand())
	cmd.AddCommand(newDashboardMonthlyCommand())
	cmd.AddCommand(newDashboardRecentCommand())

	return cmd
}

func newDashboardStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate parcel counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			stats, err := client.Dashboard().ParcelStatistics(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch statistics: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(stats)
			case OutputFormatYAML:
				return StandardYAMLRenderer(stats)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Status", "Count")
				_ = table.Append("registered", fmt.Sprintf("%d", stats.Registered))
				_ = table.Append("in_transit", fmt.Sprintf("%d", stats.InTransit))
				_ = table.Append("available_for_pickup", fmt.Sprintf("%d", stats.AvailableForPickup))
				_ = table.Append("delivered", fmt.Sprintf("%d", stats.Delivered))
				_ = table.Append("returned", fmt.Sprintf("%d", stats.Returned))
				_ = table.Append("total", fmt.Sprintf("%d", stats.Total))
				_ = table.Render()

				return nil
			}
		},
	}
}

func newDashboardMonthlyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show monthly delivery volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			stats, err := client.Dashboard().MonthlyStats(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch monthly stats: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(stats)
			case OutputFormatYAML:
				return StandardYAMLRenderer(stats)
			default:
				if len(stats) == 0 {
					_, _ = os.Stdout.WriteString("No monthly data\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Month", "Created", "Delivered")

				for _, month := range stats {
					_ = table.Append(fmt.Sprintf("%04d-%02d", month.Year, month.Month),
						fmt.Sprintf("%d", month.Created), fmt.Sprintf("%d", month.Delivered))
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newDashboardRecentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show recent deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			deliveries, err := client.Dashboard().RecentDeliveries(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch recent deliveries: %w", err)
			}

			return outputRecentDeliveries(deliveries)
		},
	}
}

func outputRecentDeliveries(deliveries []parcel.RecentDelivery) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(deliveries)
	case OutputFormatYAML:
		return StandardYAMLRenderer(deliveries)
	default:
		if len(deliveries) == 0 {
			_, _ = os.Stdout.WriteString("No recent deliveries\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Tracking", "Recipient", "Destination", "Delivered")

		for _, delivery := range deliveries {
			_ = table.Append(delivery.TrackingNumber, delivery.RecipientName,
				delivery.Destination, delivery.DeliveredAt.Format("2006-01-02 15:04"))
		}

		_ = table.Render()

		return nil
	}
}
