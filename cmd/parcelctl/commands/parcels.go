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

// NewParcelsCommand creates the parcels command group.
func NewParcelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parcels",
		Aliases: []string{"parcel"},
		Short:   "Manage parcels",
		Long:    "Register, search, track, and update parcels",
	}

	cmd.AddCommand(newParcelsCreateCommand())
	cmd.AddCommand(newParcelsSearchCommand())
	cmd.AddCommand(newParcelsTrackCommand())
	cmd.AddCommand(newParcelsStatusCommand())
	cmd.AddCommand(newParcelsDeleteCommand())
	cmd.AddCommand(newParcelsReceiptCommand())
	cmd.AddCommand(newParcelsMineCommand())

	return cmd
}

func newParcelsCreateCommand() *cobra.Command {
	var request parcel.ParcelCreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a parcel",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			created, err := client.Parcels().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to register parcel: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Registered parcel %s (tracking %s)\n", created.ID, created.TrackingNumber)

			return outputParcel(created)
		},
	}

	cmd.Flags().StringVar(&request.SenderID, "sender", "", "sender customer id")
	cmd.Flags().StringVar(&request.RecipientName, "recipient-name", "", "recipient name")
	cmd.Flags().StringVar(&request.RecipientPhone, "recipient-phone", "", "recipient phone")
	cmd.Flags().StringVar(&request.OriginBranchID, "origin", "", "origin branch id")
	cmd.Flags().StringVar(&request.DestinationBranchID, "destination", "", "destination branch id")
	cmd.Flags().Float64Var(&request.WeightKg, "weight", 0, "weight in kilograms")
	cmd.Flags().StringVar(&request.Notes, "notes", "", "notes")

	return cmd
}

func newParcelsSearchCommand() *cobra.Command {
	var (
		query      string
		tracking   string
		status     string
		branchID   string
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search parcels",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &parcel.ParcelSearchRequest{
				Query:          query,
				TrackingNumber: tracking,
				Status:         parcel.ParcelStatus(status),
				BranchID:       branchID,
			}

			page, err := client.Parcels().Search(context.Background(), request, pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to search parcels: %w", err)
			}

			return outputParcels(page)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().StringVar(&tracking, "tracking", "", "filter by tracking number")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&branchID, "branch", "", "filter by branch")
	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newParcelsTrackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track TRACKING_NUMBER",
		Short: "Track a parcel by tracking number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return ErrTrackingNumRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			info, err := client.Parcels().Track(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to track parcel: %w", err)
			}

			return outputTracking(info)
		},
	}
}

func newParcelsStatusCommand() *cobra.Command {
	var (
		status string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "status PARCEL_ID",
		Short: "Update a parcel's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status == "" {
				return ErrStatusRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &parcel.ParcelStatusUpdateRequest{
				Status: parcel.ParcelStatus(status),
				Notes:  notes,
			}

			message, err := client.Parcels().UpdateStatus(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update parcel status: %w", err)
			}

			fmt.Fprintln(os.Stdout, message.Message)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "to", "", "new status")
	cmd.Flags().StringVar(&notes, "notes", "", "status change notes")

	return cmd
}

func newParcelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PARCEL_ID",
		Short: "Delete a parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Parcels().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete parcel: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Deleted parcel %s\n", args[0])

			return nil
		},
	}
}

func newParcelsReceiptCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "receipt PARCEL_ID",
		Short: "Download a parcel receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			data, err := client.Parcels().Receipt(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to download receipt: %w", err)
			}

			if outFile == "" {
				outFile = fmt.Sprintf("receipt-%s.pdf", args[0])
			}

			if err := os.WriteFile(outFile, data, 0o600); err != nil {
				return fmt.Errorf("writing receipt file: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Wrote %s (%d bytes)\n", outFile, len(data))

			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default receipt-<id>.pdf)")

	return cmd
}

func newParcelsMineCommand() *cobra.Command {
	var (
		customerID string
		slice      string
		count      bool
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List a customer's parcels",
		Long:  "List parcels a customer sent, received, or both",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if count {
				var n int64

				switch slice {
				case "sent":
					n, err = client.Parcels().SentCount(ctx, customerID)
				case "received":
					n, err = client.Parcels().ReceivedCount(ctx, customerID)
				default:
					n, err = client.Parcels().AllCount(ctx, customerID)
				}

				if err != nil {
					return fmt.Errorf("failed to count parcels: %w", err)
				}

				fmt.Fprintln(os.Stdout, n)

				return nil
			}

			page := pageRequest(pageNumber, pageSize)

			var result *parcel.Page[parcel.Parcel]

			switch slice {
			case "sent":
				result, err = client.Parcels().Sent(ctx, customerID, page)
			case "received":
				result, err = client.Parcels().Received(ctx, customerID, page)
			default:
				result, err = client.Parcels().All(ctx, customerID, page)
			}

			if err != nil {
				return fmt.Errorf("failed to list parcels: %w", err)
			}

			return outputParcels(result)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&slice, "slice", "all", "which parcels (sent, received, all)")
	cmd.Flags().BoolVar(&count, "count", false, "print the count only")
	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func outputParcels(page *parcel.Page[parcel.Parcel]) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(page.Content)
	case OutputFormatYAML:
		return StandardYAMLRenderer(page.Content)
	default:
		if len(page.Content) == 0 {
			_, _ = os.Stdout.WriteString("No parcels found\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Tracking", "Recipient", "Status", "Weight", "Cost", "Created")

		for _, p := range page.Content {
			_ = table.Append(p.ID, p.TrackingNumber, p.RecipientName,
				statusColor(p.Status),
				fmt.Sprintf("%.1fkg", p.WeightKg),
				fmt.Sprintf("%.2f", p.Cost),
				formatDate(p.CreatedAt))
		}

		_ = table.Render()

		pageFooter(page)

		return nil
	}
}

func outputParcel(p *parcel.Parcel) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(p)
	case OutputFormatYAML:
		return StandardYAMLRenderer(p)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("ID", p.ID)
		_ = table.Append("Tracking", p.TrackingNumber)
		_ = table.Append("Sender", p.SenderID)
		_ = table.Append("Recipient", p.RecipientName)
		_ = table.Append("Recipient phone", p.RecipientPhone)
		_ = table.Append("Origin branch", p.OriginBranchID)
		_ = table.Append("Destination branch", p.DestinationBranchID)
		_ = table.Append("Weight", fmt.Sprintf("%.1fkg", p.WeightKg))
		_ = table.Append("Cost", fmt.Sprintf("%.2f", p.Cost))
		_ = table.Append("Status", statusColor(p.Status))
		_ = table.Append("Created", formatDate(p.CreatedAt))
		_ = table.Render()

		return nil
	}
}

func outputTracking(info *parcel.TrackingInfo) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(info)
	case OutputFormatYAML:
		return StandardYAMLRenderer(info)
	default:
		fmt.Fprintf(os.Stdout, "Parcel %s: %s (%s -> %s)\n\n",
			info.TrackingNumber, statusColor(info.Status), info.Origin, info.Destination)

		if len(info.Events) == 0 {
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("When", "Status", "Branch", "Notes")

		for _, event := range info.Events {
			_ = table.Append(event.OccurredAt.Format("2006-01-02 15:04"),
				statusColor(event.Status), event.BranchID, event.Notes)
		}

		_ = table.Render()

		return nil
	}
}
