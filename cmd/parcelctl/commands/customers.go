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

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
		Long:    "List, inspect, and search delivery customers",
	}

	cmd.AddCommand(newCustomersListCommand())
	cmd.AddCommand(newCustomersGetCommand())
	cmd.AddCommand(newCustomersSearchCommand())

	return cmd
}

func newCustomersListCommand() *cobra.Command {
	var (
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Customers().List(context.Background(), pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to list customers: %w", err)
			}

			return outputCustomers(page)
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newCustomersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CUSTOMER_ID",
		Short: "Get customer details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			customer, err := client.Customers().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get customer: %w", err)
			}

			return outputCustomer(customer)
		},
	}
}

func newCustomersSearchCommand() *cobra.Command {
	var (
		query      string
		phone      string
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &parcel.CustomerSearchRequest{Query: query, PhoneNumber: phone}

			page, err := client.Customers().Search(context.Background(), request, pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to search customers: %w", err)
			}

			return outputCustomers(page)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().StringVar(&phone, "phone", "", "filter by phone number")
	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func outputCustomers(page *parcel.Page[parcel.Customer]) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(page.Content)
	case OutputFormatYAML:
		return StandardYAMLRenderer(page.Content)
	default:
		if len(page.Content) == 0 {
			_, _ = os.Stdout.WriteString("No customers found\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Name", "Phone", "Email", "Created")

		for _, customer := range page.Content {
			_ = table.Append(customer.ID, customer.FirstName+" "+customer.LastName,
				customer.PhoneNumber, customer.Email, formatDate(customer.CreatedAt))
		}

		_ = table.Render()

		pageFooter(page)

		return nil
	}
}

func outputCustomer(customer *parcel.Customer) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(customer)
	case OutputFormatYAML:
		return StandardYAMLRenderer(customer)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("ID", customer.ID)
		_ = table.Append("Name", customer.FirstName+" "+customer.LastName)
		_ = table.Append("Phone", customer.PhoneNumber)
		_ = table.Append("Email", customer.Email)
		_ = table.Append("Address", customer.Address)
		_ = table.Append("Created", formatDate(customer.CreatedAt))
		_ = table.Render()

		return nil
	}
}
