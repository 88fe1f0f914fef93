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

// NewDispatchersCommand creates the dispatchers command group.
func NewDispatchersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dispatchers",
		Aliases: []string{"dispatcher"},
		Short:   "Manage dispatchers",
		Long:    "List, create, update, and delete delivery dispatchers",
	}

	cmd.AddCommand(newDispatchersListCommand())
	cmd.AddCommand(newDispatchersGetCommand())
	cmd.AddCommand(newDispatchersCreateCommand())
	cmd.AddCommand(newDispatchersDeleteCommand())

	return cmd
}

func newDispatchersListCommand() *cobra.Command {
	var (
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dispatchers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Dispatchers().List(context.Background(), pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to list dispatchers: %w", err)
			}

			return outputDispatchers(page)
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newDispatchersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DISPATCHER_ID",
		Short: "Get dispatcher details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dispatcher, err := client.Dispatchers().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get dispatcher: %w", err)
			}

			return outputDispatcher(dispatcher)
		},
	}
}

func newDispatchersCreateCommand() *cobra.Command {
	var request parcel.DispatcherCreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			if request.Email == "" {
				return ErrEmailRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			dispatcher, err := client.Dispatchers().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to create dispatcher: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Created dispatcher %s\n", dispatcher.ID)

			return outputDispatcher(dispatcher)
		},
	}

	cmd.Flags().StringVar(&request.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&request.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&request.Email, "email", "", "email")
	cmd.Flags().StringVar(&request.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&request.BranchID, "branch", "", "branch id")

	return cmd
}

func newDispatchersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DISPATCHER_ID",
		Short: "Delete a dispatcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Dispatchers().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete dispatcher: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Deleted dispatcher %s\n", args[0])

			return nil
		},
	}
}

func outputDispatchers(page *parcel.Page[parcel.Dispatcher]) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(page.Content)
	case OutputFormatYAML:
		return StandardYAMLRenderer(page.Content)
	default:
		if len(page.Content) == 0 {
			_, _ = os.Stdout.WriteString("No dispatchers found\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Name", "Email", "Phone", "Branch")

		for _, d := range page.Content {
			_ = table.Append(d.ID, d.FirstName+" "+d.LastName, d.Email, d.PhoneNumber, d.BranchID)
		}

		_ = table.Render()

		pageFooter(page)

		return nil
	}
}

func outputDispatcher(dispatcher *parcel.Dispatcher) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(dispatcher)
	case OutputFormatYAML:
		return StandardYAMLRenderer(dispatcher)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("ID", dispatcher.ID)
		_ = table.Append("Name", dispatcher.FirstName+" "+dispatcher.LastName)
		_ = table.Append("Email", dispatcher.Email)
		_ = table.Append("Phone", dispatcher.PhoneNumber)
		_ = table.Append("Branch", dispatcher.BranchID)
		_ = table.Append("Created", formatDate(dispatcher.CreatedAt))
		_ = table.Render()

		return nil
	}
}
