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

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage system users",
		Long:    "List, create, suspend, and deactivate staff accounts",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersDeleteCommand())
	cmd.AddCommand(newUsersModerateCommand("suspend", "Suspend a user"))
	cmd.AddCommand(newUsersModerateCommand("reinstate", "Reinstate a suspended user"))
	cmd.AddCommand(newUsersModerateCommand("activate", "Activate a user"))
	cmd.AddCommand(newUsersModerateCommand("deactivate", "Deactivate a user"))

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List system users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Users().List(context.Background(), pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return outputUsers(page)
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return outputUser(user)
		},
	}
}

func newUsersCreateCommand() *cobra.Command {
	var (
		request parcel.UserCreateRequest
		role    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a system user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if request.Email == "" {
				return ErrEmailRequired
			}

			request.Role = parcel.UserRole(role)

			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Created user %s\n", user.ID)

			return outputUser(user)
		},
	}

	cmd.Flags().StringVar(&request.Email, "email", "", "email")
	cmd.Flags().StringVar(&request.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&request.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(parcel.UserRoleDispatcher), "role (admin, manager, dispatcher)")
	cmd.Flags().StringVar(&request.BranchID, "branch", "", "branch id")
	cmd.Flags().StringVar(&request.Password, "password", "", "initial password")

	return cmd
}

func newUsersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a system user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Users().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Deleted user %s\n", args[0])

			return nil
		},
	}
}

func newUsersModerateCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " USER_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var user *parcel.User

			switch action {
			case "suspend":
				user, err = client.Users().Suspend(ctx, args[0])
			case "reinstate":
				user, err = client.Users().Reinstate(ctx, args[0])
			case "activate":
				user, err = client.Users().Activate(ctx, args[0])
			default:
				user, err = client.Users().Deactivate(ctx, args[0])
			}

			if err != nil {
				return fmt.Errorf("failed to %s user: %w", action, err)
			}

			return outputUser(user)
		},
	}
}

func outputUsers(page *parcel.Page[parcel.User]) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(page.Content)
	case OutputFormatYAML:
		return StandardYAMLRenderer(page.Content)
	default:
		if len(page.Content) == 0 {
			_, _ = os.Stdout.WriteString("No users found\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Name", "Email", "Role", "Status", "Branch")

		for _, user := range page.Content {
			_ = table.Append(user.ID, user.FirstName+" "+user.LastName,
				user.Email, string(user.Role), string(user.Status), user.BranchID)
		}

		_ = table.Render()

		pageFooter(page)

		return nil
	}
}

func outputUser(user *parcel.User) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(user)
	case OutputFormatYAML:
		return StandardYAMLRenderer(user)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("ID", user.ID)
		_ = table.Append("Name", user.FirstName+" "+user.LastName)
		_ = table.Append("Email", user.Email)
		_ = table.Append("Role", string(user.Role))
		_ = table.Append("Status", string(user.Status))
		_ = table.Append("Branch", user.BranchID)
		_ = table.Append("Created", formatDate(user.CreatedAt))
		_ = table.Render()

		return nil
	}
}
