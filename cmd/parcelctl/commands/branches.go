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

// NewBranchesCommand creates the branches command group.
func NewBranchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch"},
		Short:   "Manage delivery branches",
		Long:    "List, create, update, archive, and delete delivery branches",
	}

	cmd.AddCommand(newBranchesListCommand())
	cmd.AddCommand(newBranchesGetCommand())
	cmd.AddCommand(newBranchesCreateCommand())
	cmd.AddCommand(newBranchesUpdateCommand())
	cmd.AddCommand(newBranchesDeleteCommand())
	cmd.AddCommand(newBranchesArchiveCommand())
	cmd.AddCommand(newBranchesSearchCommand())

	return cmd
}

func newBranchesListCommand() *cobra.Command {
	var (
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			page, err := client.Branches().List(context.Background(), pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to list branches: %w", err)
			}

			return outputBranches(page)
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newBranchesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BRANCH_ID",
		Short: "Get branch details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			branch, err := client.Branches().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get branch: %w", err)
			}

			return outputBranch(branch)
		},
	}
}

func newBranchesCreateCommand() *cobra.Command {
	var request parcel.BranchCreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if request.Name == "" {
				return ErrNameRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			branch, err := client.Branches().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to create branch: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Created branch %s\n", branch.ID)

			return outputBranch(branch)
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "branch name")
	cmd.Flags().StringVar(&request.Address, "address", "", "street address")
	cmd.Flags().StringVar(&request.City, "city", "", "city")
	cmd.Flags().StringVar(&request.Phone, "phone", "", "contact phone")

	return cmd
}

func newBranchesUpdateCommand() *cobra.Command {
	var (
		name    string
		address string
		city    string
		phone   string
	)

	cmd := &cobra.Command{
		Use:   "update BRANCH_ID",
		Short: "Update a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &parcel.BranchUpdateRequest{}
			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("address") {
				request.Address = &address
			}

			if cmd.Flags().Changed("city") {
				request.City = &city
			}

			if cmd.Flags().Changed("phone") {
				request.Phone = &phone
			}

			if request.Name == nil && request.Address == nil && request.City == nil && request.Phone == nil {
				return ErrNoFieldsToUpdate
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			branch, err := client.Branches().Update(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update branch: %w", err)
			}

			return outputBranch(branch)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "branch name")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")

	return cmd
}

func newBranchesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BRANCH_ID",
		Short: "Delete a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Branches().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete branch: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Deleted branch %s\n", args[0])

			return nil
		},
	}
}

func newBranchesArchiveCommand() *cobra.Command {
	var unarchive bool

	cmd := &cobra.Command{
		Use:   "archive BRANCH_ID",
		Short: "Archive or unarchive a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var branch *parcel.Branch
			if unarchive {
				branch, err = client.Branches().Unarchive(ctx, args[0])
			} else {
				branch, err = client.Branches().Archive(ctx, args[0])
			}

			if err != nil {
				return fmt.Errorf("failed to archive branch: %w", err)
			}

			return outputBranch(branch)
		},
	}

	cmd.Flags().BoolVar(&unarchive, "undo", false, "unarchive instead")

	return cmd
}

func newBranchesSearchCommand() *cobra.Command {
	var (
		query      string
		city       string
		pageNumber int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &parcel.BranchSearchRequest{Query: query, City: city}

			page, err := client.Branches().Search(context.Background(), request, pageRequest(pageNumber, pageSize))
			if err != nil {
				return fmt.Errorf("failed to search branches: %w", err)
			}

			return outputBranches(page)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().StringVar(&city, "city", "", "filter by city")
	cmd.Flags().IntVar(&pageNumber, "page", 0, "page number (zero-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func outputBranches(page *parcel.Page[parcel.Branch]) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(page.Content)
	case OutputFormatYAML:
		return StandardYAMLRenderer(page.Content)
	default:
		return renderBranchTable(page)
	}
}

func renderBranchTable(page *parcel.Page[parcel.Branch]) error {
	if len(page.Content) == 0 {
		_, _ = os.Stdout.WriteString("No branches found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "City", "Phone", "Archived", "Created")

	for _, branch := range page.Content {
		archived := ""
		if branch.Archived {
			archived = "yes"
		}

		_ = table.Append(branch.ID, branch.Name, branch.City, branch.Phone,
			archived, formatDate(branch.CreatedAt))
	}

	_ = table.Render()

	pageFooter(page)

	return nil
}

func outputBranch(branch *parcel.Branch) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(branch)
	case OutputFormatYAML:
		return StandardYAMLRenderer(branch)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("ID", branch.ID)
		_ = table.Append("Name", branch.Name)
		_ = table.Append("Address", branch.Address)
		_ = table.Append("City", branch.City)
		_ = table.Append("Phone", branch.Phone)
		_ = table.Append("Archived", fmt.Sprintf("%t", branch.Archived))
		_ = table.Append("Created", formatDate(branch.CreatedAt))
		_ = table.Append("Updated", formatDate(branch.UpdatedAt))
		_ = table.Render()

		return nil
	}
}
