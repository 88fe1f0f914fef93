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

// NewConfigCommand creates the config command group for the server-side
// delivery-cost configuration.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage delivery-cost configuration",
		Long:  "View and update the delivery fee configuration",
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the delivery-cost configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			config, err := client.Configurations().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get configuration: %w", err)
			}

			return outputConfiguration(config)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	var request parcel.Configuration

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the delivery-cost configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			updated, err := client.Configurations().Update(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to update configuration: %w", err)
			}

			return outputConfiguration(updated)
		},
	}

	cmd.Flags().Float64Var(&request.BaseFee, "base-fee", 0, "base fee")
	cmd.Flags().Float64Var(&request.PerKilogramFee, "per-kg", 0, "fee per kilogram")
	cmd.Flags().Float64Var(&request.PerKilometerFee, "per-km", 0, "fee per kilometer")
	cmd.Flags().Float64Var(&request.ExpressMultiplier, "express-multiplier", 1, "express delivery multiplier")
	cmd.Flags().Float64Var(&request.InsurancePercentage, "insurance-pct", 0, "insurance percentage")
	cmd.Flags().StringVar(&request.Currency, "currency", "", "currency code")

	return cmd
}

func outputConfiguration(config *parcel.Configuration) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(config)
	case OutputFormatYAML:
		return StandardYAMLRenderer(config)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Setting", "Value")
		_ = table.Append("Base fee", fmt.Sprintf("%.2f", config.BaseFee))
		_ = table.Append("Per kilogram", fmt.Sprintf("%.2f", config.PerKilogramFee))
		_ = table.Append("Per kilometer", fmt.Sprintf("%.2f", config.PerKilometerFee))
		_ = table.Append("Express multiplier", fmt.Sprintf("%.2f", config.ExpressMultiplier))
		_ = table.Append("Insurance", fmt.Sprintf("%.1f%%", config.InsurancePercentage))
		_ = table.Append("Currency", config.Currency)
		_ = table.Render()

		return nil
	}
}
