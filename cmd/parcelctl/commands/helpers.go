// Package commands implements the parcelctl subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/parceldesk-io/parcel-client/pkg/parcelclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	yamlIndent = 2

	dateFormat = "2006-01-02"
)

// Common static errors used throughout the commands package.
var (
	ErrNoAPIConfigured     = errors.New("no API base URL configured (use --api or 'parcelctl config set api')")
	ErrBranchIDRequired    = errors.New("branch id is required")
	ErrNameRequired        = errors.New("name is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrTrackingNumRequired = errors.New("tracking number is required")
	ErrStatusRequired      = errors.New("status is required")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// CreateClient builds a delivery API client from viper configuration.
func CreateClient() (parcel.Client, error) {
	baseURL := viper.GetString("api")
	if baseURL == "" {
		return nil, ErrNoAPIConfigured
	}

	config := &parcel.Config{
		BaseURL:   baseURL,
		UserAgent: "parcelctl",
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = newZerologAdapter()
	}

	return parcelclient.New(config)
}

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// pageRequest builds a PageRequest from the shared --page/--page-size flags.
func pageRequest(pageNumber, pageSize int) *parcel.PageRequest {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	return &parcel.PageRequest{PageNumber: pageNumber, PageSize: pageSize}
}

// formatDate renders a timestamp for table cells.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format(dateFormat)
}

// statusColor colorizes a parcel status for terminal tables. Honors the
// --no-color flag.
func statusColor(status parcel.ParcelStatus) string {
	if viper.GetBool("no-color") {
		return string(status)
	}

	switch status {
	case parcel.ParcelStatusDelivered:
		return color.GreenString(string(status))
	case parcel.ParcelStatusReturned:
		return color.RedString(string(status))
	case parcel.ParcelStatusInTransit, parcel.ParcelStatusAvailableForPickup:
		return color.YellowString(string(status))
	case parcel.ParcelStatusRegistered:
		return color.CyanString(string(status))
	default:
		return string(status)
	}
}

// pageFooter prints the page position for table output.
func pageFooter[T any](page *parcel.Page[T]) {
	if page.TotalPages > 1 {
		fmt.Fprintf(os.Stdout, "\nShowing page %d of %d (%d total).\n",
			page.PageNumber+1, page.TotalPages, page.TotalElements)
	}
}
