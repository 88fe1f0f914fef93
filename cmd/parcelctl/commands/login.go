package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

// NewLoginCommand creates the login command group.
func NewLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the delivery API",
		Long:  "Authenticate with email/password (staff) or a phone one-time code (customers)",
	}

	cmd.AddCommand(newLoginEmailCommand())
	cmd.AddCommand(newLoginPhoneCommand())

	return cmd
}

func newLoginEmailCommand() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginEmail(email, password)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")

	return cmd
}

func runLoginEmail(email, password string) error {
	if email == "" {
		return ErrEmailRequired
	}

	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")

		bytePassword, err := term.ReadPassword(int(syscall.Stdin))

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		password = string(bytePassword)
	}

	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	_, err = client.Auth().Login(ctx, &parcel.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	principal, err := client.Auth().FetchProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Logged in as %s\n", describePrincipal(principal))

	return nil
}

func newLoginPhoneCommand() *cobra.Command {
	var (
		phone string
		code  string
	)

	cmd := &cobra.Command{
		Use:   "phone",
		Short: "Log in with a phone one-time code",
		Long:  "Without --code, requests a one-time code. With --code, completes the login.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginPhone(phone, code)
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&code, "code", "", "one-time code")

	return cmd
}

func runLoginPhone(phone, code string) error {
	if phone == "" {
		return ErrPhoneRequired
	}

	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if code == "" {
		message, err := client.Auth().InitiatePhoneLogin(ctx, &parcel.InitiatePhoneLoginRequest{PhoneNumber: phone})
		if err != nil {
			return fmt.Errorf("failed to initiate phone login: %w", err)
		}

		fmt.Fprintln(os.Stdout, message.Message)
		fmt.Fprintln(os.Stdout, "Re-run with --code to complete the login.")

		return nil
	}

	_, err = client.Auth().PhoneLogin(ctx, &parcel.PhoneLoginRequest{PhoneNumber: phone, Code: code})
	if err != nil {
		return fmt.Errorf("failed to verify phone login: %w", err)
	}

	principal, err := client.Auth().FetchProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Logged in as %s\n", describePrincipal(principal))

	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the delivery API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if err := client.Auth().Logout(context.Background()); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Logged out")

			return nil
		},
	}
}

func describePrincipal(principal parcel.Principal) string {
	switch p := principal.(type) {
	case parcel.SystemPrincipal:
		return fmt.Sprintf("%s %s <%s> (%s)", p.FirstName, p.LastName, p.Email, p.Role)
	case parcel.CustomerPrincipal:
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		if name == "" {
			return p.PhoneNumber
		}

		return fmt.Sprintf("%s (%s)", name, p.PhoneNumber)
	default:
		return principal.PrincipalID()
	}
}
