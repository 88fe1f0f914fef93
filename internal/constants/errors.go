package constants

import "errors"

// Configuration errors.
var (
	ErrNoBaseURLConfigured = errors.New("no API base URL configured, use 'parcelctl config set api_url <url>' to set one")
	ErrNotLoggedIn         = errors.New("not logged in, run 'parcelctl login' first")
)

// Validation errors.
var (
	ErrInvalidStatusValue = errors.New("invalid parcel status value")
	ErrIDRequired         = errors.New("resource id is required")
	ErrPhoneOrEmail       = errors.New("either --email or --phone must be provided")
)
