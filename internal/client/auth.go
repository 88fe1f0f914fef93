package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const authPath = constants.APIPrefix + "/auth"

// AuthClient implements parcel.AuthClient. The login exchanges only move
// credentials; FetchProfile is what populates the session store, so a page
// reload recovers the session from the backend cookie alone.
type AuthClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
	session    *parcel.SessionStore
	scheduler  parcel.Scheduler
}

// NewAuthClient creates a new auth client.
func NewAuthClient(httpClient *http.Client, registry *parcel.Registry, session *parcel.SessionStore, scheduler parcel.Scheduler) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		registry:   registry,
		session:    session,
		scheduler:  scheduler,
	}
}

// Login implements parcel.AuthClient.Login.
func (c *AuthClient) Login(ctx context.Context, request *parcel.LoginRequest) (*parcel.ProfileResponse, error) {
	resp, err := c.httpClient.Post(ctx, authPath+"/login", request)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return decodeResource[parcel.ProfileResponse](resp.Body, "login")
}

// InitiatePhoneLogin implements parcel.AuthClient.InitiatePhoneLogin.
func (c *AuthClient) InitiatePhoneLogin(ctx context.Context, request *parcel.InitiatePhoneLoginRequest) (*parcel.MessageResponse, error) {
	resp, err := c.httpClient.Post(ctx, authPath+"/initiate-phone-login", request)
	if err != nil {
		return nil, fmt.Errorf("initiating phone login: %w", err)
	}

	return decodeResource[parcel.MessageResponse](resp.Body, "phone login initiation")
}

// PhoneLogin implements parcel.AuthClient.PhoneLogin.
func (c *AuthClient) PhoneLogin(ctx context.Context, request *parcel.PhoneLoginRequest) (*parcel.ProfileResponse, error) {
	resp, err := c.httpClient.Post(ctx, authPath+"/phone-login", request)
	if err != nil {
		return nil, fmt.Errorf("verifying phone login: %w", err)
	}

	return decodeResource[parcel.ProfileResponse](resp.Body, "phone login")
}

// Logout implements parcel.AuthClient.Logout. The session clears before the
// network call so route guards see the logged-out state immediately. The
// registry reset is deferred one beat: in-flight reads finish for their
// callers, and views torn down by the navigation away from protected pages
// release their cache subscriptions before the entries drop.
func (c *AuthClient) Logout(ctx context.Context) error {
	c.session.Clear()

	_, err := c.httpClient.Post(ctx, authPath+"/logout", nil)

	c.scheduler.AfterFunc(constants.LogoutCacheResetDelay, func() {
		c.registry.Reset(context.Background())
	})

	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// FetchProfile implements parcel.AuthClient.FetchProfile. A failed fetch
// clears the session rather than leaving it in the loading state.
func (c *AuthClient) FetchProfile(ctx context.Context) (parcel.Principal, error) {
	c.session.SetLoading(true)

	resp, err := c.httpClient.Get(ctx, authPath+"/profile", nil)
	if err != nil {
		c.session.Clear()

		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	profile, err := decodeResource[parcel.ProfileResponse](resp.Body, "profile")
	if err != nil {
		c.session.Clear()

		return nil, err
	}

	principal, err := parcel.PrincipalFromProfile(profile)
	if err != nil {
		c.session.Clear()

		return nil, err
	}

	c.session.SetPrincipal(principal)
	c.session.SetPasswordReset(profile.PasswordReset)

	return principal, nil
}
