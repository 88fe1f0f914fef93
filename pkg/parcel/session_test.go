package parcel_test

import (
	"testing"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_StartsLoading(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()

	state := session.State()
	assert.True(t, state.Loading)
	assert.False(t, state.Authenticated())
	assert.Nil(t, session.Principal())
}

func TestSessionStore_SetPrincipalEndsLoading(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.SystemPrincipal{ID: "u-1", Email: "ops@example.com"})

	state := session.State()
	assert.False(t, state.Loading)
	assert.True(t, state.Authenticated())
	assert.Equal(t, "u-1", session.Principal().PrincipalID())
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.CustomerPrincipal{ID: "c-1"})
	session.SetPasswordReset(&parcel.PasswordResetMarker{MustConfirm: true})

	session.Clear()
	session.Clear() // second clear must be a no-op, not a panic

	state := session.State()
	assert.False(t, state.Loading)
	assert.False(t, state.Authenticated())
	assert.Nil(t, state.PasswordReset)
}

func TestPrincipalFromProfile_EmailWins(t *testing.T) {
	t.Parallel()

	// A profile carrying both identity fields is treated as a system
	// profile.
	profile := &parcel.ProfileResponse{
		ID:          "u-1",
		Email:       "ops@example.com",
		PhoneNumber: "+15550001",
		Role:        parcel.UserRoleManager,
	}

	principal, err := parcel.PrincipalFromProfile(profile)
	require.NoError(t, err)

	system, ok := principal.(parcel.SystemPrincipal)
	require.True(t, ok)
	assert.Equal(t, parcel.PrincipalKindSystem, principal.Kind())
	assert.Equal(t, parcel.UserRoleManager, system.Role)
}

func TestPrincipalFromProfile_PhoneOnly(t *testing.T) {
	t.Parallel()

	profile := &parcel.ProfileResponse{
		ID:          "c-1",
		PhoneNumber: "+15550001",
		FirstName:   "Ada",
	}

	principal, err := parcel.PrincipalFromProfile(profile)
	require.NoError(t, err)

	customer, ok := principal.(parcel.CustomerPrincipal)
	require.True(t, ok)
	assert.Equal(t, parcel.PrincipalKindCustomer, principal.Kind())
	assert.Equal(t, "+15550001", customer.PhoneNumber)
}

func TestPrincipalFromProfile_Unknown(t *testing.T) {
	t.Parallel()

	_, err := parcel.PrincipalFromProfile(&parcel.ProfileResponse{ID: "x"})
	require.ErrorIs(t, err, parcel.ErrUnknownPrincipal)

	_, err = parcel.PrincipalFromProfile(nil)
	require.ErrorIs(t, err, parcel.ErrUnknownPrincipal)
}
