package parcel

import (
	"sync"
	"time"
)

// PrincipalKind discriminates the two authenticated identity variants.
type PrincipalKind string

const (
	PrincipalKindSystem   PrincipalKind = "system"
	PrincipalKindCustomer PrincipalKind = "customer"
)

// Principal is the authenticated identity held in session state: either a
// system staff member or a customer.
type Principal interface {
	Kind() PrincipalKind
	PrincipalID() string
}

// SystemPrincipal is a staff identity (admin dashboard users).
type SystemPrincipal struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      UserRole
	Status    UserStatus
	BranchID  string
}

func (p SystemPrincipal) Kind() PrincipalKind { return PrincipalKindSystem }
func (p SystemPrincipal) PrincipalID() string { return p.ID }

// CustomerPrincipal is a customer-portal identity.
type CustomerPrincipal struct {
	ID          string
	PhoneNumber string
	FirstName   string
	LastName    string
}

func (p CustomerPrincipal) Kind() PrincipalKind { return PrincipalKindCustomer }
func (p CustomerPrincipal) PrincipalID() string { return p.ID }

// PasswordResetMarker signals that the principal must confirm a password
// reset before continuing.
type PasswordResetMarker struct {
	MustConfirm bool      `json:"mustConfirm" yaml:"mustConfirm"`
	ExpiresAt   time.Time `json:"expiresAt"   yaml:"expiresAt"`
}

// SessionState is an immutable snapshot of the session store.
type SessionState struct {
	Principal     Principal
	Loading       bool
	PasswordReset *PasswordResetMarker
}

// Authenticated reports whether a principal is present. While Loading is
// true the answer is "unknown", not "no": route guards must check Loading
// first.
func (s SessionState) Authenticated() bool {
	return s.Principal != nil
}

// SessionStore holds the authenticated principal, a loading flag, and an
// optional password-reset marker. One instance exists per client. Only the
// interceptor, explicit login/logout calls, and profile-fetch handlers
// write to it; anything may read.
type SessionStore struct {
	mu            sync.RWMutex
	principal     Principal
	loading       bool
	passwordReset *PasswordResetMarker
}

// NewSessionStore creates a store in the loading state: the principal is
// unknown until the first profile fetch resolves.
func NewSessionStore() *SessionStore {
	return &SessionStore{loading: true}
}

// SetPrincipal records the authenticated principal and ends loading.
func (s *SessionStore) SetPrincipal(p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principal = p
	s.loading = false
}

// Clear drops the principal and the password-reset marker, and ends
// loading. Safe to call when the principal is already nil.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principal = nil
	s.passwordReset = nil
	s.loading = false
}

// SetLoading flips the loading flag.
func (s *SessionStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
}

// SetPasswordReset records the password-reset marker.
func (s *SessionStore) SetPasswordReset(marker *PasswordResetMarker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passwordReset = marker
}

// Principal returns the current principal, or nil.
func (s *SessionStore) Principal() Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.principal
}

// State returns a consistent snapshot of the whole session.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionState{
		Principal:     s.principal,
		Loading:       s.loading,
		PasswordReset: s.passwordReset,
	}
}

// PrincipalFromProfile selects the principal variant from a profile
// response. An email-shaped identity wins over a phone-shaped one; the
// backend does not yet send an explicit discriminant, so a response
// carrying both is treated as a system profile.
func PrincipalFromProfile(profile *ProfileResponse) (Principal, error) {
	switch {
	case profile == nil:
		return nil, ErrUnknownPrincipal
	case profile.Email != "":
		return SystemPrincipal{
			ID:        profile.ID,
			Email:     profile.Email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Role:      profile.Role,
			Status:    profile.Status,
			BranchID:  profile.BranchID,
		}, nil
	case profile.PhoneNumber != "":
		return CustomerPrincipal{
			ID:          profile.ID,
			PhoneNumber: profile.PhoneNumber,
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
		}, nil
	default:
		return nil, ErrUnknownPrincipal
	}
}
