package parcel_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNavigator records navigations for assertions.
type fakeNavigator struct {
	mu          sync.Mutex
	currentPath string
	navigations []string
}

func (n *fakeNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.currentPath
}

func (n *fakeNavigator) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.navigations = append(n.navigations, path)
}

func (n *fakeNavigator) targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.navigations...)
}

func TestDecideRedirect(t *testing.T) {
	t.Parallel()

	cfg := parcel.DefaultPathConfig()

	tests := []struct {
		name        string
		status      int
		currentPath string
		expected    parcel.RedirectAction
	}{
		{
			name:        "401 on protected page goes to login",
			status:      http.StatusUnauthorized,
			currentPath: "/pages/branches",
			expected:    parcel.RedirectLogin,
		},
		{
			name:        "401 on dashboard goes to login",
			status:      http.StatusUnauthorized,
			currentPath: "/dashboard/overview",
			expected:    parcel.RedirectLogin,
		},
		{
			name:        "401 during auth flow does not loop",
			status:      http.StatusUnauthorized,
			currentPath: "/authentication/login",
			expected:    parcel.RedirectNone,
		},
		{
			name:        "401 on public page is the caller's concern",
			status:      http.StatusUnauthorized,
			currentPath: "/track/PD-123",
			expected:    parcel.RedirectNone,
		},
		{
			name:        "403 on protected page goes to the 403 page",
			status:      http.StatusForbidden,
			currentPath: "/settings/users",
			expected:    parcel.RedirectForbidden,
		},
		{
			name:        "403 on public page does nothing",
			status:      http.StatusForbidden,
			currentPath: "/track/PD-123",
			expected:    parcel.RedirectNone,
		},
		{
			name:        "unreachable on protected page goes to maintenance",
			status:      parcel.UnreachableStatus,
			currentPath: "/pages/parcels",
			expected:    parcel.RedirectMaintenance,
		},
		{
			name:        "unreachable on public page does nothing",
			status:      parcel.UnreachableStatus,
			currentPath: "/",
			expected:    parcel.RedirectNone,
		},
		{
			name:        "query string does not defeat the prefix check",
			status:      http.StatusUnauthorized,
			currentPath: "/pages/branches?page=2&size=10",
			expected:    parcel.RedirectLogin,
		},
		{
			name:        "500 is never a redirect",
			status:      http.StatusInternalServerError,
			currentPath: "/pages/branches",
			expected:    parcel.RedirectNone,
		},
		{
			name:        "404 is never a redirect",
			status:      http.StatusNotFound,
			currentPath: "/pages/branches",
			expected:    parcel.RedirectNone,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, parcel.DecideRedirect(tt.status, tt.currentPath, cfg))
		})
	}
}

func TestLoginRedirectURL_EncodesReturnURL(t *testing.T) {
	t.Parallel()

	cfg := parcel.DefaultPathConfig()

	target := parcel.LoginRedirectURL(cfg, "/pages/branches?page=2&size=10")
	assert.Equal(t, "/authentication/login?returnUrl=%2Fpages%2Fbranches%3Fpage%3D2%26size%3D10", target)
}

func TestAuthRedirectInterceptor_401ClearsSessionAndRedirects(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.SystemPrincipal{ID: "u-1"})

	nav := &fakeNavigator{currentPath: "/pages/branches"}
	interceptor := parcel.NewAuthRedirectInterceptor(session, nav, parcel.DefaultPathConfig())

	resp := &parcel.Response{
		StatusCode: http.StatusUnauthorized,
		Error:      parcel.ParseAPIError(http.StatusUnauthorized, nil),
	}

	err := interceptor(context.Background(), &parcel.Request{}, resp)
	require.NoError(t, err)

	assert.False(t, session.State().Authenticated())
	require.Len(t, nav.targets(), 1)
	assert.Equal(t, "/authentication/login?returnUrl=%2Fpages%2Fbranches", nav.targets()[0])
}

func TestAuthRedirectInterceptor_401OffProtectedStillClearsSession(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.SystemPrincipal{ID: "u-1"})

	nav := &fakeNavigator{currentPath: "/track/PD-123"}
	interceptor := parcel.NewAuthRedirectInterceptor(session, nav, parcel.DefaultPathConfig())

	resp := &parcel.Response{
		StatusCode: http.StatusUnauthorized,
		Error:      parcel.ParseAPIError(http.StatusUnauthorized, nil),
	}

	err := interceptor(context.Background(), &parcel.Request{}, resp)
	require.NoError(t, err)

	// The session clear is unconditional on 401; the navigation is not.
	assert.False(t, session.State().Authenticated())
	assert.Empty(t, nav.targets())
}

func TestAuthRedirectInterceptor_403LeavesSessionIntact(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.SystemPrincipal{ID: "u-1"})

	nav := &fakeNavigator{currentPath: "/pages/users"}
	interceptor := parcel.NewAuthRedirectInterceptor(session, nav, parcel.DefaultPathConfig())

	resp := &parcel.Response{
		StatusCode: http.StatusForbidden,
		Error:      parcel.ParseAPIError(http.StatusForbidden, nil),
	}

	err := interceptor(context.Background(), &parcel.Request{}, resp)
	require.NoError(t, err)

	assert.True(t, session.State().Authenticated())
	require.Len(t, nav.targets(), 1)
	assert.Equal(t, "/error/403", nav.targets()[0])
}

func TestAuthRedirectInterceptor_UnreachableGoesToMaintenance(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	nav := &fakeNavigator{currentPath: "/dashboard/overview"}
	interceptor := parcel.NewAuthRedirectInterceptor(session, nav, parcel.DefaultPathConfig())

	resp := &parcel.Response{
		StatusCode: parcel.UnreachableStatus,
		Error:      fmt.Errorf("%w: connection refused", parcel.ErrUnreachable),
	}

	err := interceptor(context.Background(), &parcel.Request{}, resp)
	require.NoError(t, err)

	require.Len(t, nav.targets(), 1)
	assert.Equal(t, "/maintenance", nav.targets()[0])
}

func TestAuthRedirectInterceptor_SuccessIsUntouched(t *testing.T) {
	t.Parallel()

	session := parcel.NewSessionStore()
	session.SetPrincipal(parcel.SystemPrincipal{ID: "u-1"})

	nav := &fakeNavigator{currentPath: "/pages/branches"}
	interceptor := parcel.NewAuthRedirectInterceptor(session, nav, parcel.DefaultPathConfig())

	err := interceptor(context.Background(), &parcel.Request{}, &parcel.Response{StatusCode: http.StatusOK})
	require.NoError(t, err)

	assert.True(t, session.State().Authenticated())
	assert.Empty(t, nav.targets())
}

func TestRequestIDInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := parcel.RequestIDInterceptor()

	req := &parcel.Request{}
	require.NoError(t, interceptor(context.Background(), req))
	assert.NotEmpty(t, req.Headers.Get("X-Request-ID"))

	// An existing id is preserved.
	fixed := &parcel.Request{Headers: http.Header{"X-Request-Id": []string{"fixed"}}}
	require.NoError(t, interceptor(context.Background(), fixed))
	assert.Equal(t, "fixed", fixed.Headers.Get("X-Request-ID"))
}

func TestInterceptorChain_Order(t *testing.T) {
	t.Parallel()

	chain := parcel.NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *parcel.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *parcel.Request) error {
		order = append(order, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &parcel.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
