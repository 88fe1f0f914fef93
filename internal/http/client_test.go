package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	internalhttp "github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingInterceptor captures every response the chain observes.
type recordingInterceptor struct {
	mu        sync.Mutex
	responses []*parcel.Response
}

func (r *recordingInterceptor) intercept() parcel.ResponseInterceptor {
	return func(ctx context.Context, req *parcel.Request, resp *parcel.Response) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.responses = append(r.responses, resp)

		return nil
	}
}

func (r *recordingInterceptor) seen() []*parcel.Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*parcel.Response(nil), r.responses...)
}

func TestClient_Do_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/branches", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0}`))
	}))
	defer server.Close()

	chain := parcel.NewInterceptorChain()
	chain.AddRequestInterceptor(parcel.RequestIDInterceptor())

	client := internalhttp.NewClient(server.URL, chain)

	resp, err := client.Get(context.Background(), "/api/v1/branches", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "content")
}

func TestClient_Do_MarshalsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Central", body["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"b-1","name":"Central"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Post(context.Background(), "/api/v1/branches",
		&parcel.BranchCreateRequest{Name: "Central", City: "Lagos"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_Do_APIErrorIsTypedAndIntercepted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"branch not found"}`))
	}))
	defer server.Close()

	recorder := &recordingInterceptor{}
	chain := parcel.NewInterceptorChain()
	chain.AddResponseInterceptor(recorder.intercept())

	client := internalhttp.NewClient(server.URL, chain)

	resp, err := client.Get(context.Background(), "/api/v1/branches/x", nil)
	require.Error(t, err)
	assert.True(t, parcel.IsNotFound(err))

	// The transport still returns the response alongside the typed error.
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	seen := recorder.seen()
	require.Len(t, seen, 1)
	assert.Equal(t, http.StatusNotFound, seen[0].StatusCode)
	assert.True(t, parcel.IsNotFound(seen[0].Error))
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	t.Parallel()

	// A server that is already closed guarantees a connection failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	recorder := &recordingInterceptor{}
	chain := parcel.NewInterceptorChain()
	chain.AddResponseInterceptor(recorder.intercept())

	client := internalhttp.NewClient(server.URL, chain,
		internalhttp.WithRetryConfig(0, 0, 0))

	_, err := client.Get(context.Background(), "/api/v1/branches", nil)
	require.Error(t, err)
	assert.True(t, parcel.IsUnreachable(err))

	// The interceptor observes the failure as the unreachable pseudo-status.
	seen := recorder.seen()
	require.Len(t, seen, 1)
	assert.Equal(t, parcel.UnreachableStatus, seen[0].StatusCode)
	assert.True(t, parcel.IsUnreachable(seen[0].Error))
}

func TestClient_Do_RequestInterceptorError(t *testing.T) {
	t.Parallel()

	chain := parcel.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *parcel.Request) error {
		return assert.AnError
	})

	client := internalhttp.NewClient("http://localhost:0", chain)

	_, err := client.Get(context.Background(), "/api/v1/branches", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClient_Do_CookiesPersistAcrossRequests(t *testing.T) {
	t.Parallel()

	var gotCookie string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "s-1", Path: "/"})
			_, _ = w.Write([]byte(`{}`))
		default:
			if cookie, err := r.Cookie("SESSION"); err == nil {
				gotCookie = cookie.Value
			}

			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)
	ctx := context.Background()

	_, err := client.Post(ctx, "/api/v1/auth/login", nil)
	require.NoError(t, err)

	_, err = client.Get(ctx, "/api/v1/auth/profile", nil)
	require.NoError(t, err)

	// The session cookie from login rides on the next request.
	assert.Equal(t, "s-1", gotCookie)
}

func TestClient_Get_EncodesQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("pageNumber"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	page := parcel.PageRequest{PageNumber: 1, PageSize: 25}

	_, err := client.Get(context.Background(), "/api/v1/branches", page.ToValues())
	require.NoError(t, err)
}
