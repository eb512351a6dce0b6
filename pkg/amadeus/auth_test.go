package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysearch/internal/flight"
)

func tokenServer(t *testing.T, calls *atomic.Int32, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, tokenPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "id", r.PostForm.Get("client_id"))
		require.Equal(t, "secret", r.PostForm.Get("client_secret"))

		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"Bearer","expires_in":%d}`, n, expiresIn)
	}))
}

func TestTokenCachedUntilBufferWindow(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, 600)
	defer srv.Close()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mgr := newTokenManager(srv.Client(), srv.URL, "id", "secret")
	mgr.now = func() time.Time { return now }

	token, err := mgr.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.EqualValues(t, 1, calls.Load())

	// 540s after issue the token is exactly at expiry minus the 60s buffer
	// and is still reused.
	now = now.Add(540 * time.Second)
	token, err = mgr.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.EqualValues(t, 1, calls.Load())

	// One second later it is inside the buffer and must be refreshed.
	now = now.Add(time.Second)
	token, err = mgr.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.EqualValues(t, 2, calls.Load())
}

func TestTokenRejectionMapsToAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client","error_description":"Client credentials are invalid"}`))
	}))
	defer srv.Close()

	mgr := newTokenManager(srv.Client(), srv.URL, "id", "wrong")

	_, err := mgr.Token(context.Background())
	require.Error(t, err)

	var appErr *flight.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, flight.ErrorCodeAuthFailed, appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Contains(t, appErr.Message, "Client credentials are invalid")
}

func TestTokenMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	mgr := newTokenManager(srv.Client(), srv.URL, "id", "secret")

	_, err := mgr.Token(context.Background())
	var appErr *flight.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, flight.ErrorCodeAuthFailed, appErr.Code)
}

func TestTokenUnreachableEndpoint(t *testing.T) {
	mgr := newTokenManager(&http.Client{Timeout: 100 * time.Millisecond}, "http://127.0.0.1:1", "id", "secret")

	_, err := mgr.Token(context.Background())
	var appErr *flight.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, flight.ErrorCodeAuthFailed, appErr.Code)
}
