package twitchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenSource(t *testing.T, handler http.HandlerFunc) *TokenSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &TokenSource{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{Transport: http.DefaultTransport, host: server.URL},
		},
	}
}

func grantHandler(token string, expiresIn int, calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"expires_in":   expiresIn,
			"token_type":   "bearer",
		})
	}
}

func TestTokenSourceCachesGrant(t *testing.T) {
	var calls atomic.Int32
	ts := newTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-client", r.PostForm.Get("client_id"))
		grantHandler("token-1", 3600, &calls)(w, r)
	})

	ctx := context.Background()
	tok, err := ts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	// Second call rides the cache.
	tok, err = ts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenSourceRefreshesNearExpiry(t *testing.T) {
	var calls atomic.Int32
	ts := newTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		token := "token-1"
		if calls.Load() > 0 {
			token = "token-2"
		}
		// An expires_in of one second is inside the refresh margin, so
		// the grant is stale the moment it lands.
		grantHandler(token, 1, &calls)(w, r)
	})

	ctx := context.Background()
	tok, err := ts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	tok, err = ts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSourceMissingCredentials(t *testing.T) {
	ts := &TokenSource{}
	_, err := ts.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials not configured")
}

func TestTokenSourceRejectedGrant(t *testing.T) {
	ts := newTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})
	_, err := ts.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestTokenSourceEmptyGrant(t *testing.T) {
	var calls atomic.Int32
	ts := newTokenSource(t, grantHandler("", 3600, &calls))
	_, err := ts.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}

func TestTokenSourceConcurrentGets(t *testing.T) {
	var calls atomic.Int32
	ts := newTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		grantHandler("token-1", 3600, &calls)(w, r)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := ts.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "token-1", tok)
		}()
	}
	wg.Wait()

	// The write lock serializes refreshes; at most the losers of the
	// initial read-lock race fetch a second time.
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestTokenSourceExpiryWindow(t *testing.T) {
	ts := &TokenSource{token: "cached", expiresAt: time.Now().Add(2 * time.Minute)}
	tok, err := ts.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", tok)

	// Inside the refresh margin the cache no longer counts as fresh, and
	// with no credentials configured the refresh fails loudly.
	ts.expiresAt = time.Now().Add(30 * time.Second)
	_, err = ts.Get(context.Background())
	require.Error(t, err)
}
