package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/portal/internal/config"
)

type tokenSourceStub struct {
	mu        sync.Mutex
	access    string
	refresh   string
	loggedOut bool
}

func (s *tokenSourceStub) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

func (s *tokenSourceStub) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()
}

func (s *tokenSourceStub) Logout() {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	s.loggedOut = true
	s.mu.Unlock()
}

func (s *tokenSourceStub) wasLoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestClient(baseURL string, tokens TokenSource) *Client {
	cfg := config.APIClient{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		RateLimitRPS: 1000,
		RateBurst:    1000,
	}
	metrics := NewMetrics(prometheus.NewRegistry())
	return New(cfg, newNoopLogger(), tokens, metrics)
}

func TestClient_GetDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/profile/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"email":"host@example.com"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	var out struct {
		Email string `json:"email"`
	}
	err := c.Get(context.Background(), "/auth/profile/", &out)

	require.NoError(t, err)
	assert.Equal(t, "host@example.com", out.Email)
}

func TestClient_BearerHeaderFromTokenSource(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{access: "acc-1", refresh: "ref-1"}
	c := newTestClient(srv.URL, tokens)

	require.NoError(t, c.Get(context.Background(), "/auth/profile/", nil))
	assert.Equal(t, "Bearer acc-1", gotAuth)
}

func TestClient_StatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	err := c.Get(context.Background(), "/auth/subscription-status/", nil)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindStatus, fe.Kind)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
}

func TestClient_DecodeErrorOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	var out struct{}
	err := c.Get(context.Background(), "/auth/profile/", &out)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindDecode, fe.Kind)
}

func TestClient_TransportErrorWhenServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL, nil)

	err := c.Get(context.Background(), "/auth/profile/", nil)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindTransport, fe.Kind)
}

func TestClient_UnauthorizedTriggersRefreshAndRetry(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			refreshCalls.Add(1)
			w.Write([]byte(`{"access":"acc-2","refresh":"ref-2"}`)) //nolint:errcheck
		case "/auth/profile/":
			if r.Header.Get("Authorization") != "Bearer acc-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"email":"host@example.com"}`)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{access: "acc-stale", refresh: "ref-1"}
	c := newTestClient(srv.URL, tokens)

	var out struct {
		Email string `json:"email"`
	}
	err := c.Get(context.Background(), "/auth/profile/", &out)

	require.NoError(t, err)
	assert.Equal(t, "host@example.com", out.Email)
	assert.Equal(t, int64(1), refreshCalls.Load())

	access, refresh := tokens.Tokens()
	assert.Equal(t, "acc-2", access)
	assert.Equal(t, "ref-2", refresh)
}

func TestClient_RefreshKeepsOldRefreshTokenWhenNotRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			w.Write([]byte(`{"access":"acc-2"}`)) //nolint:errcheck
		case "/auth/profile/":
			if r.Header.Get("Authorization") != "Bearer acc-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{}`)) //nolint:errcheck
		}
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{access: "acc-stale", refresh: "ref-keep"}
	c := newTestClient(srv.URL, tokens)

	require.NoError(t, c.Get(context.Background(), "/auth/profile/", nil))

	_, refresh := tokens.Tokens()
	assert.Equal(t, "ref-keep", refresh)
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{access: "acc-stale", refresh: "ref-dead"}
	c := newTestClient(srv.URL, tokens)

	err := c.Get(context.Background(), "/auth/profile/", nil)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindStatus, fe.Kind)
	assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
	assert.True(t, tokens.wasLoggedOut())
}

func TestClient_NoRefreshWithoutRefreshToken(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			refreshCalls.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{}
	c := newTestClient(srv.URL, tokens)

	err := c.Get(context.Background(), "/auth/profile/", nil)

	require.Error(t, err)
	assert.Equal(t, int64(0), refreshCalls.Load())
	assert.False(t, tokens.wasLoggedOut())
}

func TestClient_LockedPortalRejectsMutations(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)
	c.SetLockGuard(func() bool { return true })

	err := c.Post(context.Background(), "/auth/properties/", map[string]string{"name": "Villa"}, nil)

	require.ErrorIs(t, err, ErrPortalLocked)
	assert.Equal(t, int64(0), hits.Load(), "request should not reach the network")
}

func TestClient_LockedPortalAllowsReadsAndAllowlist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)
	c.SetLockGuard(func() bool { return true })

	// GET проходит всегда: контент при блокировке остаётся видимым.
	assert.NoError(t, c.Get(context.Background(), "/auth/properties/", nil))

	// Мутации из разрешённого списка тоже проходят.
	assert.NoError(t, c.Post(context.Background(), "/auth/notifications/7/read/", nil, nil))
	assert.NoError(t, c.Post(context.Background(), "/auth/token/refresh/", nil, nil))
}

func TestClient_ConcurrentUnauthorizedRefreshesOnce(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			refreshCalls.Add(1)
			time.Sleep(20 * time.Millisecond)
			w.Write([]byte(`{"access":"acc-2","refresh":"ref-2"}`)) //nolint:errcheck
		default:
			if r.Header.Get("Authorization") != "Bearer acc-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{}`)) //nolint:errcheck
		}
	}))
	defer srv.Close()

	tokens := &tokenSourceStub{access: "acc-stale", refresh: "ref-1"}
	c := newTestClient(srv.URL, tokens)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/auth/profile/", nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), refreshCalls.Load())
}

func TestOutcomeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"transport", &FetchError{Kind: KindTransport}, "transport"},
		{"status", &FetchError{Kind: KindStatus}, "status"},
		{"decode", &FetchError{Kind: KindDecode}, "decode"},
		{"plain", errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, outcome(tc.err))
		})
	}
}
