package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testCredentials(redirectURL string) Credentials {
	return Credentials{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURL:  redirectURL,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// freePort reserves an ephemeral port and releases it for the flow to bind.
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// urlCapture extracts the first authorization URL printed to it and delivers
// it on a channel, letting the test's fake browser follow the redirect.
type urlCapture struct {
	ch   chan string
	done atomic.Bool
}

func newURLCapture() *urlCapture {
	return &urlCapture{ch: make(chan string, 1)}
}

func (c *urlCapture) Write(p []byte) (int, error) {
	if !c.done.Load() {
		for line := range strings.Lines(string(p)) {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "http") {
				c.done.Store(true)
				c.ch <- line
				break
			}
		}
	}
	return len(p), nil
}

// fakeTokenServer is a minimal token endpoint that records the exchanged
// code and counts calls.
type fakeTokenServer struct {
	*httptest.Server
	calls    atomic.Int64
	lastCode atomic.Value
}

func newFakeTokenServer(t *testing.T) *fakeTokenServer {
	t.Helper()

	srv := &fakeTokenServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.calls.Add(1)
		require.NoError(t, r.ParseForm())
		srv.lastCode.Store(r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-access-token","token_type":"bearer","refresh_token":"test-refresh-token","expires_in":7200}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// browse parses the captured authorization URL, optionally tampers with the
// state, and plays the role of the redirected browser against the loopback
// listener. Returns the raw HTTP response it received.
func browse(t *testing.T, urls <-chan string, addr string, mutate func(code, state string) string) string {
	t.Helper()

	var authorizeURL string
	select {
	case authorizeURL = <-urls:
	case <-time.After(5 * time.Second):
		t.Fatal("authorization URL was never printed")
	}

	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state, "authorization URL carries no state")

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	target := mutate("test-auth-code", state)
	_, err = fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", target, addr)
	require.NoError(t, err)

	response, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(response)
}

func TestNewValidatesConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "empty client id", creds: Credentials{ClientSecret: "s", RedirectURL: "http://localhost:3001"}},
		{name: "empty client secret", creds: Credentials{ClientID: "c", RedirectURL: "http://localhost:3001"}},
		{name: "relative redirect", creds: Credentials{ClientID: "c", ClientSecret: "s", RedirectURL: "/callback"}},
		{name: "redirect without port", creds: Credentials{ClientID: "c", ClientSecret: "s", RedirectURL: "http://localhost"}},
		{name: "unparseable redirect", creds: Credentials{ClientID: "c", ClientSecret: "s", RedirectURL: "http://local host:3001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.creds)
			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
		})
	}
}

func TestAuthorizeHappyPath(t *testing.T) {
	tokenSrv := newFakeTokenServer(t)
	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	capture := newURLCapture()
	flow, err := New(
		testCredentials("http://"+addr),
		WithEndpoint(oauth2.Endpoint{AuthURL: "https://auth.example.com/authorize", TokenURL: tokenSrv.URL}),
		WithOutput(capture),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, flow.AddScopes("wallet:accounts:read", "wallet:user:read"))

	browserResp := make(chan string, 1)
	go func() {
		browserResp <- browse(t, capture.ch, addr, func(code, state string) string {
			return "/?code=" + code + "&state=" + state
		})
	}()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	tokens, err := flow.Authorize(ctx)
	require.NoError(t, err)

	assert.Equal(t, "test-access-token", tokens.AccessToken())
	assert.Equal(t, "test-refresh-token", tokens.RefreshToken())
	assert.Equal(t, []string{"wallet:accounts:read", "wallet:user:read"}, tokens.Scopes())

	assert.Equal(t, int64(1), tokenSrv.calls.Load())
	assert.Equal(t, "test-auth-code", tokenSrv.lastCode.Load())

	resp := <-browserResp
	assert.Contains(t, resp, "200 OK")
	assert.Contains(t, resp, confirmationBody)
}

func TestAuthorizeRejectsStateMismatchBeforeExchange(t *testing.T) {
	tokenSrv := newFakeTokenServer(t)
	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	capture := newURLCapture()
	flow, err := New(
		testCredentials("http://"+addr),
		WithEndpoint(oauth2.Endpoint{AuthURL: "https://auth.example.com/authorize", TokenURL: tokenSrv.URL}),
		WithOutput(capture),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	go func() {
		browse(t, capture.ch, addr, func(code, state string) string {
			return "/?code=" + code + "&state=forged-state"
		})
	}()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	_, err = flow.Authorize(ctx)
	var mismatch *CsrfMismatchError
	require.ErrorAs(t, err, &mismatch)

	assert.Zero(t, tokenSrv.calls.Load(), "token exchange must not happen after a state mismatch")
}

func TestAuthorizeFailsOnMalformedCallback(t *testing.T) {
	tests := []struct {
		name   string
		target func(code, state string) string
	}{
		{name: "missing code", target: func(code, state string) string { return "/?state=" + state }},
		{name: "missing state", target: func(code, state string) string { return "/?code=" + code }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSrv := newFakeTokenServer(t)
			port := freePort(t)
			addr := fmt.Sprintf("127.0.0.1:%d", port)

			capture := newURLCapture()
			flow, err := New(
				testCredentials("http://"+addr),
				WithEndpoint(oauth2.Endpoint{AuthURL: "https://auth.example.com/authorize", TokenURL: tokenSrv.URL}),
				WithOutput(capture),
				WithLogger(discardLogger()),
			)
			require.NoError(t, err)

			go func() {
				browse(t, capture.ch, addr, tt.target)
			}()

			ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
			defer cancel()

			_, err = flow.Authorize(ctx)
			var parseErr *CallbackParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Zero(t, tokenSrv.calls.Load())
		})
	}
}

func TestAuthorizeHonorsContextCancellation(t *testing.T) {
	port := freePort(t)

	flow, err := New(
		testCredentials(fmt.Sprintf("http://127.0.0.1:%d", port)),
		WithOutput(io.Discard),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	_, err = flow.Authorize(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRevokePrefersRefreshToken(t *testing.T) {
	var revoked atomic.Value
	revokeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		revoked.Store(r.Form.Get("token"))

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "test-client-id", user)
	}))
	defer revokeSrv.Close()

	flow, err := New(
		testCredentials("http://localhost:3001"),
		WithRevocationURL(revokeSrv.URL),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	tokens := &TokenStore{accessToken: "at", refreshToken: "rt"}
	require.NoError(t, flow.Revoke(t.Context(), tokens))
	assert.Equal(t, "rt", revoked.Load())

	accessOnly := &TokenStore{accessToken: "at"}
	require.NoError(t, flow.Revoke(t.Context(), accessOnly))
	assert.Equal(t, "at", revoked.Load())
}

func TestRevokeReportsFailureAsRevocationError(t *testing.T) {
	revokeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer revokeSrv.Close()

	flow, err := New(
		testCredentials("http://localhost:3001"),
		WithRevocationURL(revokeSrv.URL),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	err = flow.Revoke(t.Context(), &TokenStore{accessToken: "at"})
	var revErr *RevocationError
	require.ErrorAs(t, err, &revErr)
}

func TestCsrfMismatchErrorLeaksNoTokens(t *testing.T) {
	err := error(&CsrfMismatchError{})
	assert.NotContains(t, err.Error(), "forged")
	assert.True(t, errors.As(err, new(*CsrfMismatchError)))
}
