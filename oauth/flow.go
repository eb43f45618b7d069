package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Endpoint is the authorization server's authorize and token URL pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://www.coinbase.com/oauth/authorize",
	TokenURL: "https://www.coinbase.com/oauth/token",
}

// RevocationURL is where issued tokens are revoked.
const RevocationURL = "https://api.coinbase.com/oauth/revoke"

// Credentials identify the registered application. They are given out by the
// API service provider; keep them out of source code.
type Credentials struct {
	ClientID     string
	ClientSecret string

	// RedirectURL must be an absolute URL with an explicit host and port.
	// Its host:port is where the loopback callback listener binds, e.g.
	// "http://localhost:3001".
	RedirectURL string
}

// Flow drives the three-legged authorization dance: authorization URL, local
// callback, state validation, code exchange, and eventually revocation.
type Flow struct {
	config        *oauth2.Config
	redirect      *url.URL
	revocationURL string
	client        *http.Client
	out           io.Writer
	logger        *slog.Logger
	scopes        map[string]struct{}
}

// Option configures a Flow.
type Option func(*Flow)

// WithEndpoint overrides the authorization server endpoints. Used by tests
// to point the flow at a local server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(f *Flow) { f.config.Endpoint = endpoint }
}

// WithRevocationURL overrides the token revocation endpoint.
func WithRevocationURL(revocationURL string) Option {
	return func(f *Flow) { f.revocationURL = revocationURL }
}

// WithHTTPClient sets the HTTP client used for the token exchange and
// revocation calls. Timeout policy belongs to this client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Flow) { f.client = client }
}

// WithOutput sets where the authorization URL is printed for the operator.
// Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(f *Flow) { f.out = out }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

// New validates the credentials and returns a configured Flow.
func New(creds Credentials, opts ...Option) (*Flow, error) {
	if creds.ClientID == "" {
		return nil, &ConfigError{Reason: "client ID is empty"}
	}
	if creds.ClientSecret == "" {
		return nil, &ConfigError{Reason: "client secret is empty"}
	}

	redirect, err := url.Parse(creds.RedirectURL)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("parsing redirect URL: %v", err)}
	}
	if !redirect.IsAbs() || redirect.Hostname() == "" {
		return nil, &ConfigError{Reason: fmt.Sprintf("redirect URL %q must be absolute with a host", creds.RedirectURL)}
	}
	if redirect.Port() == "" {
		return nil, &ConfigError{Reason: fmt.Sprintf("redirect URL %q must carry an explicit port", creds.RedirectURL)}
	}

	f := &Flow{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Endpoint:     Endpoint,
		},
		redirect:      redirect,
		revocationURL: RevocationURL,
		client:        &http.Client{Timeout: 30 * time.Second},
		out:           os.Stdout,
		logger:        slog.Default(),
		scopes:        make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// AddScopes adds permission scopes to request during authorization.
// Duplicates collapse; a scope outside the whitelist is rejected with
// InvalidScopeError and no scopes from the call are added.
func (f *Flow) AddScopes(scopes ...string) error {
	for _, scope := range scopes {
		if !isValidScope(scope) {
			return &InvalidScopeError{Scope: scope}
		}
	}
	for _, scope := range scopes {
		f.scopes[scope] = struct{}{}
	}
	return nil
}

// Scopes returns the accumulated scope set, sorted.
func (f *Flow) Scopes() []string {
	scopes := make([]string, 0, len(f.scopes))
	for scope := range f.scopes {
		scopes = append(scopes, scope)
	}
	slices.Sort(scopes)
	return scopes
}

// Authorize runs one interactive authorization round-trip:
//
//  1. Generate fresh anti-forgery state and bind the callback listener.
//  2. Print the authorization URL for the operator's browser.
//  3. Wait for exactly one callback connection, bounded by ctx.
//  4. Verify the echoed state, then exchange the code for tokens.
//
// A state mismatch fails with CsrfMismatchError before any token exchange.
// The Flow is reusable: a failed attempt can be retried with a fresh call.
func (f *Flow) Authorize(ctx context.Context) (*TokenStore, error) {
	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	scopes := f.Scopes()
	f.config.Scopes = scopes
	authorizeURL := f.config.AuthCodeURL(state)

	// Bind before publishing the URL so an eager browser cannot hit a
	// closed port.
	ln, err := listenCallback(ctx, f.redirect)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(f.out, "\nOpen this URL in your browser:\n%s\n\n", authorizeURL)
	f.logger.DebugContext(ctx, "waiting for authorization callback", "addr", ln.Addr().String(), "scopes", scopes)

	callback, err := awaitCallback(ctx, ln, f.redirect)
	if err != nil {
		return nil, err
	}

	if callback.state != state {
		return nil, &CsrfMismatchError{}
	}

	token, err := f.exchange(ctx, callback.code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	f.logger.InfoContext(ctx, "authorization complete", "scopes", scopes, "has_refresh_token", token.RefreshToken != "")

	return &TokenStore{
		accessToken:  token.AccessToken,
		refreshToken: token.RefreshToken,
		scopes:       scopes,
	}, nil
}

// exchange trades the authorization code for a token set at the token
// endpoint, using the flow's HTTP client.
func (f *Flow) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.client)
	return f.config.Exchange(ctx, code)
}

// Revoke invalidates the token set so no one can use it afterwards. The
// refresh token is revoked when present (revoking it cascades to the access
// token); otherwise the access token itself is revoked.
func (f *Flow) Revoke(ctx context.Context, tokens *TokenStore) error {
	token := tokens.RefreshToken()
	if token == "" {
		token = tokens.AccessToken()
	}
	return f.RevokeToken(ctx, token)
}

// RevokeToken revokes a single raw token. Failure is reported as a
// RevocationError and leaves any cleanup to the caller.
func (f *Flow) RevokeToken(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.revocationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &RevocationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(f.config.ClientID), url.QueryEscape(f.config.ClientSecret))

	resp, err := f.client.Do(req)
	if err != nil {
		return &RevocationError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RevocationError{Err: fmt.Errorf("revocation endpoint returned status %d", resp.StatusCode)}
	}

	f.logger.InfoContext(ctx, "token revoked")
	return nil
}

// newState returns a cryptographically random, URL-safe anti-forgery token.
// One is generated per authorization attempt and never reused.
func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
