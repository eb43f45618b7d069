package cbadv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.coinbase.com/api/v3"

// AccessTokenProvider supplies the bearer token attached to every request.
// *oauth.TokenStore implements it; so does any static token wrapper.
type AccessTokenProvider interface {
	AccessToken() string
}

// Client executes authenticated REST calls against the trading API.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  AccessTokenProvider
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, e.g. to target a sandbox or a test
// server. The value must not end with a slash.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the underlying HTTP client. Timeout policy belongs to
// this client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.client = client }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient returns a Client that authenticates with tokens.
func NewClient(tokens AccessTokenProvider, opts ...ClientOption) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token provider must not be nil")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// get executes an authenticated GET and decodes the body into T.
func get[T any](ctx context.Context, c *Client, requestURL string) (T, error) {
	var zero T

	body, err := c.roundTrip(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return zero, err
	}
	return decodeBody[T](body)
}

// post executes an authenticated POST with a JSON payload and decodes the
// body into T.
func post[T any](ctx context.Context, c *Client, requestURL string, payload any) (T, error) {
	var zero T

	encoded, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("encoding request body: %w", err)
	}

	body, err := c.roundTrip(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return zero, err
	}
	return decodeBody[T](body)
}

// roundTrip sends one bearer-authenticated request and returns the raw
// response body. The body is returned for any HTTP status; whether it is a
// success or an error envelope is decided by decoding, not by status code.
func (c *Client) roundTrip(ctx context.Context, method, requestURL string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method, URL: requestURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method, URL: requestURL, Err: err}
	}

	c.logger.DebugContext(ctx, "api response",
		"method", method,
		"url", requestURL,
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	return raw, nil
}

// decodeBody tries the success shape first, then the error envelope. Both
// attempts reject unknown fields: without that, Go's permissive decoding
// would let an error body vacuously satisfy almost any success struct.
func decodeBody[T any](body []byte) (T, error) {
	var result T
	successErr := strictUnmarshal(body, &result)
	if successErr == nil {
		return result, nil
	}

	var zero T
	var apiErr APIError
	if err := strictUnmarshal(body, &apiErr); err == nil && (apiErr.ErrorCode != "" || apiErr.Message != "") {
		return zero, &apiErr
	}

	return zero, &DecodeError{Body: body, Err: successErr}
}

func strictUnmarshal(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
