package oauth

import "slices"

// TokenStore holds the token set obtained from one completed authorization.
// It is written exactly once, by Authorize, and only read afterwards.
type TokenStore struct {
	accessToken  string
	refreshToken string
	scopes       []string
}

// AccessToken returns the bearer token for API requests.
//
// The token may have expired upstream; this package does not refresh it.
func (t *TokenStore) AccessToken() string {
	return t.accessToken
}

// RefreshToken returns the refresh token, or "" if the authorization server
// did not issue one.
func (t *TokenStore) RefreshToken() string {
	return t.refreshToken
}

// Scopes returns the scopes this token set was granted for, sorted.
func (t *TokenStore) Scopes() []string {
	return slices.Clone(t.scopes)
}
