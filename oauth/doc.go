// Package oauth implements the interactive OAuth2 authorization-code flow
// for the Coinbase Advanced Trade API.
//
// The flow is deliberately minimal: it obtains a token set exactly once per
// Authorize call and does not refresh it. Coinbase access tokens expire
// after two hours; callers that need longer sessions should run the flow
// again or revoke and re-authorize.
//
// # Authorization flow
//
// Authorize prints an authorization URL for the operator to open in a
// browser, then binds a one-shot TCP listener on the host:port of the
// configured redirect URL and waits for the browser to be redirected back.
// The single callback request carries the authorization code and the
// anti-forgery state; the state must match the value generated for this
// attempt or the flow fails closed before any token exchange happens.
//
//	flow, err := oauth.New(oauth.Credentials{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		RedirectURL:  "http://localhost:3001",
//	})
//	if err != nil { ... }
//	if err := flow.AddScopes("wallet:accounts:read"); err != nil { ... }
//	tokens, err := flow.Authorize(ctx)
//	if err != nil { ... }
//	defer flow.Revoke(context.Background(), tokens)
//
// The returned TokenStore satisfies cbadv.AccessTokenProvider, so a client
// can only ever be built from a completed authorization. That ordering is
// what makes the token safe to read without locking.
package oauth
