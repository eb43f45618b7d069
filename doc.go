// Package cbadv is a Go client for the Coinbase Advanced Trade API (v3).
//
// The package provides data bindings for the JSON responses and the GET/POST
// operations of the API reference, an authenticated request executor, and
// lazy pagination for the list endpoints. Authentication is delegated to an
// AccessTokenProvider; the companion oauth package implements one backed by
// an interactive OAuth2 authorization flow.
//
// # Usage
//
//	flow, err := oauth.New(oauth.Credentials{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		RedirectURL:  redirectURL,
//	})
//	if err != nil { ... }
//	if err := flow.AddScopes("wallet:accounts:read"); err != nil { ... }
//
//	tokens, err := flow.Authorize(ctx)
//	if err != nil { ... }
//	defer flow.Revoke(context.Background(), tokens)
//
//	client, err := cbadv.NewClient(tokens)
//	if err != nil { ... }
//
//	limit := int32(4)
//	for accounts, err := range client.ListAccounts(ctx, &cbadv.ListAccountsOptions{Limit: &limit}) {
//		if err != nil { ... }
//		// one batch per HTTP round-trip, at most 4 accounts each
//	}
//
// # Pagination
//
// List endpoints return an iter.Seq2 of batches. Each pull issues one HTTP
// request whose cursor comes from the previous response; breaking out of the
// range stops further requests. A request or decode failure is yielded as
// the terminal element of the sequence, after which it stops; batches
// already yielded remain valid.
//
// # Errors
//
// Upstream error envelopes decode to *APIError so callers can branch on the
// reported code and message. Bodies matching neither the expected shape nor
// the error envelope surface as *DecodeError carrying the raw body.
//
// # Warning
//
// CreateOrder and CancelOrders move real funds. Use at your own risk.
package cbadv
