// Package tokenstore persists the OAuth access token between CLI
// invocations. Three backends are provided: the OS keyring, a plain file,
// and a read-only environment variable.
package tokenstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no token is stored.
var ErrNotFound = errors.New("no token stored")

// Store reads and writes a single token.
type Store interface {
	Read(ctx context.Context) (string, error)
	// Write persists the token. Writing the empty string clears the
	// stored token, keeping logout behind the same abstraction.
	Write(ctx context.Context, token string) error
}
