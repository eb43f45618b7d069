package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "cbadv"

// KeyringStore keeps the token in the operating system keyring.
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore returns a store scoped to the given user label.
func NewKeyringStore(user string) *KeyringStore {
	if user == "" {
		user = "oauth"
	}
	return &KeyringStore{service: keyringService, user: user}
}

func (s *KeyringStore) Read(_ context.Context) (string, error) {
	token, err := keyring.Get(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading token from keyring: %w", err)
	}
	return token, nil
}

func (s *KeyringStore) Write(_ context.Context, token string) error {
	if token == "" {
		err := keyring.Delete(s.service, s.user)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("clearing token from keyring: %w", err)
		}
		return nil
	}

	if err := keyring.Set(s.service, s.user, token); err != nil {
		return fmt.Errorf("writing token to keyring: %w", err)
	}
	return nil
}
