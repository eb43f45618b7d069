package tokenstore

import (
	"context"
	"errors"
	"os"
)

// EnvStore reads the token from an environment variable. It is read-only:
// tokens injected by the environment (CI, containers) are managed outside
// the CLI.
type EnvStore struct {
	variable string
}

func NewEnvStore(variable string) *EnvStore {
	return &EnvStore{variable: variable}
}

func (s *EnvStore) Read(_ context.Context) (string, error) {
	token := os.Getenv(s.variable)
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (s *EnvStore) Write(_ context.Context, _ string) error {
	return errors.New("env token storage is read-only")
}
