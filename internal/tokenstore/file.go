package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the token in a JSON file, created owner-readable only.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

func (s *FileStore) Read(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	var contents tokenFile
	if err := json.Unmarshal(raw, &contents); err != nil {
		return "", fmt.Errorf("parsing token file %s: %w", s.path, err)
	}
	if contents.AccessToken == "" {
		return "", ErrNotFound
	}
	return contents.AccessToken, nil
}

func (s *FileStore) Write(_ context.Context, token string) error {
	if token == "" {
		err := os.Remove(s.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing token file: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}
