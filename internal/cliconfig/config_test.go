package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-labs/cbadv/internal/tokenstore"
)

func noEnv() []string { return nil }

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, TokenStorageKeyring, cfg.Auth.Storage)
	assert.Equal(t, "http://localhost:3001", cfg.Auth.RedirectURL)
	assert.NotEmpty(t, cfg.Auth.Scopes)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbadv.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[auth]
storage = "file"
token_file = "/tmp/cbadv-token.json"
client_id = "from-file"
`), 0o600))

	cfg, err := Load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, TokenStorageFile, cfg.Auth.Storage)
	assert.Equal(t, "from-file", cfg.Auth.ClientID)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbadv.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o600))

	environ := func() []string {
		return []string{
			"CBADV_LOG__LEVEL=error",
			"CBADV_AUTH__CLIENT_ID=from-env",
			"UNRELATED=ignored",
		}
	}

	cfg, err := Load(path, environ)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Auth.ClientID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	environ := func() []string { return []string{"CBADV_LOG__LEVEL=verbose"} }

	_, err := Load("", environ)
	require.Error(t, err)
	assert.ErrorContains(t, err, "validating config")
}

func TestLoadRejectsFileStorageWithoutPath(t *testing.T) {
	environ := func() []string { return []string{"CBADV_AUTH__STORAGE=file"} }

	_, err := Load("", environ)
	require.Error(t, err)
}

func TestNewTokenStorePicksBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  AuthConfig
		want any
	}{
		{name: "keyring", cfg: AuthConfig{Storage: TokenStorageKeyring}, want: &tokenstore.KeyringStore{}},
		{name: "file", cfg: AuthConfig{Storage: TokenStorageFile, TokenFile: "/tmp/t.json"}, want: &tokenstore.FileStore{}},
		{name: "env", cfg: AuthConfig{Storage: TokenStorageEnv, TokenEnv: "X"}, want: &tokenstore.EnvStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := tt.cfg.NewTokenStore()
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}

	_, err := AuthConfig{Storage: "vault"}.NewTokenStore()
	require.Error(t, err)
}
