package tokenstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileStore(path)

	_, err := store.Read(t.Context())
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(t.Context(), "secret-token"))

	token, err := store.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)

	require.NoError(t, store.Write(t.Context(), "secret-token"))
	require.NoError(t, store.Write(t.Context(), ""))

	_, err := store.Read(t.Context())
	require.ErrorIs(t, err, ErrNotFound)

	// Clearing an already absent token is not an error.
	require.NoError(t, store.Write(t.Context(), ""))
}

func TestEnvStoreIsReadOnly(t *testing.T) {
	store := NewEnvStore("CBADV_TEST_TOKEN")

	_, err := store.Read(t.Context())
	require.ErrorIs(t, err, ErrNotFound)

	t.Setenv("CBADV_TEST_TOKEN", "from-env")
	token, err := store.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	require.Error(t, store.Write(t.Context(), "anything"))
}

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("test-user")

	_, err := store.Read(t.Context())
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(t.Context(), "secret-token"))
	token, err := store.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	require.NoError(t, store.Write(t.Context(), ""))
	_, err = store.Read(t.Context())
	require.ErrorIs(t, err, ErrNotFound)
}
