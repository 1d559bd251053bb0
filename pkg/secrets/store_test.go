package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStore(t *testing.T) {
	t.Setenv("SIDENOTE_API_KEY", "sk-env")

	store := EnvStore{Prefix: "SIDENOTE_"}

	assert.Equal(t, "sk-env", store.Get("api_key"))
	assert.Equal(t, "sk-env", store.Get("api-key"))
	assert.Equal(t, "", store.Get("missing"))
}

func TestFileStore(t *testing.T) {
	t.Run("Reads YAML Values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secrets.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_key: sk-file\nother: x\n"), 0600))

		store, err := NewFileStore(path)

		require.NoError(t, err)
		assert.Equal(t, "sk-file", store.Get("api_key"))
		assert.Equal(t, "", store.Get("missing"))
	})

	t.Run("Missing File Is Empty Store", func(t *testing.T) {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "", store.Get("api_key"))
	})

	t.Run("Malformed File Is An Error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secrets.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))

		_, err := NewFileStore(path)
		assert.Error(t, err)
	})
}

func TestChain(t *testing.T) {
	t.Setenv("SIDENOTE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: sk-file\n"), 0600))
	file, err := NewFileStore(path)
	require.NoError(t, err)

	chain := Chain{EnvStore{Prefix: "SIDENOTE_"}, file}

	t.Run("Falls Through Empty Values", func(t *testing.T) {
		assert.Equal(t, "sk-file", chain.Get("api_key"))
	})

	t.Run("First Non Empty Wins", func(t *testing.T) {
		t.Setenv("SIDENOTE_API_KEY", "sk-env")
		assert.Equal(t, "sk-env", chain.Get("api_key"))
	})
}
