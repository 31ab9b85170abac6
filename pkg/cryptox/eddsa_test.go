package cryptox_test

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)

	_, err = cryptox.ParseEd25519Key([]byte("not pem"))
	require.Error(t, err)
}

func TestLoadOrGenerateEd25519Key(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "session.pem")

	first, err := cryptox.LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Second call must reuse the key on disk, otherwise sessions would not
	// survive a restart.
	second, err := cryptox.LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}
