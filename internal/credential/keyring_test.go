package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newKeyringStore(t *testing.T) (*KeyringStore, *MemoryStore) {
	t.Helper()
	keyring.MockInit()
	live := NewMemoryStore()
	s := NewKeyringStore(live)
	s.user = "tester"
	return s, live
}

func TestKeyringStoreBackupsUseSecretService(t *testing.T) {
	s, live := newKeyringStore(t)

	require.NoError(t, s.Write(Backup(1, "alice@x.com"), "blob"))

	val, err := keyring.Get("Claude Code-Account-1-alice@x.com", "tester")
	require.NoError(t, err)
	assert.Equal(t, "blob", val)
	assert.Empty(t, live.Services(), "backups must not reach the live store")
}

func TestKeyringStoreLiveDelegates(t *testing.T) {
	s, live := newKeyringStore(t)

	require.NoError(t, s.Write(Live(), "live-creds"))

	got, err := live.Read(Live())
	require.NoError(t, err)
	assert.Equal(t, "live-creds", got)

	got, err = s.Read(Live())
	require.NoError(t, err)
	assert.Equal(t, "live-creds", got)
}

func TestKeyringStoreMissingAndDelete(t *testing.T) {
	s, _ := newKeyringStore(t)

	_, err := s.Read(ActiveToken())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ActiveToken()), "delete of absent item must succeed")

	require.NoError(t, s.Write(ActiveToken(), "tok"))
	require.NoError(t, s.Delete(ActiveToken()))
	_, err = s.Read(ActiveToken())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyringStoreTokenExport(t *testing.T) {
	s, _ := newKeyringStore(t)
	assert.Contains(t, s.TokenExport(), "secret-tool lookup service")
	assert.Contains(t, s.TokenExport(), ActiveTokenServiceName)
}
