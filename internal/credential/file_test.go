package credential

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/ccswitch/internal/config"
)

func newFileStore(t *testing.T) (*FileStore, config.Paths) {
	t.Helper()
	paths := config.Paths{
		BaseDir:  filepath.Join(t.TempDir(), "backup"),
		HostHome: t.TempDir(),
	}
	require.NoError(t, paths.EnsureDirs())
	return NewFileStore(paths), paths
}

func TestFileStoreWriteIsOwnerOnly(t *testing.T) {
	s, _ := newFileStore(t)

	for _, svc := range []Service{Live(), Backup(1, "alice@x.com"), ActiveToken()} {
		require.NoError(t, s.Write(svc, `{"secret":"x"}`))

		info, err := os.Stat(s.Path(svc))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), svc.String())
	}
}

func TestFileStoreTightensWidePermissions(t *testing.T) {
	s, _ := newFileStore(t)
	path := s.Path(Backup(1, "a"))
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, s.Write(Backup(1, "a"), "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreLocations(t *testing.T) {
	s, paths := newFileStore(t)

	assert.Equal(t, paths.HostCredentials(), s.Path(Live()))
	assert.Equal(t, paths.ActiveTokenFile(), s.Path(ActiveToken()))
	assert.Equal(t,
		filepath.Join(paths.CredentialBackups(), ".claude-credentials-4-bob@x.com.json"),
		s.Path(Backup(4, "bob@x.com")))
}

func TestFileStoreLiveCreatesHostDir(t *testing.T) {
	s, paths := newFileStore(t)

	require.NoError(t, s.Write(Live(), "creds"))

	info, err := os.Stat(paths.HostDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreLabelCannotEscapeDir(t *testing.T) {
	s, paths := newFileStore(t)

	path := s.Path(Backup(1, "../../etc/passwd"))
	assert.Equal(t, paths.CredentialBackups(), filepath.Dir(path))
}

func TestFileStoreReadMissing(t *testing.T) {
	s, _ := newFileStore(t)

	_, err := s.Read(Backup(7, "nobody"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDeleteIdempotent(t *testing.T) {
	s, _ := newFileStore(t)

	require.NoError(t, s.Write(Backup(1, "a"), "x"))
	require.NoError(t, s.Delete(Backup(1, "a")))
	require.NoError(t, s.Delete(Backup(1, "a")))

	_, err := s.Read(Backup(1, "a"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreTokenExport(t *testing.T) {
	s, paths := newFileStore(t)

	assert.True(t, strings.HasPrefix(s.TokenExport(), "cat "))
	assert.Contains(t, s.TokenExport(), paths.ActiveTokenFile())
}
