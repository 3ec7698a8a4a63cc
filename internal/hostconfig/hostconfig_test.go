package hostconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/config"
)

const aliceConfig = `{
  "numStartups": 12,
  "oauthAccount": {"emailAddress": "alice@x.com", "accountUuid": "uuid-alice"},
  "projects": {"/src/app": {"allowedTools": ["Bash"]}}
}`

func newStore(t *testing.T) (*Store, config.Paths) {
	t.Helper()
	paths := config.Paths{BaseDir: filepath.Join(t.TempDir(), "base"), HostHome: t.TempDir()}
	require.NoError(t, paths.EnsureDirs())
	return New(paths, nil), paths
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLivePathPrecedence(t *testing.T) {
	s, paths := newStore(t)

	assert.Equal(t, paths.HostConfigFallback(), s.LivePath(), "nothing exists")

	writeFile(t, paths.HostConfigPrimary(), `{"theme":"dark"}`)
	assert.Equal(t, paths.HostConfigFallback(), s.LivePath(), "primary without marker")

	writeFile(t, paths.HostConfigPrimary(), `{not json`)
	assert.Equal(t, paths.HostConfigFallback(), s.LivePath(), "primary malformed")

	writeFile(t, paths.HostConfigPrimary(), aliceConfig)
	assert.Equal(t, paths.HostConfigPrimary(), s.LivePath())
}

func TestCurrentIdentity(t *testing.T) {
	s, paths := newStore(t)

	_, ok := s.CurrentIdentity()
	assert.False(t, ok)

	writeFile(t, paths.HostConfigFallback(), aliceConfig)
	id, ok := s.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, Identity{Label: "alice@x.com", ExternalID: "uuid-alice"}, id)

	writeFile(t, paths.HostConfigFallback(), `{"oauthAccount":{"accountUuid":"u"}}`)
	_, ok = s.CurrentIdentity()
	assert.False(t, ok, "marker without email")

	writeFile(t, paths.HostConfigFallback(), `{"oauthAccount":null}`)
	_, ok = s.CurrentIdentity()
	assert.False(t, ok)
}

func TestBackupRestore(t *testing.T) {
	s, paths := newStore(t)
	writeFile(t, paths.HostConfigFallback(), aliceConfig)

	require.NoError(t, s.Backup(1, "alice@x.com"))

	path := s.BackupPath(1, "alice@x.com")
	assert.Equal(t, filepath.Join(paths.ConfigBackups(), ".claude-config-1-alice@x.com.json"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, aliceConfig, string(data))
	assert.Contains(t, string(data), "\n  \"numStartups\"", "pretty printed")

	doc, err := s.Restore(1, "alice@x.com")
	require.NoError(t, err)
	id, ok := IdentityOf(doc)
	require.True(t, ok)
	assert.Equal(t, "alice@x.com", id.Label)
}

func TestBackupWithoutLiveConfig(t *testing.T) {
	s, _ := newStore(t)
	err := s.Backup(1, "alice@x.com")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRestoreErrors(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Restore(4, "nobody")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	writeFile(t, s.BackupPath(5, "broken"), `{"oauthAccount":`)
	_, err = s.Restore(5, "broken")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	writeFile(t, s.BackupPath(6, "array"), `[1,2]`)
	_, err = s.Restore(6, "array")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestDeleteBackupIdempotent(t *testing.T) {
	s, paths := newStore(t)
	writeFile(t, paths.HostConfigFallback(), aliceConfig)
	require.NoError(t, s.Backup(1, "alice@x.com"))

	require.NoError(t, s.DeleteBackup(1, "alice@x.com"))
	_, err := os.Stat(s.BackupPath(1, "alice@x.com"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.DeleteBackup(1, "alice@x.com"))
}

func TestMergeIdentityReplacesOnlyMarker(t *testing.T) {
	var live Document
	require.NoError(t, json.Unmarshal([]byte(aliceConfig), &live))
	bob := json.RawMessage(`{"emailAddress":"bob@x.com","accountUuid":"uuid-bob"}`)

	merged := MergeIdentity(live, bob)

	id, ok := IdentityOf(merged)
	require.True(t, ok)
	assert.Equal(t, "bob@x.com", id.Label)
	assert.JSONEq(t, string(live["projects"]), string(merged["projects"]))
	assert.JSONEq(t, `12`, string(merged["numStartups"]))

	orig, _ := IdentityOf(live)
	assert.Equal(t, "alice@x.com", orig.Label, "input document not mutated")
}

func TestExtractMarker(t *testing.T) {
	_, err := ExtractMarker(Document{"theme": json.RawMessage(`"dark"`)})
	assert.ErrorIs(t, err, ErrNoMarker)

	raw, err := ExtractMarker(Document{MarkerKey: json.RawMessage(`{"emailAddress":"a"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"emailAddress":"a"}`, string(raw))
}

func TestSaveLiveWritesToLivePath(t *testing.T) {
	s, paths := newStore(t)
	writeFile(t, paths.HostConfigPrimary(), aliceConfig)

	doc, err := s.LoadLive()
	require.NoError(t, err)
	doc["numStartups"] = json.RawMessage(`13`)
	require.NoError(t, s.SaveLive(doc))

	data, err := os.ReadFile(paths.HostConfigPrimary())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"numStartups": 13`)

	_, err = os.Stat(paths.HostConfigFallback())
	assert.True(t, os.IsNotExist(err), "fallback untouched")
}
