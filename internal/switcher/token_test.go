package switcher

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// newFileFixture uses the file-backed store so the rc file can be written.
func newFileFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.store = credential.NewFileStore(f.paths)
	f.build()
	return f
}

func TestAddTokenDefaults(t *testing.T) {
	f := newFileFixture(t)
	f.env[credential.TokenEnvVar] = ""
	require.Equal(t, ledger.Token, f.engine.DetectMode())

	res, err := f.engine.AddToken("  sk-ant-oat01-secret\n", "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Slot.ID)
	assert.Equal(t, "token-65F2A1B3", res.Slot.Label)
	assert.Equal(t, ledger.Token, res.Slot.Mode)
	assert.Empty(t, res.Slot.ExternalID)

	backup := f.read(credential.Backup(1, "token-65F2A1B3"))
	assert.JSONEq(t, `{"token":"sk-ant-oat01-secret"}`, backup)
	assert.Equal(t, "sk-ant-oat01-secret", f.read(credential.ActiveToken()))

	data, err := os.ReadFile(f.host.BackupPath(1, "token-65F2A1B3"))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data), "no live config means an empty snapshot")

	assert.True(t, res.RCCreated)
	assert.Equal(t, f.paths.RCFile(), res.RCPath)
	rc, err := os.ReadFile(f.paths.RCFile())
	require.NoError(t, err)
	assert.Contains(t, string(rc), f.paths.ActiveTokenFile())

	l := f.ledger()
	assert.Equal(t, []int{1}, l.Order)
	assert.Equal(t, 1, l.Active)
}

func TestAddTokenKeepsExistingRCFile(t *testing.T) {
	f := newFileFixture(t)
	require.NoError(t, os.WriteFile(f.paths.RCFile(), []byte("# mine\n"), 0600))

	res, err := f.engine.AddToken("sk-ant-oat01-a", "ci")
	require.NoError(t, err)
	assert.False(t, res.RCCreated)

	rc, _ := os.ReadFile(f.paths.RCFile())
	assert.Equal(t, "# mine\n", string(rc))
}

func TestAddTokenSnapshotsLiveConfig(t *testing.T) {
	f := newFileFixture(t)
	f.login("alice@x.com", "alice-creds")

	_, err := f.engine.AddToken("sk-ant-oat01-a", "ci")
	require.NoError(t, err)

	doc, err := f.host.Restore(1, "ci")
	require.NoError(t, err)
	assert.Contains(t, doc, "oauthAccount")
}

func TestAddTokenDuplicateLabel(t *testing.T) {
	f := newFileFixture(t)
	_, err := f.engine.AddToken("sk-ant-oat01-a", "ci")
	require.NoError(t, err)

	res, err := f.engine.AddToken("sk-ant-oat01-b", "ci")
	require.NoError(t, err)
	assert.True(t, res.AlreadyManaged)
	assert.Equal(t, 1, res.Slot.ID)
	assert.Equal(t, "sk-ant-oat01-a", f.read(credential.ActiveToken()), "active token untouched")
	assert.Equal(t, 1, f.ledger().Len())
}

func TestAddTokenEmpty(t *testing.T) {
	f := newFileFixture(t)
	_, err := f.engine.AddToken("   ", "ci")
	assert.ErrorIs(t, err, ErrEmptyToken)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAddTokenWithMemoryStoreSkipsRCFile(t *testing.T) {
	f := newFixture(t)

	res, err := f.engine.AddToken("sk-ant-oat01-a", "ci")
	require.NoError(t, err)
	assert.False(t, res.RCCreated)
	_, statErr := os.Stat(f.paths.RCFile())
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 1, f.ledger().Len())
}

func TestSwitchBetweenOAuthAndToken(t *testing.T) {
	f := newFileFixture(t)
	f.addOAuth("alice@x.com")
	_, err := f.engine.AddToken("sk-ant-oat01-ci", "ci")
	require.NoError(t, err)
	require.Equal(t, 2, f.ledger().Active)

	// Outgoing token account: nothing is snapshotted.
	tokenBackup := f.read(credential.Backup(2, "ci"))
	res, err := f.engine.Switch("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, res.From.ID)
	assert.Equal(t, tokenBackup, f.read(credential.Backup(2, "ci")))
	assert.Equal(t, "alice@x.com-creds", f.read(credential.Live()))
	assert.Equal(t, "alice@x.com", f.liveIdentity())

	require.NoError(t, f.store.Write(credential.Live(), "alice-refreshed"))
	require.NoError(t, f.store.Write(credential.ActiveToken(), "stale"))

	res, err = f.engine.Switch("ci")
	require.NoError(t, err)
	assert.Equal(t, 1, res.From.ID)
	assert.Equal(t, "sk-ant-oat01-ci", f.read(credential.ActiveToken()))
	assert.Equal(t, "alice-refreshed", f.read(credential.Backup(1, "alice@x.com")))
	assert.Equal(t, "alice-refreshed", f.read(credential.Live()), "token activation leaves the live credential alone")
	assert.Equal(t, 2, f.ledger().Active)
}

func TestSwitchToTokenWithCorruptBackup(t *testing.T) {
	f := newFileFixture(t)
	f.addOAuth("alice@x.com")
	_, err := f.engine.AddToken("sk-ant-oat01-ci", "ci")
	require.NoError(t, err)
	_, err = f.engine.Switch("1")
	require.NoError(t, err)

	require.NoError(t, f.store.Write(credential.Backup(2, "ci"), `{"claudeAiOauth":{}}`))

	_, err = f.engine.Switch("ci")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	assert.ErrorIs(t, err, credential.ErrNoToken)
	assert.Equal(t, 1, f.ledger().Active)
}
