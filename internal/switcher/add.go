package switcher

import (
	"fmt"
	"strings"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/audit"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/hostconfig"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// AddResult describes the slot an add produced or found.
type AddResult struct {
	Slot ledger.Slot
	// AlreadyManaged is set when the account already had a slot. Nothing was
	// written.
	AlreadyManaged bool
	// RCCreated is set when this add wrote the shell rc file.
	RCCreated bool
	RCPath    string
}

// DetectMode reports how the live account authenticates. Token mode wins
// when the token variable is set, even if the config still names an OAuth
// account, because the host prefers the variable.
func (e *Engine) DetectMode() ledger.AuthMode {
	if _, ok := e.lookupEnv(credential.TokenEnvVar); ok {
		return ledger.Token
	}
	if _, ok := e.host.CurrentIdentity(); !ok {
		return ledger.Token
	}
	return ledger.OAuth
}

// DefaultTokenLabel is the label a token account gets when none is given.
func (e *Engine) DefaultTokenLabel() string {
	return fmt.Sprintf("token-%08X", uint32(e.now().Unix()))
}

// Add registers the live OAuth account as a new slot and makes it active.
func (e *Engine) Add() (result AddResult, err error) {
	op, store := e.begin()
	defer func() {
		if !result.AlreadyManaged {
			e.record(audit.Entry{Action: audit.ActionAccountAdd, OpID: op, Slot: result.Slot.ID, Label: result.Slot.Label}, err)
		}
	}()

	id, ok := e.host.CurrentIdentity()
	if !ok {
		return AddResult{}, ErrNoIdentity
	}
	if err := e.paths.EnsureDirs(); err != nil {
		return AddResult{}, apperr.Wrap(apperr.KindIO, "add", "", err)
	}

	l, err := e.loadLedger()
	if err != nil {
		return AddResult{}, err
	}
	if existing, ok := l.FindByLabel(id.Label); ok {
		e.logger.Debug("account already managed", "slot", existing.ID, "label", existing.Label)
		return AddResult{Slot: existing, AlreadyManaged: true}, nil
	}

	slot := ledger.Slot{
		ID:         l.NextSlotID(),
		Label:      id.Label,
		ExternalID: id.ExternalID,
		Added:      e.timestamp(),
		Mode:       ledger.OAuth,
	}

	live, err := store.Read(credential.Live())
	if err != nil {
		return AddResult{Slot: slot}, classifyStore("read live credential", err)
	}
	if err := store.Write(credential.Backup(slot.ID, slot.Label), live); err != nil {
		return AddResult{Slot: slot}, classifyStore("write credential backup", err)
	}
	if err := e.host.Backup(slot.ID, slot.Label); err != nil {
		return AddResult{Slot: slot}, err
	}

	if err := l.Insert(slot); err != nil {
		return AddResult{Slot: slot}, apperr.Wrap(apperr.KindInvalidState, "add", "", err)
	}
	if err := e.saveLedger(l); err != nil {
		return AddResult{Slot: slot}, err
	}

	e.logger.Debug("account added", "slot", slot.ID, "label", slot.Label, "mode", slot.Mode)
	return AddResult{Slot: slot}, nil
}

// AddToken registers a static token as a new slot and makes it active. An
// empty label gets DefaultTokenLabel. A label that is already managed is
// reported as AlreadyManaged and nothing is written.
func (e *Engine) AddToken(token, label string) (result AddResult, err error) {
	op, store := e.begin()
	defer func() {
		if !result.AlreadyManaged {
			e.record(audit.Entry{Action: audit.ActionAccountAdd, OpID: op, Slot: result.Slot.ID, Label: result.Slot.Label}, err)
		}
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return AddResult{}, ErrEmptyToken
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = e.DefaultTokenLabel()
	}
	if err := e.paths.EnsureDirs(); err != nil {
		return AddResult{}, apperr.Wrap(apperr.KindIO, "add token", "", err)
	}

	l, err := e.loadLedger()
	if err != nil {
		return AddResult{}, err
	}
	if existing, ok := l.FindByLabel(label); ok {
		return AddResult{Slot: existing, AlreadyManaged: true}, nil
	}

	slot := ledger.Slot{
		ID:    l.NextSlotID(),
		Label: label,
		Added: e.timestamp(),
		Mode:  ledger.Token,
	}

	blob, err := credential.WrapToken(token)
	if err != nil {
		return AddResult{Slot: slot}, apperr.Wrap(apperr.KindInvalidState, "add token", "", err)
	}
	if err := store.Write(credential.Backup(slot.ID, slot.Label), blob); err != nil {
		return AddResult{Slot: slot}, classifyStore("write token backup", err)
	}

	// The live config may be absent or lack an account for token users.
	if err := e.host.Backup(slot.ID, slot.Label); err != nil {
		e.logger.Debug("no live config to snapshot, storing empty config", "slot", slot.ID, "error", err)
		if err := e.host.SaveBackup(slot.ID, slot.Label, hostconfig.Document{}); err != nil {
			e.logger.Warn("config snapshot failed", "slot", slot.ID, "error", err)
		}
	}

	if err := store.Write(credential.ActiveToken(), token); err != nil {
		return AddResult{Slot: slot}, classifyStore("write active token", err)
	}

	result = AddResult{Slot: slot, RCPath: e.paths.RCFile()}
	created, rcErr := credential.EnsureRCFile(result.RCPath, e.store)
	if rcErr != nil {
		e.logger.Warn("rc file not written", "path", result.RCPath, "error", rcErr)
	}
	result.RCCreated = created

	if err := l.Insert(slot); err != nil {
		return AddResult{Slot: slot}, apperr.Wrap(apperr.KindInvalidState, "add token", "", err)
	}
	if err := e.saveLedger(l); err != nil {
		return AddResult{Slot: slot}, err
	}

	e.logger.Debug("account added", "slot", slot.ID, "label", slot.Label, "mode", slot.Mode)
	return result, nil
}
