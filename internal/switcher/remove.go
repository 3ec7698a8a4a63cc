package switcher

import (
	"errors"
	"fmt"

	"github.com/benaskins/ccswitch/internal/audit"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// RemoveResult describes a removed slot.
type RemoveResult struct {
	Slot      ledger.Slot
	WasActive bool
}

// Remove deletes the account named by identifier and its backups. The live
// credential and config are never touched, even when removing the active
// account.
func (e *Engine) Remove(identifier string) (result RemoveResult, err error) {
	l, err := e.loadLedger()
	if err != nil {
		return RemoveResult{}, err
	}
	if l.Len() == 0 {
		return RemoveResult{}, ErrNoAccounts
	}
	slot, ok := l.Resolve(identifier)
	if !ok {
		return RemoveResult{}, fmt.Errorf("%w matching '%s'", ErrUnknownAccount, identifier)
	}
	result = RemoveResult{Slot: slot, WasActive: l.Active == slot.ID}

	op, store := e.begin()
	defer func() {
		e.record(audit.Entry{Action: audit.ActionAccountRemove, OpID: op, Slot: slot.ID, Label: slot.Label}, err)
	}()

	if err := store.Delete(credential.Backup(slot.ID, slot.Label)); err != nil && !errors.Is(err, credential.ErrNotFound) {
		return result, classifyStore("delete credential backup", err)
	}
	if err := e.host.DeleteBackup(slot.ID, slot.Label); err != nil {
		e.logger.Warn("config backup not deleted", "slot", slot.ID, "error", err)
	}

	l.Remove(slot.ID)
	if err := e.saveLedger(l); err != nil {
		return result, err
	}

	e.logger.Debug("account removed", "slot", slot.ID, "label", slot.Label)
	return result, nil
}
