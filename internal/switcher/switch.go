package switcher

import (
	"errors"
	"fmt"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/audit"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/hostconfig"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// SwitchResult describes a switch. From is the zero Slot when the outgoing
// account could not be named.
type SwitchResult struct {
	From ledger.Slot
	To   ledger.Slot
	// AlreadyActive is set when the target was already active. Nothing was
	// written.
	AlreadyActive bool
}

// Switch makes the account named by identifier (slot number or label) the
// live one.
func (e *Engine) Switch(identifier string) (SwitchResult, error) {
	l, err := e.loadLedger()
	if err != nil {
		return SwitchResult{}, err
	}
	if l.Len() == 0 {
		return SwitchResult{}, ErrNoAccounts
	}
	target, ok := l.Resolve(identifier)
	if !ok {
		return SwitchResult{}, fmt.Errorf("%w matching '%s'", ErrUnknownAccount, identifier)
	}
	return e.switchTo(l, target)
}

// RotateNext switches to the slot after the active one in rotation order,
// wrapping to the first.
func (e *Engine) RotateNext() (SwitchResult, error) {
	l, err := e.loadLedger()
	if err != nil {
		return SwitchResult{}, err
	}
	if l.Len() == 0 {
		return SwitchResult{}, ErrNoAccounts
	}
	if len(l.Order) < 2 {
		return SwitchResult{}, ErrTooFewAccounts
	}
	source, err := e.currentSlot(l)
	if err != nil {
		return SwitchResult{}, err
	}
	next, _ := l.NextAfter(source.ID)
	target, _ := l.Get(next)
	return e.switchTo(l, target)
}

// currentSlot is the outgoing account: the ledger's active slot, else the
// slot whose label matches the live OAuth identity.
func (e *Engine) currentSlot(l *ledger.Ledger) (ledger.Slot, error) {
	if s, ok := l.ActiveSlot(); ok {
		return s, nil
	}
	id, ok := e.host.CurrentIdentity()
	if !ok {
		return ledger.Slot{}, ErrNoActiveAccount
	}
	s, ok := l.FindByLabel(id.Label)
	if !ok {
		return ledger.Slot{}, fmt.Errorf("%w: '%s' is not managed", ErrNoActiveAccount, id.Label)
	}
	return s, nil
}

func (e *Engine) switchTo(l *ledger.Ledger, target ledger.Slot) (result SwitchResult, err error) {
	result.To = target
	if l.Active == target.ID {
		result.From = target
		result.AlreadyActive = true
		return result, nil
	}

	source, err := e.currentSlot(l)
	if err != nil {
		return result, err
	}
	result.From = source
	if source.ID == target.ID {
		result.AlreadyActive = true
		return result, nil
	}

	op, store := e.begin()
	defer func() {
		e.record(audit.Entry{
			Action: audit.ActionAccountSwitch,
			OpID:   op,
			Slot:   target.ID,
			From:   source.ID,
			Label:  target.Label,
		}, err)
	}()

	// The host refreshes OAuth credentials in place, so the outgoing
	// account's backup is refreshed from live before anything is replaced.
	// Token backups never change after add.
	if source.Mode != ledger.Token {
		if err := e.snapshot(store, source); err != nil {
			return result, err
		}
	}

	blob, err := store.Read(credential.Backup(target.ID, target.Label))
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return result, fmt.Errorf("%w: credentials for account %d", ErrMissingBackup, target.ID)
		}
		return result, classifyStore("read credential backup", err)
	}

	switch target.Mode {
	case ledger.Token:
		err = e.activateToken(store, target, blob)
	default:
		err = e.activateOAuth(store, target, blob)
	}
	if err != nil {
		return result, err
	}

	l.Active = target.ID
	if err := e.saveLedger(l); err != nil {
		return result, err
	}

	e.logger.Debug("switched account", "from", source.ID, "slot", target.ID, "label", target.Label)
	return result, nil
}

// snapshot copies the live credential and config into slot's backups.
func (e *Engine) snapshot(store credential.Store, slot ledger.Slot) error {
	live, err := store.Read(credential.Live())
	if err != nil {
		return classifyStore("read live credential", err)
	}
	if err := store.Write(credential.Backup(slot.ID, slot.Label), live); err != nil {
		return classifyStore("write credential backup", err)
	}
	return e.host.Backup(slot.ID, slot.Label)
}

func (e *Engine) activateOAuth(store credential.Store, target ledger.Slot, blob string) error {
	backup, err := e.host.Restore(target.ID, target.Label)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return fmt.Errorf("%w: config for account %d: %w", ErrMissingBackup, target.ID, err)
		}
		return err
	}
	marker, err := hostconfig.ExtractMarker(backup)
	if err != nil {
		return fmt.Errorf("%w: account %d", ErrInvalidConfig, target.ID)
	}

	if err := store.Write(credential.Live(), blob); err != nil {
		return classifyStore("write live credential", err)
	}
	live, err := e.host.LoadLive()
	if err != nil {
		return err
	}
	return e.host.SaveLive(hostconfig.MergeIdentity(live, marker))
}

func (e *Engine) activateToken(store credential.Store, target ledger.Slot, blob string) error {
	token, err := credential.UnwrapToken(blob)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "switch", fmt.Sprintf("token backup for account %d", target.ID), err)
	}
	if err := store.Write(credential.ActiveToken(), token); err != nil {
		return classifyStore("write active token", err)
	}
	return nil
}

// classifyStore attaches a kind to a credential store failure.
func classifyStore(op string, err error) error {
	if errors.Is(err, credential.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, op, "", err)
	}
	return apperr.Wrap(apperr.KindIO, op, "", err)
}
