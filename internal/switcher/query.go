package switcher

import (
	"fmt"

	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/hostconfig"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// Account is a slot as presented to a front-end.
type Account struct {
	ledger.Slot
	Active bool
}

// Status is what the host is running right now.
type Status struct {
	// Active is the managed account in use, when there is one.
	Active  Account
	Managed bool
	// Live is the identity in the host config, independent of the ledger.
	Live    hostconfig.Identity
	HasLive bool
	// EnvToken is set when the token variable is present in the environment.
	EnvToken bool
}

// List returns the managed accounts in rotation order with the active one
// marked. With no active slot recorded, the slot matching the live identity
// is marked instead.
func (e *Engine) List() ([]Account, error) {
	l, err := e.loadLedger()
	if err != nil {
		return nil, err
	}
	active := e.activeID(l)
	out := make([]Account, 0, l.Len())
	for _, s := range l.Ordered() {
		out = append(out, Account{Slot: s, Active: s.ID == active})
	}
	return out, nil
}

// Status reports the active account and the live identity.
func (e *Engine) Status() (Status, error) {
	l, err := e.loadLedger()
	if err != nil {
		return Status{}, err
	}
	var st Status
	st.Live, st.HasLive = e.host.CurrentIdentity()
	_, st.EnvToken = e.lookupEnv(credential.TokenEnvVar)
	if s, ok := l.Get(e.activeID(l)); ok {
		st.Active = Account{Slot: s, Active: true}
		st.Managed = true
	}
	return st, nil
}

// Lookup resolves identifier without changing anything. Front-ends use it
// to describe an account before asking for confirmation.
func (e *Engine) Lookup(identifier string) (Account, error) {
	l, err := e.loadLedger()
	if err != nil {
		return Account{}, err
	}
	if l.Len() == 0 {
		return Account{}, ErrNoAccounts
	}
	s, ok := l.Resolve(identifier)
	if !ok {
		return Account{}, fmt.Errorf("%w matching '%s'", ErrUnknownAccount, identifier)
	}
	return Account{Slot: s, Active: s.ID == e.activeID(l)}, nil
}

func (e *Engine) activeID(l *ledger.Ledger) int {
	if l.Active != 0 {
		return l.Active
	}
	if id, ok := e.host.CurrentIdentity(); ok {
		if s, ok := l.FindByLabel(id.Label); ok {
			return s.ID
		}
	}
	return 0
}
