// Package tui is the interactive account picker. Machine holds the
// confirm-then-act state; Model renders it with bubbletea.
package tui

import (
	"fmt"
	"strconv"

	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

// Engine is the subset of the switch engine the picker drives.
type Engine interface {
	List() ([]switcher.Account, error)
	Status() (switcher.Status, error)
	Add() (switcher.AddResult, error)
	Switch(identifier string) (switcher.SwitchResult, error)
	Remove(identifier string) (switcher.RemoveResult, error)
}

// Mode is the picker's top-level state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePending
	ModeCompleted
)

// ActionKind is an operation awaiting confirmation.
type ActionKind int

const (
	ActionSwitch ActionKind = iota
	ActionAdd
	ActionRemove
)

// Action is the operation a confirmation would run.
type Action struct {
	Kind  ActionKind
	Slot  int
	Label string
}

// Outcome is what a completed switch left behind.
type Outcome struct {
	To ledger.Slot
	// NeedsNewShell is set for token accounts: the token variable only
	// changes in shells started after the switch.
	NeedsNewShell bool
}

// Flash is a one-line message shown in the footer.
type Flash struct {
	Message string
	Error   bool
}

// Machine is the picker state. Engine mutations happen only in Confirm.
type Machine struct {
	engine   Engine
	mode     Mode
	pending  Action
	outcome  Outcome
	accounts []switcher.Account
	status   switcher.Status
	selected int
	flash    *Flash
	quit     bool
}

// NewMachine loads the initial account list.
func NewMachine(engine Engine) (*Machine, error) {
	m := &Machine{engine: engine}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) Mode() Mode { return m.mode }
func (m *Machine) Pending() Action { return m.pending }
func (m *Machine) Outcome() Outcome { return m.outcome }
func (m *Machine) Accounts() []switcher.Account { return m.accounts }
func (m *Machine) Status() switcher.Status { return m.status }
func (m *Machine) Selected() int { return m.selected }
func (m *Machine) Flash() *Flash { return m.flash }
func (m *Machine) Quitting() bool { return m.quit }

func (m *Machine) reload() error {
	accounts, err := m.engine.List()
	if err != nil {
		return err
	}
	status, err := m.engine.Status()
	if err != nil {
		return err
	}
	m.accounts = accounts
	m.status = status
	if m.selected >= len(accounts) {
		m.selected = max(len(accounts)-1, 0)
	}
	return nil
}

func (m *Machine) selectedAccount() (switcher.Account, bool) {
	if m.selected < 0 || m.selected >= len(m.accounts) {
		return switcher.Account{}, false
	}
	return m.accounts[m.selected], true
}

func (m *Machine) managed(label string) bool {
	for _, a := range m.accounts {
		if a.Label == label {
			return true
		}
	}
	return false
}

func (m *Machine) info(format string, args ...any) {
	m.flash = &Flash{Message: fmt.Sprintf(format, args...)}
}

func (m *Machine) fail(format string, args ...any) {
	m.flash = &Flash{Message: fmt.Sprintf(format, args...), Error: true}
}

// Up moves the selection up.
func (m *Machine) Up() {
	if m.mode == ModeIdle && m.selected > 0 {
		m.selected--
	}
}

// Down moves the selection down.
func (m *Machine) Down() {
	if m.mode == ModeIdle && m.selected+1 < len(m.accounts) {
		m.selected++
	}
}

// RequestSwitch asks to switch to the selected account.
func (m *Machine) RequestSwitch() {
	if m.mode != ModeIdle {
		return
	}
	a, ok := m.selectedAccount()
	if !ok {
		return
	}
	if a.Active {
		m.info("Already the active account")
		return
	}
	m.mode = ModePending
	m.pending = Action{Kind: ActionSwitch, Slot: a.ID, Label: a.Label}
}

// RequestAdd asks to add the live account. Token accounts need a prompt
// for the secret, which only the command line offers.
func (m *Machine) RequestAdd() {
	if m.mode != ModeIdle {
		return
	}
	switch {
	case m.status.EnvToken:
		m.info("Token accounts: run `ccswitch add` in a terminal to set up")
	case !m.status.HasLive:
		m.fail("No active Claude account found; log in to Claude Code first")
	case m.managed(m.status.Live.Label):
		m.info("%s is already managed", m.status.Live.Label)
	default:
		m.mode = ModePending
		m.pending = Action{Kind: ActionAdd, Label: m.status.Live.Label}
	}
}

// RequestRemove asks to remove the selected account.
func (m *Machine) RequestRemove() {
	if m.mode != ModeIdle {
		return
	}
	a, ok := m.selectedAccount()
	if !ok {
		return
	}
	m.mode = ModePending
	m.pending = Action{Kind: ActionRemove, Slot: a.ID, Label: a.Label}
}

// Cancel declines the pending action.
func (m *Machine) Cancel() {
	if m.mode != ModePending {
		return
	}
	m.mode = ModeIdle
	m.pending = Action{}
	m.info("Cancelled")
}

// Confirm runs the pending action. Engine failures become an error flash
// and the machine returns to idle; only a failure to reload the account
// list afterwards is returned.
func (m *Machine) Confirm() error {
	if m.mode != ModePending {
		return nil
	}
	action := m.pending
	m.pending = Action{}
	m.mode = ModeIdle

	switch action.Kind {
	case ActionSwitch:
		res, err := m.engine.Switch(strconv.Itoa(action.Slot))
		if err != nil {
			m.fail("Switch failed: %v", err)
			return nil
		}
		if err := m.reload(); err != nil {
			return err
		}
		m.mode = ModeCompleted
		m.outcome = Outcome{To: res.To, NeedsNewShell: res.To.Mode == ledger.Token}
	case ActionAdd:
		res, err := m.engine.Add()
		if err != nil {
			m.fail("Add failed: %v", err)
			return nil
		}
		if err := m.reload(); err != nil {
			return err
		}
		if res.AlreadyManaged {
			m.info("%s is already managed", res.Slot.Label)
		} else {
			m.info("Added %s as Account %d", res.Slot.Label, res.Slot.ID)
		}
	case ActionRemove:
		res, err := m.engine.Remove(strconv.Itoa(action.Slot))
		if err != nil {
			m.fail("Remove failed: %v", err)
			return nil
		}
		if err := m.reload(); err != nil {
			return err
		}
		m.info("Removed Account %d (%s)", res.Slot.ID, res.Slot.Label)
	}
	return nil
}

// Dismiss leaves the completed screen.
func (m *Machine) Dismiss() {
	if m.mode == ModeCompleted {
		m.quit = true
	}
}

// Quit exits from idle.
func (m *Machine) Quit() {
	m.quit = true
}

// ClearFlash drops the footer message.
func (m *Machine) ClearFlash() {
	m.flash = nil
}
