package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benaskins/ccswitch/internal/ledger"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Switch  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Switch:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("↵", "switch")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Add, k.Remove, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Confirm, k.Cancel}}
}

var (
	green  = lipgloss.Color("2")
	yellow = lipgloss.Color("3")
	red    = lipgloss.Color("1")
	cyan   = lipgloss.Color("6")
	gray   = lipgloss.Color("8")

	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle   = lipgloss.NewStyle().Foreground(green).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(gray)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(green)
	errStyle      = lipgloss.NewStyle().Foreground(red)
	warnStyle     = lipgloss.NewStyle().Foreground(yellow).Bold(true)
)

// Model is the bubbletea front-end over a Machine.
type Model struct {
	machine *Machine
	keys    keyMap
	help    help.Model
	width   int
}

// New loads the account list and returns the model.
func New(engine Engine) (Model, error) {
	m, err := NewMachine(engine)
	if err != nil {
		return Model{}, err
	}
	return Model{machine: m, keys: defaultKeys(), help: help.New()}, nil
}

// Run starts the picker on the alternate screen and blocks until it exits.
func Run(engine Engine) error {
	model, err := New(engine)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if err := m.handleKey(msg); err != nil {
			m.machine.fail("%v", err)
		}
		if m.machine.Quitting() {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) error {
	mc := m.machine
	switch mc.Mode() {
	case ModeCompleted:
		mc.Dismiss()
	case ModePending:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return mc.Confirm()
		case key.Matches(msg, m.keys.Cancel):
			mc.Cancel()
		}
	default:
		mc.ClearFlash()
		switch {
		case key.Matches(msg, m.keys.Up):
			mc.Up()
		case key.Matches(msg, m.keys.Down):
			mc.Down()
		case key.Matches(msg, m.keys.Switch):
			mc.RequestSwitch()
		case key.Matches(msg, m.keys.Add):
			mc.RequestAdd()
		case key.Matches(msg, m.keys.Remove):
			mc.RequestRemove()
		case key.Matches(msg, m.keys.Quit):
			mc.Quit()
		}
	}
	return nil
}

func (m Model) View() string {
	if m.machine.Quitting() {
		return ""
	}
	sections := []string{m.header(), m.list()}
	if m.machine.Mode() == ModePending {
		sections = append(sections, m.dialog())
	}
	sections = append(sections, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header() string {
	label := "not logged in"
	st := m.machine.Status()
	switch {
	case st.HasLive:
		label = st.Live.Label
	case st.Managed:
		label = st.Active.Label
	}
	line := dimStyle.Render("Active: ") + activeStyle.Render(label)
	return frameStyle.BorderForeground(cyan).Render(line)
}

func (m Model) list() string {
	accounts := m.machine.Accounts()
	if len(accounts) == 0 {
		return frameStyle.BorderForeground(gray).Render(
			dimStyle.Render("No accounts managed yet. Press [a] to add the current account."))
	}

	var b strings.Builder
	noun := "accounts"
	if len(accounts) == 1 {
		noun = "account"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d %s", len(accounts), noun)))
	for i, a := range accounts {
		badge := ""
		if a.Mode == ledger.Token {
			badge = "  [token]"
		}
		var line string
		if a.Active {
			line = activeStyle.Render(fmt.Sprintf("▶ %2d  %s", a.ID, a.Label)) + okStyle.Render(badge+"  active")
		} else {
			line = dimStyle.Render(fmt.Sprintf("  %2d  ", a.ID)) + a.Label + dimStyle.Render(badge)
		}
		if i == m.machine.Selected() {
			line = selectedStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return frameStyle.BorderForeground(gray).Render(b.String())
}

func (m Model) dialog() string {
	p := m.machine.Pending()
	var title, action string
	border := yellow
	switch p.Kind {
	case ActionSwitch:
		title, action = "Switch Account", fmt.Sprintf("Switch to Account %d?", p.Slot)
	case ActionAdd:
		title, action = "Add Account", "Add current account?"
	case ActionRemove:
		title, action = "Remove Account", fmt.Sprintf("Remove Account %d?", p.Slot)
		border = red
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(title),
		"",
		action,
		lipgloss.NewStyle().Foreground(yellow).Render(p.Label),
		"",
		okStyle.Bold(true).Render("[y] confirm")+dimStyle.Render("    [n / esc] cancel"),
	)
	return frameStyle.BorderForeground(border).Width(54).Render(body)
}

func (m Model) footer() string {
	if m.machine.Mode() == ModeCompleted {
		line := okStyle.Bold(true).Render("✓ Done") + "  ·  " + warnStyle.Render("Restart Claude Code")
		if m.machine.Outcome().NeedsNewShell {
			line += "  ·  " + warnStyle.Render("open a new shell")
		}
		line += "  ·  " + okStyle.Render("any key to quit")
		return frameStyle.BorderForeground(green).Render(line)
	}
	if f := m.machine.Flash(); f != nil {
		if f.Error {
			return frameStyle.BorderForeground(red).Render(errStyle.Render("✗ " + f.Message))
		}
		return frameStyle.BorderForeground(gray).Render(okStyle.Render("✓ " + f.Message))
	}
	return frameStyle.BorderForeground(gray).Render(m.help.View(m.keys))
}
