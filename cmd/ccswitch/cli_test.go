package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benaskins/ccswitch/internal/hostconfig"
	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"  y  \n", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(bufio.NewReader(strings.NewReader(tt.input)), &out, "Remove? [y/N] ")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Remove? [y/N] ", out.String())
	}
}

func TestPrintAccounts(t *testing.T) {
	var out bytes.Buffer
	printAccounts(&out, []switcher.Account{
		{Slot: ledger.Slot{ID: 1, Label: "alice@x.com", Mode: ledger.OAuth}, Active: true},
		{Slot: ledger.Slot{ID: 2, Label: "ci", Mode: ledger.Token}},
	})

	s := out.String()
	assert.Contains(t, s, "Managed Accounts")
	assert.Contains(t, s, "alice@x.com")
	assert.Contains(t, s, "(active)")
	assert.Contains(t, s, "[token]")
}

func TestPrintAccountsEmpty(t *testing.T) {
	var out bytes.Buffer
	printAccounts(&out, nil)
	assert.Contains(t, out.String(), "No accounts managed yet.")
	assert.Contains(t, out.String(), "ccswitch add")
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name string
		st   switcher.Status
		want string
	}{
		{"managed", switcher.Status{Managed: true, Active: switcher.Account{Slot: ledger.Slot{ID: 2, Label: "bob@x.com"}}}, "(Account 2)"},
		{"unmanaged live", switcher.Status{HasLive: true, Live: hostconfig.Identity{Label: "carol@x.com"}}, "not managed"},
		{"env token", switcher.Status{EnvToken: true}, "Token active"},
		{"nothing", switcher.Status{}, "Not logged in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printStatus(&out, tt.st)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestPrintSwitchedToToken(t *testing.T) {
	var out bytes.Buffer
	printSwitched(&out, switcher.SwitchResult{
		From: ledger.Slot{ID: 1, Label: "alice@x.com"},
		To:   ledger.Slot{ID: 2, Label: "ci", Mode: ledger.Token},
	}, nil)
	assert.Contains(t, out.String(), "open a new shell")
	assert.Contains(t, out.String(), "alice@x.com")
}
