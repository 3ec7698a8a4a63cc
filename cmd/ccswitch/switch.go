package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

var switchCmd = &cobra.Command{
	Use:   "switch [id-or-label]",
	Short: "Switch to an account, or to the next one in rotation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp("cli")
		if err != nil {
			return err
		}
		defer a.Close()

		var res switcher.SwitchResult
		if len(args) == 0 {
			res, err = a.engine.RotateNext()
		} else {
			res, err = a.engine.Switch(args[0])
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if res.AlreadyActive {
			fmt.Fprintf(w, "\n  %s Already using %s (Account %d).\n\n",
				accentStyle.Render("·"), boldStyle.Render(res.To.Label), res.To.ID)
			return nil
		}

		accounts, err := a.engine.List()
		if err != nil {
			return err
		}
		printSwitched(w, res, accounts)
		return nil
	},
}

func printSwitched(w io.Writer, res switcher.SwitchResult, accounts []switcher.Account) {
	from := res.From.Label
	if from == "" {
		from = "unknown"
	}
	fmt.Fprintf(w, "\n  %s %s  %s  %s\n",
		accentStyle.Render("→"), dimStyle.Render(from), dimStyle.Render("→"), accentStyle.Render(res.To.Label))
	printAccounts(w, accounts)
	if res.To.Mode == ledger.Token {
		fmt.Fprintf(w, "  %s Restart Claude Code · open a new shell for the token to take effect\n\n", okStyle.Render("✓"))
		return
	}
	fmt.Fprintf(w, "  %s Restart Claude Code to apply.\n\n", okStyle.Render("✓"))
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
