package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List managed accounts",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp("cli")
		if err != nil {
			return err
		}
		defer a.Close()

		accounts, err := a.engine.List()
		if err != nil {
			return err
		}
		printAccounts(cmd.OutOrStdout(), accounts)
		return nil
	},
}

func printAccounts(w io.Writer, accounts []switcher.Account) {
	if len(accounts) == 0 {
		fmt.Fprintf(w, "\n  %s\n\n", dimStyle.Render("No accounts managed yet."))
		fmt.Fprintf(w, "  Run %s to add the current account.\n\n", accentStyle.Render("ccswitch add"))
		return
	}

	rule := dimStyle.Render(strings.Repeat("─", 40))
	fmt.Fprintf(w, "\n  %s\n  %s\n", boldStyle.Render("Managed Accounts"), rule)
	for _, acct := range accounts {
		badge := ""
		if acct.Mode == ledger.Token {
			badge = " [token]"
		}
		if acct.Active {
			fmt.Fprintf(w, "  %s  %s%s  %s\n",
				okStyle.Render(fmt.Sprintf("▶ %2d", acct.ID)),
				okStyle.Render(acct.Label),
				activeStyle.Render(badge),
				activeStyle.Render("(active)"))
			continue
		}
		fmt.Fprintf(w, "  %s  %s%s\n",
			dimStyle.Render(fmt.Sprintf("  %2d", acct.ID)),
			acct.Label,
			dimStyle.Render(badge))
	}
	fmt.Fprintf(w, "  %s\n\n", rule)
}

func init() {
	rootCmd.AddCommand(listCmd)
}
