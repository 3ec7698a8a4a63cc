package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp("cli")
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.engine.Status()
		if err != nil {
			return err
		}
		printStatus(cmd.OutOrStdout(), st)
		return nil
	},
}

func printStatus(w io.Writer, st switcher.Status) {
	switch {
	case st.Managed:
		badge := ""
		if st.Active.Mode == ledger.Token {
			badge = " [token]"
		}
		fmt.Fprintf(w, "\n  %s %s%s %s\n\n",
			okStyle.Render("▶"),
			boldStyle.Render(st.Active.Label),
			dimStyle.Render(badge),
			dimStyle.Render(fmt.Sprintf("(Account %d)", st.Active.ID)))
	case st.HasLive:
		fmt.Fprintf(w, "\n  %s %s %s\n\n",
			warnStyle.Render("·"),
			boldStyle.Render(st.Live.Label),
			dimStyle.Render("(not managed; run `ccswitch add`)"))
	case st.EnvToken:
		fmt.Fprintf(w, "\n  %s %s %s\n\n",
			warnStyle.Render("·"),
			boldStyle.Render("Token active"),
			dimStyle.Render("(not managed; run `ccswitch add`)"))
	default:
		fmt.Fprintf(w, "\n  %s Not logged in to Claude Code.\n\n", errStyle.Render("✗"))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
