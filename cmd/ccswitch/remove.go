package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id-or-label>",
	Short:   "Stop managing an account and delete its backups",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp("cli")
		if err != nil {
			return err
		}
		defer a.Close()

		acct, err := a.engine.Lookup(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if acct.Active {
			fmt.Fprintf(w, "  %s Account %d (%s) is currently active.\n",
				warnStyle.Render("!"), acct.ID, acct.Label)
		}
		prompt := fmt.Sprintf("\n  Remove %s (%s)? [y/N] ", boldStyle.Render(fmt.Sprintf("Account %d", acct.ID)), acct.Label)
		if !confirm(bufio.NewReader(os.Stdin), w, prompt) {
			fmt.Fprintln(w, "  Cancelled.")
			return nil
		}

		res, err := a.engine.Remove(strconv.Itoa(acct.ID))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n  %s Removed Account %d (%s)\n", okStyle.Render("✓"), res.Slot.ID, res.Slot.Label)
		return nil
	},
}

// confirm prints prompt and reports whether the answer was y or Y. Anything
// else, including EOF, declines.
func confirm(r *bufio.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)
	line, _ := r.ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
