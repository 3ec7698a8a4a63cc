package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benaskins/ccswitch/internal/ledger"
	"github.com/benaskins/ccswitch/internal/switcher"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add the account Claude Code is signed in as",
	Long: "Add the account Claude Code is signed in as. When no OAuth login is found, or " +
		"CLAUDE_CODE_OAUTH_TOKEN is set, prompts for a long-lived token instead.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp("cli")
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		if a.engine.DetectMode() == ledger.Token {
			return addToken(w, a.engine)
		}

		res, err := a.engine.Add()
		if err != nil {
			return err
		}
		if res.AlreadyManaged {
			fmt.Fprintf(w, "  %s Account %s is already managed.\n", warnStyle.Render("·"), res.Slot.Label)
			return nil
		}
		fmt.Fprintf(w, "  %s Added %s as Account %d\n", okStyle.Render("✓"), boldStyle.Render(res.Slot.Label), res.Slot.ID)
		return nil
	},
}

func addToken(w io.Writer, engine *switcher.Engine) error {
	fmt.Fprintf(w, "\n  %s No active Claude account found via OAuth.\n", warnStyle.Render("·"))
	fmt.Fprintf(w, "  %s Looks like you're using a long-lived token (claude setup-token).\n\n", warnStyle.Render("·"))

	stdin := bufio.NewReader(os.Stdin)
	token, err := readToken(stdin, w)
	if err != nil {
		return err
	}
	defer token.Destroy()

	def := engine.DefaultTokenLabel()
	fmt.Fprintf(w, "  Email / label for this account [%s]: ", def)
	line, err := stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading label: %w", err)
	}

	res, err := engine.AddToken(token.String(), strings.TrimSpace(line))
	if err != nil {
		return err
	}
	if res.AlreadyManaged {
		fmt.Fprintf(w, "  %s Account %s is already managed.\n", warnStyle.Render("·"), res.Slot.Label)
		return nil
	}

	fmt.Fprintf(w, "\n  %s Token stored securely.\n", okStyle.Render("✓"))
	fmt.Fprintf(w, "  %s Added %s as Account %d %s\n",
		okStyle.Render("✓"), boldStyle.Render(res.Slot.Label), res.Slot.ID, dimStyle.Render("(token)"))
	if res.RCCreated {
		printRCSetup(w, res.RCPath)
	}
	fmt.Fprintln(w)
	return nil
}

// readToken reads the token masked from a terminal, or as one line from a
// pipe. The result lives in a locked buffer the caller must destroy.
func readToken(stdin *bufio.Reader, w io.Writer) (*memguard.LockedBuffer, error) {
	fmt.Fprint(w, "  Paste your token (sk-ant-oat01-...): ")

	var raw []byte
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		raw = b
	} else {
		line, err := stdin.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		raw = line
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		memguard.WipeBytes(raw)
		return nil, switcher.ErrEmptyToken
	}
	buf := memguard.NewBufferFromBytes(append([]byte(nil), trimmed...))
	memguard.WipeBytes(raw)
	return buf, nil
}

func printRCSetup(w io.Writer, rcPath string) {
	rule := dimStyle.Render(strings.Repeat("─", 60))
	fmt.Fprintf(w, "\n  %s\n", dimStyle.Render("── One-time setup "+strings.Repeat("─", 42)))
	fmt.Fprintf(w, "  Add this line to %s (or %s):\n\n", accentStyle.Render("~/.zshrc"), accentStyle.Render("~/.bashrc"))
	fmt.Fprintf(w, "      source %s\n\n", accentStyle.Render(rcPath))
	fmt.Fprintln(w, "  Then open a new terminal. ccswitch will set")
	fmt.Fprintln(w, "  CLAUDE_CODE_OAUTH_TOKEN automatically on every switch.")
	fmt.Fprintf(w, "  %s\n", rule)
}

func init() {
	rootCmd.AddCommand(addCmd)
}
