package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/benaskins/ccswitch/internal/platform"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "ccswitch",
	Short:         "Switch Claude Code between accounts without logging in again",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if platform.IsRoot() && !platform.IsContainer() {
			return errors.New("refusing to run as root; run ccswitch as the user signed in to Claude Code")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func main() {
	memguard.CatchInterrupt()
	err := rootCmd.Execute()
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s %v\n", errStyle.Render("✗"), err)
		os.Exit(1)
	}
}
