package main

import (
	"github.com/spf13/cobra"

	"github.com/benaskins/ccswitch/internal/tui"
)

func init() {
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := openApp("tui")
		if err != nil {
			return err
		}
		defer a.Close()
		return tui.Run(a.engine)
	}
}
