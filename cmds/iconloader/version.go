package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safing/iconloader/base/info"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and related metadata.",
	Args:  cobra.NoArgs,
	// Does not need an instance.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              version,
}

func version(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), info.FullVersion())
	return err
}
