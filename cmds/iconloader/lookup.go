package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	lookupJSON bool

	lookupCmd = &cobra.Command{
		Use:   "lookup <app store url or id>",
		Short: "Look up the artwork URL of an App Store app.",
		Args:  cobra.ExactArgs(1),
		RunE:  lookupApp,
	}
)

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print as JSON")
}

func lookupApp(cmd *cobra.Command, args []string) error {
	app, err := instance.Lookup().Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if lookupJSON {
		data, err := json.MarshalIndent(app, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), app.ArtworkURL)
	return err
}
