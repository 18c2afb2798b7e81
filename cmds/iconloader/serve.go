package main

import (
	"github.com/spf13/cobra"
)

var (
	serveListen string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve icons, inspections and app lookups over HTTP.",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "set listen address, overrides the config")
}

func serve(cmd *cobra.Command, args []string) error {
	return instance.Serve(cmd.Context())
}
