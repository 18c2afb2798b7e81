package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	inspectJSON bool

	inspectCmd = &cobra.Command{
		Use:   "inspect <file or url>",
		Short: "List all images of an ICNS or ICO file.",
		Args:  cobra.ExactArgs(1),
		RunE:  inspect,
	}
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print as JSON")
}

func inspect(cmd *cobra.Command, args []string) error {
	inspection, err := instance.Loader().Inspect(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		data, err := json.MarshalIndent(inspection, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	fmt.Fprintf(out, "%s container", inspection.FormatName)
	if inspection.DeclaredLength > 0 {
		fmt.Fprintf(out, ", %d bytes", inspection.DeclaredLength)
	}
	fmt.Fprintf(out, ", %d images\n", len(inspection.Entries))

	for _, entry := range inspection.Entries {
		marker := " "
		if entry.Selectable {
			marker = "*"
		}
		id := entry.Type
		if id == "" {
			id = fmt.Sprintf("#%d", entry.Index)
		}
		fmt.Fprintf(out, "%s %-4s  %-36s  %10s  at %d\n", marker, id, entry.Description, entry.HumanSize, entry.Offset)
	}
	return nil
}
