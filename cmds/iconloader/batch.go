package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/base/utils"
)

var (
	batchOutDir string

	batchCmd = &cobra.Command{
		Use:   "batch <file or url>...",
		Short: "Extract the best icons of many ICNS or ICO files concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  batch,
	}
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "d", ".", "set output directory")
}

func batch(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(batchOutDir, 0o0755); err != nil { //nolint:gosec
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	results, loadErr := instance.Loader().LoadAll(cmd.Context(), args)

	var saved int
	written := make(map[string]struct{}, len(results))
	for i, result := range results {
		if result == nil {
			continue
		}
		if slices.Index(args, args[i]) != i {
			// Duplicate source, already written.
			saved++
			continue
		}
		output := uniqueOutputName(args[i], batchOutDir, written)
		written[output] = struct{}{}

		if err := utils.WriteFileAtomic(output, result.Image.Data, 0o0644); err != nil {
			log.Errorf("iconloader: failed to write %s: %s", output, err)
			continue
		}
		saved++
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[i], output)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved %d of %d icons\n", saved, len(args))
	return loadErr
}
