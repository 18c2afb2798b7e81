package main

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safing/iconloader/base/utils"
)

var (
	decodeOutput  string
	decodeDataURL bool

	decodeCmd = &cobra.Command{
		Use:   "decode <file or url>",
		Short: "Extract the best icon of an ICNS or ICO file as PNG.",
		Args:  cobra.ExactArgs(1),
		RunE:  decode,
	}
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "set output file, defaults to the source name with a .png extension")
	decodeCmd.Flags().BoolVar(&decodeDataURL, "dataurl", false, "print the icon as data URL instead of writing a file")
}

func decode(cmd *cobra.Command, args []string) error {
	result, err := instance.Loader().Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if decodeDataURL {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), result.Image.DataURL())
		return err
	}

	output := decodeOutput
	if output == "" {
		output = outputName(args[0], "")
	}
	if err := utils.WriteFileAtomic(output, result.Image.Data, 0o0644); err != nil {
		return fmt.Errorf("failed to write icon: %w", err)
	}

	_, err = fmt.Fprintf(
		cmd.OutOrStdout(),
		"saved %dx%d icon (%s) to %s\n",
		result.Image.Width, result.Image.Height,
		utils.FormatFileSize(int64(len(result.Image.Data))),
		output,
	)
	return err
}

// outputName returns the name of the PNG file for a source, placed in dir.
func outputName(src, dir string) string {
	name := src
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		name = u.Path
	}
	name = path.Base(filepath.ToSlash(name))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = "icon"
	}
	return filepath.Join(dir, name+".png")
}

// uniqueOutputName returns the output name of src, numbered if the name is
// already taken.
func uniqueOutputName(src, dir string, taken map[string]struct{}) string {
	output := outputName(src, dir)
	base := strings.TrimSuffix(output, ".png")
	for n := 1; ; n++ {
		if _, ok := taken[output]; !ok {
			return output
		}
		output = fmt.Sprintf("%s-%d.png", base, n)
	}
}
