package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gaurav-prasanna/catalogpipe/core/detect"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file|sku>...",
	Short: "Report the vendor format of saved pages or SKU codes",
	Long: `Detect prints the vendor format of each argument. Existing files are read
and classified by their markup; anything else is treated as a SKU code and
classified by its prefix.

Examples:
  catalogpipe detect wl7476.html
  catalogpipe detect AP 081/2 WL7476`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	detector := detect.New()
	for _, arg := range args {
		raw, err := os.ReadFile(arg)
		switch {
		case err == nil:
			fmt.Fprintf(os.Stdout, "%s\t%s\n", arg, detector.DetectText(string(raw)))
		case errors.Is(err, fs.ErrNotExist):
			format, ok := detect.FormatForSKU(arg)
			if !ok {
				fmt.Fprintf(os.Stdout, "%s\tunknown\n", arg)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", arg, format)
		default:
			return fmt.Errorf("reading %s: %w", arg, err)
		}
	}
	return nil
}
