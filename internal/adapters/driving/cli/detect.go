package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var detectQuiet bool

var detectCmd = &cobra.Command{
	Use:   "detect [pdf-file...]",
	Short: "Check PDF documents for an embedded payload",
	Long: `Probes one or more PDF documents for an embedded structured payload.

Detection is best effort: the keyword signal is checked first, then the
embedded-file name tree. Unreadable documents count as not detected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVarP(&detectQuiet, "quiet", "q", false, "suppress output, use the exit code only")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	if extractService == nil {
		return errors.New("extract service not configured")
	}

	ctx := context.Background()
	misses := 0
	for _, path := range args {
		document, err := os.ReadFile(path)
		if err != nil {
			misses++
			if !detectQuiet {
				cmd.Printf("%s: unreadable (%v)\n", path, err)
			}
			continue
		}

		if extractService.HasPayload(ctx, document) {
			if !detectQuiet {
				cmd.Printf("%s: payload detected\n", path)
			}
		} else {
			misses++
			if !detectQuiet {
				cmd.Printf("%s: no payload\n", path)
			}
		}
	}

	if misses > 0 {
		return fmt.Errorf("%d of %d documents without payload", misses, len(args))
	}
	return nil
}
