package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

var (
	extractOutput       string
	extractRaw          bool
	extractNoDecompress bool
	extractVerify       bool
	extractJSON         bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract the embedded payload from a PDF document",
	Long: `Extracts the structured payload embedded in a PDF document.

By default the full envelope is printed as indented JSON. Use --raw to
print only the business payload, and --verify to check the stored
integrity digest against the payload bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write the result to a file instead of stdout")
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "print only the business payload, not the envelope")
	extractCmd.Flags().BoolVar(&extractNoDecompress, "no-decompress", false, "do not decompress a compressed payload")
	extractCmd.Flags().BoolVar(&extractVerify, "verify", false, "verify the stored integrity digest")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "emit the full extraction result as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractService == nil {
		return errors.New("extract service not configured")
	}

	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	opts := domain.DefaultExtractOptions()
	opts.Decompress = !extractNoDecompress
	opts.VerifyIntegrity = extractVerify
	if !cmd.Flags().Changed("verify") && configStore != nil {
		if v, ok := configStore.Get(file.KeyExtractVerify); ok {
			if b, ok := v.(bool); ok {
				opts.VerifyIntegrity = b
			}
		}
	}

	result := extractService.Extract(context.Background(), document, opts)

	if extractJSON {
		return emitJSON(cmd, result)
	}

	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	if !result.Success {
		return fmt.Errorf("extraction failed: %s", strings.Join(result.Errors, "; "))
	}

	var out []byte
	if extractRaw {
		out = append([]byte(nil), result.Data.Payload...)
	} else {
		out, err = json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding envelope: %w", err)
		}
	}

	if extractOutput != "" && extractOutput != "-" {
		if err := os.WriteFile(extractOutput, out, 0600); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		cmd.Printf("Wrote payload to %s\n", extractOutput)
		return nil
	}

	cmd.Println(string(out))
	return nil
}

func emitJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
