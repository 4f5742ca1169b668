package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

var (
	injectSchemaURL string
	injectDomain    string
	injectCompress  bool
	injectIntegrity bool
	injectOverwrite bool
	injectSpecID    string
	injectSpecName  string
	injectOutput    string
)

var injectCmd = &cobra.Command{
	Use:   "inject [pdf-file] [payload-file]",
	Short: "Embed a JSON payload into a PDF document",
	Long: `Embeds a JSON payload into a PDF document's embedded-file name tree.

The payload is wrapped in a versioned envelope carrying the business
domain, a schema URL and creation metadata. Detection keywords are
written to the document information dictionary so other tools can spot
the payload without parsing the name tree.

By default the result is written next to the input as <name>.structpdf.pdf;
use --output to choose a destination, or --output with the input path to
modify in place.`,
	Args: cobra.ExactArgs(2),
	RunE: runInject,
}

func init() {
	injectCmd.Flags().StringVarP(&injectSchemaURL, "schema", "s", "", "schema URL describing the payload (required)")
	injectCmd.Flags().StringVarP(&injectDomain, "domain", "d", "", "business domain tag (default GENERIC)")
	injectCmd.Flags().BoolVar(&injectCompress, "compress", true, "compress envelopes larger than 1 KiB")
	injectCmd.Flags().BoolVar(&injectIntegrity, "integrity", false, "record a sha-256 digest of the payload")
	injectCmd.Flags().BoolVar(&injectOverwrite, "overwrite", false, "replace an existing payload")
	injectCmd.Flags().StringVar(&injectSpecID, "spec-id", "", "specification identifier for the keyword signal")
	injectCmd.Flags().StringVar(&injectSpecName, "spec-name", "", "specification name for the keyword signal")
	injectCmd.Flags().StringVarP(&injectOutput, "output", "o", "", "output file path")
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	if injectService == nil {
		return errors.New("inject service not configured")
	}

	pdfPath, payloadPath := args[0], args[1]

	document, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	opts := injectOptionsFromFlags(cmd)

	result, err := injectService.Inject(context.Background(), document, payload, opts)
	if err != nil {
		return fmt.Errorf("inject failed: %w", err)
	}

	output := injectOutput
	if output == "" {
		output = defaultOutputPath(pdfPath)
	}
	if err := os.WriteFile(output, result.Document, 0600); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	for _, w := range result.Warnings {
		cmd.Printf("Warning: %s\n", w)
	}

	env := result.Envelope
	cmd.Printf("Embedded payload into %s\n", output)
	cmd.Printf("  Domain:     %s\n", env.Domain)
	cmd.Printf("  Version:    %s\n", env.Version)
	cmd.Printf("  Compressed: %t\n", env.Metadata.Compressed)
	if env.Metadata.Integrity != nil {
		cmd.Printf("  Integrity:  %s:%s\n", env.Metadata.Integrity.Algorithm, env.Metadata.Integrity.Hash)
	}

	return nil
}

// injectOptionsFromFlags builds inject options, falling back to
// configured defaults for flags the user did not set.
func injectOptionsFromFlags(cmd *cobra.Command) domain.InjectOptions {
	opts := domain.InjectOptions{
		SchemaURL:    injectSchemaURL,
		Domain:       injectDomain,
		Compress:     injectCompress,
		AddIntegrity: injectIntegrity,
		Overwrite:    injectOverwrite,
		SpecID:       injectSpecID,
		SpecName:     injectSpecName,
	}

	if configStore == nil {
		return opts
	}
	flags := cmd.Flags()
	if !flags.Changed("schema") && opts.SchemaURL == "" {
		opts.SchemaURL = configStore.GetString(file.KeyInjectSchemaURL)
	}
	if !flags.Changed("domain") && opts.Domain == "" {
		opts.Domain = configStore.GetString(file.KeyInjectDomain)
	}
	if !flags.Changed("compress") {
		if v, ok := configStore.Get(file.KeyInjectCompress); ok {
			if b, ok := v.(bool); ok {
				opts.Compress = b
			}
		}
	}
	if !flags.Changed("integrity") {
		if v, ok := configStore.Get(file.KeyInjectIntegrity); ok {
			if b, ok := v.(bool); ok {
				opts.AddIntegrity = b
			}
		}
	}
	return opts
}

// defaultOutputPath derives the output name for in-place-averse callers:
// report.pdf becomes report.structpdf.pdf.
func defaultOutputPath(pdfPath string) string {
	ext := filepath.Ext(pdfPath)
	if !strings.EqualFold(ext, ".pdf") {
		return pdfPath + ".structpdf.pdf"
	}
	return strings.TrimSuffix(pdfPath, ext) + ".structpdf" + ext
}
