// Package cli implements the command-line driving adapter. Each command
// lives in its own file and registers itself on rootCmd in init().
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/pdfdoc"
	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/structpdf-cli/internal/core/services"
	"github.com/custodia-labs/structpdf-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services are package-level so commands can reach them and tests can
// swap in mocks. initServices leaves pre-wired services alone.
var (
	configStore    driven.ConfigStore
	scanStore      driven.ScanStore
	injectService  driving.InjectService
	extractService driving.ExtractService
	scanService    driving.ScanService
)

var rootCmd = &cobra.Command{
	Use:   "structpdf",
	Short: "Embed and extract structured data in PDF documents",
	Long: `structpdf embeds machine-readable JSON payloads into PDF documents
and recovers them later, without altering the visible document.

Payloads travel inside the PDF's embedded-file name tree wrapped in a
versioned envelope, with optional compression and integrity hashing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.structpdf)")
}

// initServices wires the default adapters into the service layer.
// Already-populated services (from tests) are kept as-is.
func initServices() error {
	if injectService != nil && extractService != nil && scanService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg

	loader := pdfdoc.NewLoader()
	injectService = services.NewInjectService(loader)
	extractor := services.NewExtractService(loader)
	extractService = extractor

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening scan catalog: %w", err)
	}
	scanStore = store
	scanService = services.NewScanService(loader, store, extractor)

	return nil
}

// Execute runs the root command. It is the entry point called by main.
func Execute() error {
	defer func() {
		if scanStore != nil {
			scanStore.Close() //nolint:errcheck
		}
	}()
	return rootCmd.Execute()
}
