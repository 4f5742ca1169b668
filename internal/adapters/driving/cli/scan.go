package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan [root...]",
	Short: "Scan directory trees for PDFs with embedded payloads",
	Long: `Walks the given directory trees, probes every PDF for an embedded
payload and records the outcome in the local scan catalog.

Roots can also be configured with the scan.roots setting; when no roots
are given on the command line the configured ones are used.`,
	RunE: runScan,
}

var scanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scan catalog",
	RunE:  runScanList,
}

var scanWatchCmd = &cobra.Command{
	Use:   "watch [root...]",
	Short: "Watch directory trees and re-probe changed PDFs",
	Long: `Follows filesystem events under the given roots, probing PDF files
as they appear or change and keeping the scan catalog current. Runs
until interrupted.`,
	RunE: runScanWatch,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output records as JSON")
	scanListCmd.Flags().BoolVar(&scanJSON, "json", false, "output records as JSON")
	scanCmd.AddCommand(scanListCmd)
	scanCmd.AddCommand(scanWatchCmd)
	rootCmd.AddCommand(scanCmd)
}

func scanRoots(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if configStore != nil {
		if roots := configStore.GetStringSlice(file.KeyScanRoots); len(roots) > 0 {
			return roots, nil
		}
	}
	return nil, errors.New("no roots given and scan.roots is not configured")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	roots, err := scanRoots(args)
	if err != nil {
		return err
	}

	records, err := scanService.Scan(context.Background(), roots)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return outputRecords(cmd, records)
}

func runScanList(cmd *cobra.Command, _ []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	records, err := scanService.Records(context.Background())
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}

	return outputRecords(cmd, records)
}

func runScanWatch(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	roots, err := scanRoots(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %d root(s), press Ctrl-C to stop...\n", len(roots))
	if err := scanService.Watch(ctx, roots); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func outputRecords(cmd *cobra.Command, records []domain.ScanRecord) error {
	if scanJSON {
		return emitJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No PDF documents recorded.")
		return nil
	}

	detected := 0
	for i := range records {
		mark := " "
		if records[i].HasPayload {
			mark = "*"
			detected++
		}
		cmd.Printf("  [%s] %s", mark, records[i].Path)
		if records[i].HasPayload {
			cmd.Printf(" (%s %s)", records[i].Domain, records[i].Version)
		}
		cmd.Println()
	}
	cmd.Println()
	cmd.Printf("%d document(s), %d with payload\n", len(records), detected)
	return nil
}
