package driving

import (
	"context"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// ScanService probes many documents for payloads and maintains the scan
// catalog.
type ScanService interface {
	// Scan walks the given roots for PDF files, probes each for a
	// payload, and records the outcome in the catalog. The records for
	// this run are returned in walk order.
	Scan(ctx context.Context, roots []string) ([]domain.ScanRecord, error)

	// Watch follows filesystem events under the roots, re-probing
	// documents as they appear or change. It blocks until ctx is done.
	Watch(ctx context.Context, roots []string) error

	// Records returns the current catalog contents.
	Records(ctx context.Context) ([]domain.ScanRecord, error)
}
