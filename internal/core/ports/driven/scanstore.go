package driven

import (
	"context"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// ScanStore persists the results of batch payload scans.
type ScanStore interface {
	// SaveRecord inserts or replaces the record for its path.
	SaveRecord(ctx context.Context, record domain.ScanRecord) error

	// GetRecord retrieves the record for a path.
	// A missing record is (nil, nil), not an error.
	GetRecord(ctx context.Context, path string) (*domain.ScanRecord, error)

	// ListRecords returns all records ordered by path.
	ListRecords(ctx context.Context) ([]domain.ScanRecord, error)

	// DeleteRecord removes the record for a path, if any.
	DeleteRecord(ctx context.Context, path string) error

	// Close releases the underlying storage.
	Close() error
}
