// Package memory provides in-memory implementations of the driven
// storage ports, useful for tests and for one-shot scans where
// persisting the catalog is not wanted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
)

// Ensure ScanStore implements the interface.
var _ driven.ScanStore = (*ScanStore)(nil)

// ScanStore is an in-memory implementation of driven.ScanStore.
// Records are keyed by document path, so re-scanning a file
// replaces its previous record.
type ScanStore struct {
	mu      sync.RWMutex
	records map[string]domain.ScanRecord
}

// NewScanStore creates a new in-memory scan store.
func NewScanStore() *ScanStore {
	return &ScanStore{
		records: make(map[string]domain.ScanRecord),
	}
}

// SaveRecord stores or updates a scan record by path.
func (s *ScanStore) SaveRecord(_ context.Context, record domain.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.records[record.Path]; ok {
		// Keep the identifier stable across re-scans of the same path.
		record.ID = prev.ID
	}
	s.records[record.Path] = record
	return nil
}

// GetRecord retrieves a scan record by path. A missing record is
// (nil, nil), not an error.
func (s *ScanStore) GetRecord(_ context.Context, path string) (*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[path]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListRecords returns all scan records ordered by path.
func (s *ScanStore) ListRecords(_ context.Context) ([]domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.ScanRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records, nil
}

// DeleteRecord removes the record for a path. Deleting a missing
// record is a no-op.
func (s *ScanStore) DeleteRecord(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, path)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *ScanStore) Close() error {
	return nil
}
