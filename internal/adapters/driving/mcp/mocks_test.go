package mcp

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// mockExtractService is a mock implementation of driving.ExtractService.
type mockExtractService struct {
	result     *domain.ExtractResult
	hasPayload bool
	gotOpts    domain.ExtractOptions
}

func (m *mockExtractService) Extract(
	_ context.Context,
	_ []byte,
	opts domain.ExtractOptions,
) *domain.ExtractResult {
	m.gotOpts = opts
	if m.result != nil {
		return m.result
	}
	return &domain.ExtractResult{}
}

func (m *mockExtractService) HasPayload(_ context.Context, _ []byte) bool {
	return m.hasPayload
}

// mockInjectService is a mock implementation of driving.InjectService.
type mockInjectService struct {
	result  *domain.InjectResult
	err     error
	gotOpts domain.InjectOptions
}

func (m *mockInjectService) Inject(
	_ context.Context,
	_ []byte,
	_ json.RawMessage,
	opts domain.InjectOptions,
) (*domain.InjectResult, error) {
	m.gotOpts = opts
	return m.result, m.err
}

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	records []domain.ScanRecord
	err     error
}

func (m *mockScanService) Scan(_ context.Context, _ []string) ([]domain.ScanRecord, error) {
	return m.records, m.err
}

func (m *mockScanService) Watch(ctx context.Context, _ []string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScanService) Records(_ context.Context) ([]domain.ScanRecord, error) {
	return m.records, m.err
}
