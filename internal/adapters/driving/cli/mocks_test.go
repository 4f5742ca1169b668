package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// mockInjectService is a mock implementation of driving.InjectService.
type mockInjectService struct {
	result     *domain.InjectResult
	err        error
	gotOpts    domain.InjectOptions
	gotPayload json.RawMessage
}

func (m *mockInjectService) Inject(
	_ context.Context,
	_ []byte,
	payload json.RawMessage,
	opts domain.InjectOptions,
) (*domain.InjectResult, error) {
	m.gotPayload = payload
	m.gotOpts = opts
	return m.result, m.err
}

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

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	records  []domain.ScanRecord
	err      error
	gotRoots []string
}

func (m *mockScanService) Scan(_ context.Context, roots []string) ([]domain.ScanRecord, error) {
	m.gotRoots = roots
	return m.records, m.err
}

func (m *mockScanService) Watch(ctx context.Context, roots []string) error {
	m.gotRoots = roots
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScanService) Records(_ context.Context) ([]domain.ScanRecord, error) {
	return m.records, m.err
}

func testEnvelope() domain.Envelope {
	return domain.Envelope{
		Domain:  "INVOICE",
		Version: "1.2.0",
		Schema:  "https://example.com/schemas/invoice.json",
		Payload: json.RawMessage(`{"total":42}`),
		Metadata: domain.Metadata{
			CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			Generator: domain.Generator,
		},
	}
}

// setupTestServices swaps mock services into the package-level slots so
// commands run without touching real adapters. The returned cleanup
// restores the previous wiring.
func setupTestServices() func() {
	oldInject := injectService
	oldExtract := extractService
	oldScan := scanService
	oldConfig := configStore
	oldScanStore := scanStore

	injectService = &mockInjectService{
		result: &domain.InjectResult{
			Envelope: testEnvelope(),
			Document: []byte("%PDF-1.7 modified"),
		},
	}
	extractService = &mockExtractService{
		hasPayload: true,
		result: &domain.ExtractResult{
			Success: true,
			Data:    func() *domain.Envelope { e := testEnvelope(); return &e }(),
		},
	}
	scanService = &mockScanService{}
	configStore = nil
	scanStore = nil

	return func() {
		injectService = oldInject
		extractService = oldExtract
		scanService = oldScan
		configStore = oldConfig
		scanStore = oldScanStore
	}
}
