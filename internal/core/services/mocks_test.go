package services

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDocument implements driven.Document for testing.
type mockDocument struct {
	files     map[string][]byte
	mimeTypes map[string]string
	signal    domain.Signal
	hasSignal bool
	custom    map[string]string

	putErr    error
	removeErr error
	saveErr   error
	saved     []byte
}

func newMockDocument() *mockDocument {
	return &mockDocument{
		files:     make(map[string][]byte),
		mimeTypes: make(map[string]string),
		custom:    make(map[string]string),
		saved:     []byte("%PDF-mock"),
	}
}

func (m *mockDocument) HasEmbeddedFile(name string) bool {
	_, ok := m.files[name]
	return ok
}

func (m *mockDocument) EmbeddedFiles() map[string][]byte {
	out := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}

func (m *mockDocument) PutEmbeddedFile(name string, data []byte, mimeType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.files[name] = data
	m.mimeTypes[name] = mimeType
	return nil
}

func (m *mockDocument) RemoveEmbeddedFile(name string) (bool, error) {
	if m.removeErr != nil {
		return false, m.removeErr
	}
	_, ok := m.files[name]
	delete(m.files, name)
	return ok, nil
}

func (m *mockDocument) AddSignal(sig domain.Signal) {
	m.signal = sig
	m.hasSignal = true
}

func (m *mockDocument) Signal() (domain.Signal, bool) {
	return m.signal, m.hasSignal
}

func (m *mockDocument) SetCustomInfo(key, value string) {
	m.custom[key] = value
}

func (m *mockDocument) CustomInfo(key string) (string, bool) {
	v, ok := m.custom[key]
	return v, ok
}

func (m *mockDocument) Save() ([]byte, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saved, nil
}

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	doc     *mockDocument
	loadErr error
}

func (m *mockLoader) Load(_ []byte) (driven.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.doc, nil
}

// mockScanStore implements driven.ScanStore for testing.
type mockScanStore struct {
	mu      sync.Mutex
	records map[string]domain.ScanRecord
	saveErr error
}

func newMockScanStore() *mockScanStore {
	return &mockScanStore{records: make(map[string]domain.ScanRecord)}
}

func (m *mockScanStore) SaveRecord(_ context.Context, record domain.ScanRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Path] = record
	return nil
}

func (m *mockScanStore) GetRecord(_ context.Context, path string) (*domain.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[path]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *mockScanStore) ListRecords(_ context.Context) ([]domain.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ScanRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *mockScanStore) DeleteRecord(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, path)
	return nil
}

func (m *mockScanStore) Close() error { return nil }
