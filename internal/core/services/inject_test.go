package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structpdf-cli/internal/compress"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestInjectService(doc *mockDocument) *InjectService {
	s := NewInjectService(&mockLoader{doc: doc})
	s.now = func() time.Time { return testTime }
	return s
}

func validOpts() domain.InjectOptions {
	return domain.InjectOptions{SchemaURL: "https://example.com/s.json"}
}

func TestInjectDefaults(t *testing.T) {
	doc := newMockDocument()
	s := newTestInjectService(doc)

	res, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{"name":"Ada"}`), validOpts())
	require.NoError(t, err)

	assert.Equal(t, "GENERIC", res.Envelope.Domain)
	assert.Equal(t, "unknown", res.Envelope.Version)
	assert.Equal(t, "https://example.com/s.json", res.Envelope.Schema)
	assert.Equal(t, `{"name":"Ada"}`, string(res.Envelope.Payload))
	assert.False(t, res.Envelope.Metadata.Compressed)
	assert.Nil(t, res.Envelope.Metadata.Integrity)
	assert.Equal(t, testTime, res.Envelope.Metadata.CreatedAt)
	assert.Equal(t, domain.Generator, res.Envelope.Metadata.Generator)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, doc.saved, res.Document)

	// The stored bytes decode back to the same envelope.
	stored := doc.files[domain.EmbeddedFileName]
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(stored, &env))
	assert.Equal(t, res.Envelope.Domain, env.Domain)
	assert.Equal(t, res.Envelope.Schema, env.Schema)
	assert.Equal(t, string(res.Envelope.Payload), string(env.Payload))
	assert.True(t, env.Metadata.CreatedAt.Equal(testTime))
	assert.Equal(t, domain.PayloadMIMEType, doc.mimeTypes[domain.EmbeddedFileName])
}

func TestInjectSignalAndCustomInfo(t *testing.T) {
	doc := newMockDocument()
	s := newTestInjectService(doc)

	opts := validOpts()
	opts.Domain = "RESUME"
	opts.SpecID = "resume-v2"
	opts.SpecName = "Resume"

	_, err := s.Inject(context.Background(), []byte("%PDF"),
		json.RawMessage(`{"specVersion":"2.0.0"}`), opts)
	require.NoError(t, err)

	sig, found := doc.Signal()
	assert.True(t, found)
	assert.Equal(t, domain.Signal{Domain: "RESUME", SpecID: "resume-v2", SpecName: "Resume"}, sig)

	assert.Equal(t, map[string]string{
		domain.InfoKeyHasPayload: "true",
		domain.InfoKeyVersion:    "2.0.0",
		domain.InfoKeyDomain:     "RESUME",
	}, doc.custom)
}

func TestInjectValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		opts    domain.InjectOptions
		wantErr error
	}{
		{
			name:    "malformed payload",
			payload: `{"broken":`,
			opts:    validOpts(),
			wantErr: domain.ErrInvalidPayload,
		},
		{
			name:    "missing schema URL",
			payload: `{}`,
			opts:    domain.InjectOptions{},
			wantErr: domain.ErrSchemaURLRequired,
		},
		{
			name:    "malformed schema URL",
			payload: `{}`,
			opts:    domain.InjectOptions{SchemaURL: "not a url"},
			wantErr: domain.ErrSchemaURLMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestInjectService(newMockDocument())
			_, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(tt.payload), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestInjectSchemaURLWarnings(t *testing.T) {
	s := newTestInjectService(newMockDocument())

	opts := domain.InjectOptions{SchemaURL: "http://localhost/s.json"}
	res, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{}`), opts)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 2)
}

func TestInjectOverwriteGuard(t *testing.T) {
	doc := newMockDocument()
	doc.files[domain.EmbeddedFileName] = []byte("existing")
	s := newTestInjectService(doc)

	_, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{}`), validOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyEmbedded)
	assert.Equal(t, domain.KindInjection, domain.KindOf(err))

	// With overwrite enabled the second payload replaces the first.
	opts := validOpts()
	opts.Overwrite = true
	res, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{"second":true}`), opts)
	require.NoError(t, err)
	assert.Equal(t, `{"second":true}`, string(res.Envelope.Payload))
	assert.NotContains(t, string(doc.files[domain.EmbeddedFileName]), "existing")
}

// envelopePayloadFiller returns a payload whose serialized envelope is
// exactly target bytes long under the fixed test clock.
func envelopePayloadFiller(t *testing.T, s *InjectService, target int) json.RawMessage {
	t.Helper()

	base, err := json.Marshal(s.buildEnvelope(json.RawMessage(`{"fill":""}`), validOpts()))
	require.NoError(t, err)
	require.LessOrEqual(t, len(base), target)

	filler := strings.Repeat("x", target-len(base))
	return json.RawMessage(fmt.Sprintf(`{"fill":%q}`, filler))
}

func TestInjectCompressionBoundary(t *testing.T) {
	t.Run("at threshold stays uncompressed", func(t *testing.T) {
		doc := newMockDocument()
		s := newTestInjectService(doc)
		payload := envelopePayloadFiller(t, s, domain.CompressThreshold)

		opts := validOpts()
		opts.Compress = true
		res, err := s.Inject(context.Background(), []byte("%PDF"), payload, opts)
		require.NoError(t, err)

		assert.False(t, res.Envelope.Metadata.Compressed)
		assert.False(t, compress.IsCompressed(doc.files[domain.EmbeddedFileName]))
		assert.Empty(t, res.Warnings)
	})

	t.Run("one byte above threshold compresses", func(t *testing.T) {
		doc := newMockDocument()
		s := newTestInjectService(doc)
		payload := envelopePayloadFiller(t, s, domain.CompressThreshold+1)

		opts := validOpts()
		opts.Compress = true
		res, err := s.Inject(context.Background(), []byte("%PDF"), payload, opts)
		require.NoError(t, err)

		assert.True(t, res.Envelope.Metadata.Compressed)
		stored := doc.files[domain.EmbeddedFileName]
		assert.True(t, compress.IsCompressed(stored))
		assert.Len(t, res.Warnings, 1)

		// The persisted flag agrees with the bytes actually stored.
		plain, err := compress.Decompress(stored)
		require.NoError(t, err)
		var env domain.Envelope
		require.NoError(t, json.Unmarshal(plain, &env))
		assert.True(t, env.Metadata.Compressed)
	})

	t.Run("compression off ignores threshold", func(t *testing.T) {
		doc := newMockDocument()
		s := newTestInjectService(doc)
		payload := envelopePayloadFiller(t, s, 4*domain.CompressThreshold)

		res, err := s.Inject(context.Background(), []byte("%PDF"), payload, validOpts())
		require.NoError(t, err)
		assert.False(t, res.Envelope.Metadata.Compressed)
		assert.False(t, compress.IsCompressed(doc.files[domain.EmbeddedFileName]))
	})
}

func TestInjectIntegrity(t *testing.T) {
	doc := newMockDocument()
	s := newTestInjectService(doc)

	opts := validOpts()
	opts.AddIntegrity = true
	res, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{"name":"Ada"}`), opts)
	require.NoError(t, err)

	require.NotNil(t, res.Envelope.Metadata.Integrity)
	assert.Equal(t, "sha256", res.Envelope.Metadata.Integrity.Algorithm)
	assert.Len(t, res.Envelope.Metadata.Integrity.Hash, 64)
}

func TestInjectPayloadTooLarge(t *testing.T) {
	s := newTestInjectService(newMockDocument())

	big := fmt.Sprintf(`{"blob":%q}`, strings.Repeat("a", domain.MaxPayloadSize))
	_, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(big), validOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}

func TestInjectLoadFailure(t *testing.T) {
	loadErr := errors.New("not a PDF")
	s := NewInjectService(&mockLoader{loadErr: loadErr})

	_, err := s.Inject(context.Background(), []byte("junk"), json.RawMessage(`{}`), validOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, domain.KindInjection, domain.KindOf(err))
}

func TestInjectEmbedFailure(t *testing.T) {
	doc := newMockDocument()
	doc.putErr = errors.New("graph rejected mutation")
	s := newTestInjectService(doc)

	_, err := s.Inject(context.Background(), []byte("%PDF"), json.RawMessage(`{}`), validOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, doc.putErr)
	assert.Contains(t, err.Error(), "injection failed")

	// The signal is only written after a successful name-tree write.
	_, found := doc.Signal()
	assert.False(t, found)
}
