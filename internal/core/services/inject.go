package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/structpdf-cli/internal/compress"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/structpdf-cli/internal/integrity"
	"github.com/custodia-labs/structpdf-cli/internal/logger"
)

// Ensure InjectService implements the interface.
var _ driving.InjectService = (*InjectService)(nil)

// InjectService embeds payload envelopes into PDF documents.
type InjectService struct {
	loader driven.DocumentLoader
	now    func() time.Time
}

// NewInjectService creates a new injection service.
func NewInjectService(loader driven.DocumentLoader) *InjectService {
	return &InjectService{
		loader: loader,
		now:    time.Now,
	}
}

// Inject runs the injection pipeline: validate, prepare, serialize,
// size-check, embed, signal, persist.
func (s *InjectService) Inject(_ context.Context, document []byte, payload json.RawMessage, opts domain.InjectOptions) (*domain.InjectResult, error) {
	// Validate the payload and the mandatory schema URL. URL advisories
	// are warnings on the result, never side effects.
	normalized, err := domain.NormalizePayload(payload)
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, "payload validation failed", err)
	}
	warnings, err := domain.ValidateSchemaURL(opts.SchemaURL)
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, "schema URL validation failed", err)
	}

	doc, err := s.loader.Load(document)
	if err != nil {
		return nil, domain.NewError(domain.KindInjection, "injection failed", err)
	}

	// Overwrite guard: never silently replace existing data.
	if doc.HasEmbeddedFile(domain.EmbeddedFileName) && !opts.Overwrite {
		return nil, domain.NewError(domain.KindInjection, "injection failed", domain.ErrAlreadyEmbedded)
	}

	env := s.buildEnvelope(normalized, opts)
	if opts.AddIntegrity {
		digest, err := integrity.Digest(integrity.SHA256, env.Payload)
		if err != nil {
			return nil, domain.NewError(domain.KindInjection, "injection failed", err)
		}
		env.Metadata.Integrity = &domain.Integrity{Algorithm: integrity.SHA256, Hash: digest}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, domain.NewError(domain.KindInjection, "injection failed", err)
	}

	compressed := false
	if opts.Compress && len(data) > domain.CompressThreshold {
		// The compressed flag is part of the serialized envelope, so the
		// envelope is re-serialized with the flag set before the codec
		// runs. Without the second pass the stored flag would disagree
		// with the stored bytes.
		env.Metadata.Compressed = true
		data, err = json.Marshal(env)
		if err != nil {
			return nil, domain.NewError(domain.KindInjection, "injection failed", err)
		}
		data, err = compress.Compress(data)
		if err != nil {
			return nil, domain.NewError(domain.KindInjection, "injection failed", err)
		}
		compressed = true
	}

	if len(data) > domain.MaxPayloadSize {
		return nil, domain.NewError(domain.KindInjection, "injection failed",
			fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrPayloadTooLarge, len(data), domain.MaxPayloadSize))
	}

	if opts.Overwrite {
		if _, err := doc.RemoveEmbeddedFile(domain.EmbeddedFileName); err != nil {
			return nil, domain.NewError(domain.KindInjection, "injection failed", err)
		}
	}
	if err := doc.PutEmbeddedFile(domain.EmbeddedFileName, data, domain.PayloadMIMEType); err != nil {
		return nil, domain.NewError(domain.KindInjection, "injection failed", err)
	}

	// The signal is written only after the name-tree write succeeded.
	doc.AddSignal(domain.Signal{Domain: env.Domain, SpecID: opts.SpecID, SpecName: opts.SpecName})
	doc.SetCustomInfo(domain.InfoKeyHasPayload, "true")
	doc.SetCustomInfo(domain.InfoKeyVersion, env.Version)
	doc.SetCustomInfo(domain.InfoKeyDomain, env.Domain)

	out, err := doc.Save()
	if err != nil {
		return nil, domain.NewError(domain.KindInjection, "injection failed", err)
	}

	if compressed {
		warnings = append(warnings, fmt.Sprintf("payload exceeded %d bytes and was compressed", domain.CompressThreshold))
	}
	logger.Debug("injected %d byte payload (compressed=%v, domain=%s)", len(data), compressed, env.Domain)

	return &domain.InjectResult{
		Envelope: env,
		Document: out,
		Warnings: warnings,
	}, nil
}

func (s *InjectService) buildEnvelope(payload json.RawMessage, opts domain.InjectOptions) domain.Envelope {
	payloadDomain := opts.Domain
	if payloadDomain == "" {
		payloadDomain = domain.DefaultDomain
	}

	return domain.Envelope{
		Domain:  payloadDomain,
		Version: domain.PayloadVersion(payload),
		Schema:  opts.SchemaURL,
		Payload: payload,
		Metadata: domain.Metadata{
			CreatedAt:  s.now().UTC(),
			Generator:  domain.Generator,
			Compressed: false,
		},
	}
}
