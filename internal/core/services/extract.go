package services

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/structpdf-cli/internal/compress"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/structpdf-cli/internal/integrity"
	"github.com/custodia-labs/structpdf-cli/internal/logger"
)

// Ensure ExtractService implements the interface.
var _ driving.ExtractService = (*ExtractService)(nil)

// ExtractService recovers payload envelopes from PDF documents.
type ExtractService struct {
	loader driven.DocumentLoader
}

// NewExtractService creates a new extraction service.
func NewExtractService(loader driven.DocumentLoader) *ExtractService {
	return &ExtractService{loader: loader}
}

// Extract runs the extraction pipeline: locate, detect, decompress, parse,
// verify. Failures are reported inside the result; the method itself never
// fails, so callers scanning many documents keep their control flow.
func (s *ExtractService) Extract(_ context.Context, document []byte, opts domain.ExtractOptions) *domain.ExtractResult {
	res := &domain.ExtractResult{}

	doc, err := s.loader.Load(document)
	if err != nil {
		return res.Fail(fmt.Sprintf("loading document: %v", err))
	}

	if !doc.HasEmbeddedFile(domain.EmbeddedFileName) {
		return res.Fail(domain.ErrNoPayload.Error())
	}

	data, ok := doc.EmbeddedFiles()[domain.EmbeddedFileName]
	if !ok {
		// The name-tree entry exists but its stream chain is broken.
		return res.Fail("payload entry found but its embedded stream could not be read")
	}

	if compress.IsCompressed(data) {
		if !opts.Decompress {
			return res.Fail(domain.ErrDecompressDisabled.Error())
		}
		data, err = compress.DecompressLayers(data, domain.MaxCompressionLayers)
		if err != nil {
			return res.Fail(fmt.Sprintf("decompressing payload: %v", err))
		}
	}

	if !utf8.Valid(data) {
		return res.Fail("payload bytes are not valid UTF-8")
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return res.Fail(fmt.Sprintf("parsing payload envelope: %v", err))
	}

	if opts.VerifyIntegrity && env.Metadata.Integrity != nil {
		// On verification failure the decoded envelope is still returned;
		// the content was recovered even though it is untrusted.
		res.Data = &env
		match, err := integrity.Verify(env.Metadata.Integrity.Algorithm, env.Metadata.Integrity.Hash, env.Payload)
		if err != nil {
			return res.Fail(err.Error())
		}
		if !match {
			return res.Fail(fmt.Sprintf("%v: stored %s digest does not match payload",
				domain.ErrIntegrityMismatch, env.Metadata.Integrity.Algorithm))
		}
	}

	logger.Debug("extracted payload (domain=%s, version=%s, compressed=%v)",
		env.Domain, env.Version, env.Metadata.Compressed)

	res.Success = true
	res.Data = &env
	return res
}

// HasPayload is the best-effort presence probe. The keyword signal is
// checked first; documents without a signal fall back to the name tree so
// that externally produced files are still detected. Any failure, including
// an unreadable document, reads as false.
func (s *ExtractService) HasPayload(_ context.Context, document []byte) bool {
	doc, err := s.loader.Load(document)
	if err != nil {
		logger.Debug("presence probe: unreadable document: %v", err)
		return false
	}
	if _, found := doc.Signal(); found {
		return true
	}
	return doc.HasEmbeddedFile(domain.EmbeddedFileName)
}
