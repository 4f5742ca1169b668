package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// InjectService embeds a structured payload into a PDF document.
type InjectService interface {
	// Inject validates payload, assembles the envelope and writes it into
	// document's embedded-file name tree, returning the serialized output
	// document. Failures are returned as classified errors; advisory
	// conditions are accumulated in the result's warnings.
	Inject(ctx context.Context, document []byte, payload json.RawMessage, opts domain.InjectOptions) (*domain.InjectResult, error)
}
