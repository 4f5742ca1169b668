package driving

import (
	"context"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// ExtractService recovers a structured payload from a PDF document.
type ExtractService interface {
	// Extract locates, decodes and optionally verifies the embedded
	// payload. It never fails through control flow: every failure path
	// is reported inside the result, so batch callers can keep going.
	Extract(ctx context.Context, document []byte, opts domain.ExtractOptions) *domain.ExtractResult

	// HasPayload is a best-effort presence probe. Unreadable or invalid
	// documents read as false.
	HasPayload(ctx context.Context, document []byte) bool
}
