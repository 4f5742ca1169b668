package mcp

import (
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extract recovers and probes embedded payloads.
	Extract driving.ExtractService

	// Inject embeds payloads into documents.
	Inject driving.InjectService

	// Scan maintains the scan catalog.
	Scan driving.ScanService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Extract == nil {
		return ErrMissingExtractService
	}
	// Inject and Scan are optional; their tools degrade gracefully.
	return nil
}
