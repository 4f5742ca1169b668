package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for structpdf resources.
	uriScheme = "structpdf://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the scan catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "Scan catalog of PDF documents probed for embedded payloads",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)
}

// handleCatalogResource returns the scan catalog as JSON.
func (s *Server) handleCatalogResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Scan == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	records, err := s.ports.Scan.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
