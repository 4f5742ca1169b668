package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// DetectInput is the input schema for the pdf_detect tool.
type DetectInput struct {
	Path string `json:"path" jsonschema:"path to the PDF file to probe"`
}

// DetectOutput is the output schema for the pdf_detect tool.
type DetectOutput struct {
	Detected bool   `json:"detected"`
	Domain   string `json:"domain,omitempty"`
	Version  string `json:"version,omitempty"`
}

// ExtractInput is the input schema for the pdf_extract tool.
type ExtractInput struct {
	Path   string `json:"path" jsonschema:"path to the PDF file to extract from"`
	Verify bool   `json:"verify,omitempty" jsonschema:"verify the stored integrity digest"`
}

// ExtractOutput is the output schema for the pdf_extract tool.
type ExtractOutput struct {
	Success  bool             `json:"success"`
	Envelope *domain.Envelope `json:"envelope,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// InjectInput is the input schema for the pdf_inject tool.
type InjectInput struct {
	Path       string          `json:"path" jsonschema:"path to the PDF file to embed into"`
	Payload    json.RawMessage `json:"payload" jsonschema:"the JSON payload to embed"`
	SchemaURL  string          `json:"schemaUrl" jsonschema:"schema URL describing the payload"`
	Domain     string          `json:"domain,omitempty" jsonschema:"business domain tag (default GENERIC)"`
	Compress   bool            `json:"compress,omitempty" jsonschema:"compress envelopes larger than 1 KiB"`
	Integrity  bool            `json:"integrity,omitempty" jsonschema:"record a sha-256 digest of the payload"`
	Overwrite  bool            `json:"overwrite,omitempty" jsonschema:"replace an existing payload"`
	OutputPath string          `json:"outputPath,omitempty" jsonschema:"where to write the result (default: in place)"`
}

// InjectOutput is the output schema for the pdf_inject tool.
type InjectOutput struct {
	OutputPath string   `json:"outputPath"`
	Domain     string   `json:"domain"`
	Version    string   `json:"version"`
	Compressed bool     `json:"compressed"`
	Warnings   []string `json:"warnings,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pdf_detect",
		Description: "Check whether a PDF document carries an embedded structured payload",
	}, s.handleDetect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pdf_extract",
		Description: "Extract the embedded structured payload from a PDF document",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pdf_inject",
		Description: "Embed a JSON payload into a PDF document",
	}, s.handleInject)
}

// handleDetect handles the pdf_detect tool invocation.
func (s *Server) handleDetect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	document, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, DetectOutput{}, fmt.Errorf("reading document: %w", err)
	}

	if !s.ports.Extract.HasPayload(ctx, document) {
		return nil, DetectOutput{Detected: false}, nil
	}

	output := DetectOutput{Detected: true}
	// Best effort envelope details for a positive probe.
	result := s.ports.Extract.Extract(ctx, document, domain.DefaultExtractOptions())
	if result.Success && result.Data != nil {
		output.Domain = result.Data.Domain
		output.Version = result.Data.Version
	}
	return nil, output, nil
}

// handleExtract handles the pdf_extract tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	document, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, ExtractOutput{}, fmt.Errorf("reading document: %w", err)
	}

	opts := domain.DefaultExtractOptions()
	opts.VerifyIntegrity = input.Verify

	result := s.ports.Extract.Extract(ctx, document, opts)
	return nil, ExtractOutput{
		Success:  result.Success,
		Envelope: result.Data,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}, nil
}

// handleInject handles the pdf_inject tool invocation.
func (s *Server) handleInject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InjectInput,
) (*mcp.CallToolResult, InjectOutput, error) {
	if s.ports.Inject == nil {
		return nil, InjectOutput{}, errors.New("inject service not configured")
	}

	document, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, InjectOutput{}, fmt.Errorf("reading document: %w", err)
	}

	opts := domain.InjectOptions{
		SchemaURL:    input.SchemaURL,
		Domain:       input.Domain,
		Compress:     input.Compress,
		AddIntegrity: input.Integrity,
		Overwrite:    input.Overwrite,
	}

	result, err := s.ports.Inject.Inject(ctx, document, input.Payload, opts)
	if err != nil {
		return nil, InjectOutput{}, err
	}

	outputPath := input.OutputPath
	if outputPath == "" {
		outputPath = input.Path
	}
	if err := os.WriteFile(outputPath, result.Document, 0600); err != nil {
		return nil, InjectOutput{}, fmt.Errorf("writing output: %w", err)
	}

	return nil, InjectOutput{
		OutputPath: outputPath,
		Domain:     result.Envelope.Domain,
		Version:    result.Envelope.Version,
		Compressed: result.Envelope.Metadata.Compressed,
		Warnings:   result.Warnings,
	}, nil
}
