// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants inspect, extract and embed structured PDF
// payloads through tool calls.
package mcp

import "errors"

// ErrMissingExtractService is returned when the extract service is not provided.
var ErrMissingExtractService = errors.New("mcp: extract service is required")
