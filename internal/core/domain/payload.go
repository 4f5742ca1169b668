package domain

import (
	"encoding/json"
	"time"
)

// Fixed constants of the StructPDF format. These are part of the on-disk
// contract and must not change between releases.
const (
	// EmbeddedFileName is the reserved name of the payload entry in the
	// PDF embedded-file name tree.
	EmbeddedFileName = "structpdf-payload.json"

	// PayloadMIMEType is the MIME subtype recorded on the embedded stream.
	PayloadMIMEType = "application/json"

	// Generator identifies this implementation in envelope metadata.
	Generator = "structpdf-go/1.0.0"

	// DefaultDomain is used when the caller does not classify the payload.
	DefaultDomain = "GENERIC"

	// VersionUnknown is recorded when the payload carries no specVersion.
	VersionUnknown = "unknown"

	// CompressThreshold is the serialized envelope size, in bytes, above
	// which compression is applied when requested. Envelopes at or below
	// the threshold are stored uncompressed even with Compress set.
	CompressThreshold = 1024

	// MaxPayloadSize is the hard limit on the stored (possibly
	// compressed) envelope bytes.
	MaxPayloadSize = 10 << 20

	// MaxCompressionLayers bounds how many nested compression framings
	// extraction will unwrap before giving up and returning the bytes
	// as-is.
	MaxCompressionLayers = 5
)

// Envelope is the structure persisted inside the PDF as the embedded file.
// The payload is kept as raw JSON so that it round-trips byte-for-byte; the
// integrity hash is computed over exactly these bytes.
type Envelope struct {
	// Domain is a free-form classification string, e.g. "RESUME".
	Domain string `json:"domain"`

	// Version is taken from the payload's specVersion field if present,
	// otherwise VersionUnknown.
	Version string `json:"version"`

	// Schema is the schema URL, recorded verbatim and never fetched.
	Schema string `json:"schema"`

	// Payload is the caller-supplied JSON value.
	Payload json.RawMessage `json:"payload"`

	// Metadata is the creation and audit block.
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how and when an envelope was produced.
type Metadata struct {
	// CreatedAt is set once at injection time.
	CreatedAt time.Time `json:"createdAt"`

	// Generator identifies the producing implementation.
	Generator string `json:"generator"`

	// Compressed is true iff the stored bytes underwent compression.
	Compressed bool `json:"compressed"`

	// Integrity is present only when integrity protection was requested.
	Integrity *Integrity `json:"integrity,omitempty"`
}

// Integrity is an unkeyed digest over the envelope's payload bytes.
type Integrity struct {
	// Algorithm is one of the supported hash algorithm names.
	Algorithm string `json:"algorithm"`

	// Hash is the lowercase hex digest of the payload JSON.
	Hash string `json:"hash"`
}

// InjectOptions controls a single injection call.
type InjectOptions struct {
	// SchemaURL is mandatory and recorded verbatim on the envelope.
	SchemaURL string

	// Domain classifies the payload; empty means DefaultDomain.
	Domain string

	// Compress enables compression of envelopes larger than
	// CompressThreshold.
	Compress bool

	// AddIntegrity records a sha-256 digest of the payload.
	AddIntegrity bool

	// Overwrite permits replacing an existing payload entry.
	Overwrite bool

	// SpecID and SpecName are optional identifiers added to the keyword
	// signal.
	SpecID   string
	SpecName string
}

// InjectResult reports a successful injection.
type InjectResult struct {
	// Envelope is a copy of what was written into the document.
	Envelope Envelope

	// Document is the serialized output document.
	Document []byte

	// Warnings are non-fatal advisories accumulated by the pipeline.
	Warnings []string
}

// ExtractOptions controls a single extraction call.
type ExtractOptions struct {
	// Decompress enables unwrapping of compressed payload bytes.
	Decompress bool

	// VerifyIntegrity recomputes and checks the stored digest, if any.
	VerifyIntegrity bool
}

// DefaultExtractOptions returns the extraction defaults: decompression on,
// integrity verification off.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{Decompress: true}
}

// ExtractResult is the inline outcome of an extraction. Extraction never
// surfaces errors through control flow; failures are recorded here.
type ExtractResult struct {
	// Success is true only when the envelope was fully decoded and, if
	// requested, verified.
	Success bool `json:"success"`

	// Data is the decoded envelope. On integrity failure it is still
	// populated, untrusted, alongside Success=false.
	Data *Envelope `json:"data,omitempty"`

	// Errors holds human-readable failure reasons.
	Errors []string `json:"errors,omitempty"`

	// Warnings are non-fatal advisories.
	Warnings []string `json:"warnings,omitempty"`
}

// Fail records a failure reason and returns the result for chaining.
func (r *ExtractResult) Fail(reason string) *ExtractResult {
	r.Success = false
	r.Errors = append(r.Errors, reason)
	return r
}
