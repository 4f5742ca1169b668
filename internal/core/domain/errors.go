package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidPayload indicates the payload is not a plain JSON value.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrSchemaURLRequired indicates no schema URL was supplied.
	ErrSchemaURLRequired = errors.New("schema URL is required")

	// ErrSchemaURLMalformed indicates the schema URL could not be parsed.
	ErrSchemaURLMalformed = errors.New("schema URL is malformed")

	// ErrAlreadyEmbedded indicates the document already carries a payload
	// and overwrite was not enabled.
	ErrAlreadyEmbedded = errors.New("document already contains a StructPDF payload")

	// ErrPayloadTooLarge indicates the stored bytes would exceed
	// MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNoPayload indicates the document has no payload entry.
	ErrNoPayload = errors.New("no StructPDF payload found")

	// ErrDecompressDisabled indicates the payload is compressed but the
	// caller disabled decompression.
	ErrDecompressDisabled = errors.New("payload is compressed but decompression is disabled")

	// ErrUnsupportedAlgorithm indicates an integrity algorithm outside
	// the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

	// ErrIntegrityMismatch indicates the recomputed digest does not match
	// the stored one.
	ErrIntegrityMismatch = errors.New("integrity hash mismatch")
)

// Kind classifies an Error into one of the four failure families.
type Kind int

const (
	// KindValidation covers malformed input JSON and option errors.
	KindValidation Kind = iota + 1

	// KindFileSystem covers unreadable inputs and unwritable outputs.
	KindFileSystem

	// KindInjection covers failures of the injection pipeline.
	KindInjection

	// KindExtraction covers failures of the extraction pipeline.
	KindExtraction
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFileSystem:
		return "filesystem"
	case KindInjection:
		return "injection"
	case KindExtraction:
		return "extraction"
	default:
		return "unknown"
	}
}

// Error is a classified failure with an optional wrapped cause. The cause's
// message text is preserved for diagnostics.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error wrapping cause (which may be nil).
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf reports the Kind of err, or zero if err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
