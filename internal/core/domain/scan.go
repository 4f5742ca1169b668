package domain

import "time"

// ScanRecord is the catalog entry produced when a document is probed for a
// StructPDF payload during a batch scan.
type ScanRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// Path is the absolute path of the scanned document.
	Path string `json:"path"`

	// HasPayload reports whether a payload was detected.
	HasPayload bool `json:"hasPayload"`

	// Domain is the payload domain from the keyword signal, if any.
	Domain string `json:"domain,omitempty"`

	// Version is the payload version from the document metadata, if any.
	Version string `json:"version,omitempty"`

	// ScannedAt is when the document was last probed.
	ScannedAt time.Time `json:"scannedAt"`
}
