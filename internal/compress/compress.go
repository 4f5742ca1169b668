// Package compress implements the reversible byte transform applied to
// StructPDF envelopes. Compression always writes a gzip framing; detection
// recognizes both gzip and zlib framings by their two-byte magic headers so
// that payloads produced by other writers still extract.
package compress

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrTooSmall indicates the input is shorter than a magic header.
	ErrTooSmall = errors.New("input too small to classify")

	// ErrUnknownFormat indicates the input starts with neither a gzip nor
	// a zlib header.
	ErrUnknownFormat = errors.New("compression format not recognized")

	// ErrDecompress indicates a recognized framing failed to decode.
	ErrDecompress = errors.New("decompression failed")
)

// Format identifies a compression framing detected by magic header.
type Format int

const (
	FormatUnknown Format = iota
	FormatGzip
	FormatZlib
)

// DetectFormat classifies data by its first two bytes.
func DetectFormat(data []byte) Format {
	if len(data) < 2 {
		return FormatUnknown
	}
	switch {
	case data[0] == 0x1f && data[1] == 0x8b:
		return FormatGzip
	case data[0] == 0x78 && data[1] == 0x9c:
		return FormatZlib
	default:
		return FormatUnknown
	}
}

// IsCompressed reports whether data starts with a recognized framing.
func IsCompressed(data []byte) bool {
	return DetectFormat(data) != FormatUnknown
}

// Compress deflates data with a gzip framing at maximum compression.
// A failure here is a programming or environment fault, never transient.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressing payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing gzip stream: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates one layer of framing. The framing is selected by the
// magic header; unrecognized or truncated input fails before any decoding
// is attempted, and corrupt streams never yield partial data.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrTooSmall
	}

	var (
		r   io.ReadCloser
		err error
	)
	switch DetectFormat(data) {
	case FormatGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case FormatZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	return out, nil
}

// DecompressLayers repeatedly unwraps compression framings until the data
// no longer carries a magic header, up to maxLayers. Data still framed
// after maxLayers rounds is returned as-is; that many layers is already
// pathological and best-effort bytes beat a hard failure there.
func DecompressLayers(data []byte, maxLayers int) ([]byte, error) {
	for layer := 0; layer < maxLayers && IsCompressed(data); layer++ {
		out, err := Decompress(data)
		if err != nil {
			return nil, err
		}
		data = out
	}
	return data, nil
}
