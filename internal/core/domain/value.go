package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// NormalizePayload checks that raw is exactly one well-formed JSON value and
// returns it in compact form. The compact form is what gets persisted and
// hashed, so normalizing once at the boundary keeps the stored bytes and the
// integrity digest consistent.
//
// Any JSON value is accepted: null, booleans, numbers, strings, arrays and
// plain object maps. Host-language values that have no JSON representation
// cannot reach this function, since input arrives as serialized bytes.
func NormalizePayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPayload)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	// json.Compact stops at the end of the first value; trailing garbage
	// would silently survive a round-trip otherwise.
	var probe any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidPayload)
	}

	return buf.Bytes(), nil
}

// PayloadVersion extracts the specVersion string field from a payload
// object. Payloads that are not objects, or whose specVersion is missing or
// not a string, yield VersionUnknown.
func PayloadVersion(payload json.RawMessage) string {
	var probe struct {
		SpecVersion string `json:"specVersion"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.SpecVersion == "" {
		return VersionUnknown
	}
	return probe.SpecVersion
}

// ValidateSchemaURL checks that rawURL is syntactically a URL with a scheme
// and host. A missing or unparsable URL is an error; recognizable but
// discouraged shapes (plain http, loopback hosts) produce advisory warnings
// instead. The URL is never dereferenced.
func ValidateSchemaURL(rawURL string) (warnings []string, err error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrSchemaURLRequired
	}

	u, parseErr := url.Parse(rawURL)
	if parseErr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrSchemaURLMalformed, rawURL)
	}

	if u.Scheme == "http" {
		warnings = append(warnings, fmt.Sprintf("schema URL %q uses http; https is recommended", rawURL))
	}
	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		warnings = append(warnings, fmt.Sprintf("schema URL %q points at a loopback host and will not resolve elsewhere", rawURL))
	}

	return warnings, nil
}
