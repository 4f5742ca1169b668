package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "object", input: `{"name": "Ada"}`, want: `{"name":"Ada"}`},
		{name: "array", input: `[1, 2, 3]`, want: `[1,2,3]`},
		{name: "scalar string", input: `"hello"`, want: `"hello"`},
		{name: "null", input: `null`, want: `null`},
		{name: "nested whitespace", input: "{\n  \"a\": [true, null]\n}", want: `{"a":[true,null]}`},
		{name: "empty input", input: ``, wantErr: true},
		{name: "whitespace only", input: "  \n\t", wantErr: true},
		{name: "malformed", input: `{"a":`, wantErr: true},
		{name: "trailing data", input: `{"a":1} extra`, wantErr: true},
		{name: "two values", input: `1 2`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePayload(json.RawMessage(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizePayloadPreservesKeyOrder(t *testing.T) {
	got, err := NormalizePayload(json.RawMessage(`{"z": 1, "a": 2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(got))
}

func TestNormalizePayloadPreservesNumberText(t *testing.T) {
	// 1e2 must not be rewritten to 100; the raw bytes are what get hashed.
	got, err := NormalizePayload(json.RawMessage(`{"n": 1e2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"n":1e2}`, string(got))
}

func TestPayloadVersion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "present", payload: `{"specVersion":"2.1.0","x":1}`, want: "2.1.0"},
		{name: "missing", payload: `{"x":1}`, want: VersionUnknown},
		{name: "empty string", payload: `{"specVersion":""}`, want: VersionUnknown},
		{name: "wrong type", payload: `{"specVersion":3}`, want: VersionUnknown},
		{name: "not an object", payload: `[1,2]`, want: VersionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PayloadVersion(json.RawMessage(tt.payload)))
		})
	}
}

func TestValidateSchemaURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantErr      error
		wantWarnings int
	}{
		{name: "https", url: "https://example.com/schema.json"},
		{name: "http warns", url: "http://example.com/s.json", wantWarnings: 1},
		{name: "localhost warns", url: "https://localhost:8080/s.json", wantWarnings: 1},
		{name: "loopback IP warns", url: "https://127.0.0.1/s.json", wantWarnings: 1},
		{name: "http localhost warns twice", url: "http://localhost/s.json", wantWarnings: 2},
		{name: "empty", url: "", wantErr: ErrSchemaURLRequired},
		{name: "blank", url: "   ", wantErr: ErrSchemaURLRequired},
		{name: "no scheme", url: "example.com/s.json", wantErr: ErrSchemaURLMalformed},
		{name: "no host", url: "https://", wantErr: ErrSchemaURLMalformed},
		{name: "garbage", url: "::::", wantErr: ErrSchemaURLMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := ValidateSchemaURL(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}
