package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	"seehuhn.de/go/pdf"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
)

// Ensure the adapter implements its ports.
var (
	_ driven.DocumentLoader = (*Loader)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Loader parses PDF byte streams into Documents.
type Loader struct{}

// NewLoader creates a new PDF document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a complete PDF document into memory.
func (l *Loader) Load(data []byte) (driven.Document, error) {
	d, err := pdf.Read(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing PDF: %w", err)
	}
	return &Document{pdf: d}, nil
}

// Document is a loaded PDF object graph.
type Document struct {
	pdf *pdf.Data
}

// AddSignal appends the keyword signal tokens to the document's keyword
// field. Pre-existing keywords are kept; new tokens are appended after
// them, never replacing the list.
func (d *Document) AddSignal(sig domain.Signal) {
	info := d.info()
	tokens := strings.Join(sig.Tokens(), " ")
	if info.Keywords == "" {
		info.Keywords = tokens
	} else {
		info.Keywords += " " + tokens
	}
}

// Signal parses the keyword field for signal tokens.
func (d *Document) Signal() (domain.Signal, bool) {
	meta := d.pdf.GetMeta()
	if meta.Info == nil {
		return domain.Signal{}, false
	}
	return domain.ParseSignal(meta.Info.Keywords)
}

// SetCustomInfo records a custom key in the document information
// dictionary.
func (d *Document) SetCustomInfo(key, value string) {
	info := d.info()
	if info.Custom == nil {
		info.Custom = make(map[string]string)
	}
	info.Custom[key] = value
}

// CustomInfo reads a custom document information key.
func (d *Document) CustomInfo(key string) (string, bool) {
	meta := d.pdf.GetMeta()
	if meta.Info == nil || meta.Info.Custom == nil {
		return "", false
	}
	v, ok := meta.Info.Custom[key]
	return v, ok
}

// Save serializes the whole document graph to bytes.
func (d *Document) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// info returns the document information dictionary, creating it on first
// use. Read paths must not call this; they check meta.Info for nil instead
// so that probing a document never mutates it.
func (d *Document) info() *pdf.Info {
	meta := d.pdf.GetMeta()
	if meta.Info == nil {
		meta.Info = &pdf.Info{}
	}
	return meta.Info
}
