package pdfdoc

import (
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/pdf"

	"github.com/custodia-labs/structpdf-cli/internal/logger"
)

// HasEmbeddedFile reports whether the embedded-file name tree contains an
// entry for name. Any break in the Catalog -> Names -> EmbeddedFiles ->
// Names chain reads as absent; this predicate never fails.
func (d *Document) HasEmbeddedFile(name string) bool {
	pairs := d.namePairs()
	for i := 0; i+1 < len(pairs); i += 2 {
		if n, ok := d.entryName(pairs[i]); ok && n == name {
			return true
		}
	}
	return false
}

// EmbeddedFiles returns the raw stored bytes of every resolvable entry in
// the name tree. Pairs whose filespec or stream chain cannot be resolved
// are skipped with a warning; an unrelated malformed embedded file must not
// block detection of the entries that do resolve.
func (d *Document) EmbeddedFiles() map[string][]byte {
	pairs := d.namePairs()
	out := make(map[string][]byte)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := d.entryName(pairs[i])
		if !ok {
			logger.Warn("embedded file entry %d has an unreadable name, skipping", i/2)
			continue
		}
		data, err := d.readEmbedded(pairs[i+1])
		if err != nil {
			logger.Warn("embedded file %q could not be read, skipping: %v", name, err)
			continue
		}
		out[name] = data
	}
	return out
}

// PutEmbeddedFile creates or replaces the name-tree entry for name. Missing
// levels of the dictionary chain are created; an existing pair with the
// same name is removed by a linear rewrite that preserves the order of the
// remaining pairs, and the new pair is appended.
func (d *Document) PutEmbeddedFile(name string, data []byte, mimeType string) error {
	embedded, err := d.ensureEmbeddedFiles()
	if err != nil {
		return err
	}

	streamRef := d.pdf.Alloc()
	streamDict := pdf.Dict{
		"Type":    pdf.Name("EmbeddedFile"),
		"Subtype": pdf.Name(mimeType),
		"Params": pdf.Dict{
			"Size":    pdf.Integer(len(data)),
			"ModDate": pdf.Date(time.Now()),
		},
	}
	w, err := d.pdf.OpenStream(streamRef, streamDict, pdf.FilterCompress{})
	if err != nil {
		return fmt.Errorf("creating embedded file stream: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing embedded file stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing embedded file stream: %w", err)
	}

	filespecRef := d.pdf.Alloc()
	filespec := pdf.Dict{
		"Type":           pdf.Name("Filespec"),
		"F":              pdf.String(name),
		"UF":             pdf.TextString(name),
		"Desc":           pdf.TextString("StructPDF payload"),
		"AFRelationship": pdf.Name("Data"),
		"EF":             pdf.Dict{"F": streamRef},
	}
	if err := d.pdf.Put(filespecRef, filespec); err != nil {
		return fmt.Errorf("registering filespec: %w", err)
	}

	pairs, err := pdf.GetArray(d.pdf, embedded["Names"])
	if err != nil {
		return fmt.Errorf("reading name tree pairs: %w", err)
	}
	rewritten := make(pdf.Array, 0, len(pairs)+2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if n, ok := d.entryName(pairs[i]); ok && n == name {
			continue
		}
		rewritten = append(rewritten, pairs[i], pairs[i+1])
	}
	rewritten = append(rewritten, pdf.TextString(name), filespecRef)
	embedded["Names"] = rewritten
	return nil
}

// RemoveEmbeddedFile deletes the entry for name, reporting whether
// anything was removed.
func (d *Document) RemoveEmbeddedFile(name string) (bool, error) {
	embedded := d.embeddedFiles()
	if embedded == nil {
		return false, nil
	}
	pairs, err := pdf.GetArray(d.pdf, embedded["Names"])
	if err != nil {
		return false, fmt.Errorf("reading name tree pairs: %w", err)
	}

	rewritten := make(pdf.Array, 0, len(pairs))
	removed := false
	for i := 0; i+1 < len(pairs); i += 2 {
		if n, ok := d.entryName(pairs[i]); ok && n == name {
			removed = true
			continue
		}
		rewritten = append(rewritten, pairs[i], pairs[i+1])
	}
	if removed {
		embedded["Names"] = rewritten
	}
	return removed, nil
}

// namePairs walks Catalog -> Names -> EmbeddedFiles -> Names, returning nil
// at any missing or mistyped link.
func (d *Document) namePairs() pdf.Array {
	embedded := d.embeddedFiles()
	if embedded == nil {
		return nil
	}
	pairs, err := pdf.GetArray(d.pdf, embedded["Names"])
	if err != nil {
		return nil
	}
	return pairs
}

// embeddedFiles resolves the EmbeddedFiles dictionary read-only.
func (d *Document) embeddedFiles() pdf.Dict {
	catalog := d.pdf.GetMeta().Catalog
	if catalog == nil || catalog.Names == nil {
		return nil
	}
	names, err := pdf.GetDict(d.pdf, catalog.Names)
	if err != nil || names == nil {
		return nil
	}
	embedded, err := pdf.GetDict(d.pdf, names["EmbeddedFiles"])
	if err != nil {
		return nil
	}
	return embedded
}

// ensureEmbeddedFiles resolves the EmbeddedFiles dictionary, creating each
// missing level of the chain. Unlike the read path, a mistyped link here is
// an error: silently replacing a malformed object would destroy data.
func (d *Document) ensureEmbeddedFiles() (pdf.Dict, error) {
	catalog := d.pdf.GetMeta().Catalog
	if catalog == nil {
		return nil, fmt.Errorf("document has no catalog")
	}

	var names pdf.Dict
	if catalog.Names != nil {
		var err error
		names, err = pdf.GetDict(d.pdf, catalog.Names)
		if err != nil {
			return nil, fmt.Errorf("catalog Names is not a dictionary: %w", err)
		}
	}
	if names == nil {
		names = pdf.Dict{}
		catalog.Names = names
	}

	var embedded pdf.Dict
	if names["EmbeddedFiles"] != nil {
		var err error
		embedded, err = pdf.GetDict(d.pdf, names["EmbeddedFiles"])
		if err != nil {
			return nil, fmt.Errorf("EmbeddedFiles is not a dictionary: %w", err)
		}
	}
	if embedded == nil {
		embedded = pdf.Dict{}
		names["EmbeddedFiles"] = embedded
	}

	if embedded["Names"] == nil {
		embedded["Names"] = pdf.Array{}
	}
	return embedded, nil
}

// entryName decodes a name-tree key, which is a PDF string.
func (d *Document) entryName(obj pdf.Object) (string, bool) {
	s, err := pdf.GetString(d.pdf, obj)
	if err != nil || s == nil {
		return "", false
	}
	return s.AsTextString(), true
}

// readEmbedded dereferences filespec -> EF -> F -> stream contents.
func (d *Document) readEmbedded(obj pdf.Object) ([]byte, error) {
	filespec, err := pdf.GetDict(d.pdf, obj)
	if err != nil {
		return nil, fmt.Errorf("resolving filespec: %w", err)
	}
	if filespec == nil {
		return nil, fmt.Errorf("filespec is missing")
	}

	ef, err := pdf.GetDict(d.pdf, filespec["EF"])
	if err != nil {
		return nil, fmt.Errorf("resolving EF dictionary: %w", err)
	}
	if ef == nil {
		return nil, fmt.Errorf("filespec has no EF dictionary")
	}

	stream, err := pdf.GetStream(d.pdf, ef["F"])
	if err != nil {
		return nil, fmt.Errorf("resolving embedded stream: %w", err)
	}
	if stream == nil {
		return nil, fmt.Errorf("EF dictionary has no F stream")
	}

	r, err := pdf.DecodeStream(d.pdf, stream, 0)
	if err != nil {
		return nil, fmt.Errorf("decoding embedded stream: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading embedded stream: %w", err)
	}
	return data, nil
}
