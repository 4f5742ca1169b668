package driven

import (
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// DocumentLoader parses a byte stream into a mutable Document.
type DocumentLoader interface {
	// Load parses data into an in-memory document graph. The returned
	// Document is independent of data; mutations are only visible in the
	// bytes produced by Save.
	Load(data []byte) (Document, error)
}

// Document is a loaded PDF viewed through the operations the pipelines
// need: embedded-file name-tree CRUD, the keyword metadata signal, and
// serialization back to bytes.
//
// Read operations degrade to "not found" on any break in the document's
// dictionary chains; only graph mutations and serialization return errors.
type Document interface {
	// HasEmbeddedFile reports whether the name tree has an entry for
	// name. It never fails; malformed documents read as absent.
	HasEmbeddedFile(name string) bool

	// EmbeddedFiles returns the raw stored bytes of every resolvable
	// name-tree entry. Entries whose filespec or stream chain cannot be
	// resolved are skipped, not fatal.
	EmbeddedFiles() map[string][]byte

	// PutEmbeddedFile creates or replaces the entry for name, creating
	// any missing level of the name-tree chain. An existing entry with
	// the same name is removed first.
	PutEmbeddedFile(name string, data []byte, mimeType string) error

	// RemoveEmbeddedFile deletes the entry for name and reports whether
	// anything was removed.
	RemoveEmbeddedFile(name string) (bool, error)

	// AddSignal appends the keyword signal tokens to the document's
	// keyword field, preserving pre-existing unrelated keywords.
	AddSignal(sig domain.Signal)

	// Signal parses the keyword field; the boolean reports whether the
	// presence token was found.
	Signal() (domain.Signal, bool)

	// SetCustomInfo records a custom document-information key.
	SetCustomInfo(key, value string)

	// CustomInfo reads a custom document-information key.
	CustomInfo(key string) (string, bool)

	// Save serializes the whole document graph to bytes.
	Save() ([]byte, error)
}
