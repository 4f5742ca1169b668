// Package integrity computes and verifies the digest stored in an
// envelope's integrity block. The digest covers the payload's JSON bytes
// exactly as persisted, so verification is stable across round-trips
// without any key canonicalization step.
package integrity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
)

// Supported algorithm names, as stored in the integrity block.
const (
	MD5    = "md5"
	SHA1   = "sha1"
	SHA256 = "sha256"
	SHA384 = "sha384"
	SHA512 = "sha512"
)

func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, algorithm)
	}
}

// Digest returns the lowercase hex digest of payloadJSON under the named
// algorithm.
func Digest(algorithm string, payloadJSON []byte) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}
	h.Write(payloadJSON)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify recomputes the digest of payloadJSON and compares it against
// storedHash. The comparison is case-sensitive; stored hashes are lowercase
// hex by contract. An unsupported algorithm fails regardless of whether the
// recomputed hash would have matched.
func Verify(algorithm, storedHash string, payloadJSON []byte) (bool, error) {
	computed, err := Digest(algorithm, payloadJSON)
	if err != nil {
		return false, err
	}
	return computed == storedHash, nil
}
