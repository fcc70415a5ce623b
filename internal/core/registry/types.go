package registry

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the fixed length of a content hash in bytes.
const HashSize = 32

// Identity is an opaque caller identity supplied by the hosting environment.
// The registry compares identities for equality and nothing else.
type Identity string

// Hash is a fixed-size content digest. The registry stores it verbatim and
// attaches no semantic interpretation to the bytes.
type Hash [HashSize]byte

// ParseHash decodes a hex-encoded content hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("got %d bytes: %w", len(raw), ErrInvalidHash)
	}
	copy(h[:], raw)
	return h, nil
}

// HashFromBytes converts a raw byte slice to a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, fmt.Errorf("got %d bytes: %w", len(b), ErrInvalidHash)
	}
	copy(h[:], b)
	return h, nil
}

// String returns the hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// VersionInfo is the immutable record stored per published version.
type VersionInfo struct {
	Hash      Hash
	Timestamp uint64
}

// PublishedVersion pairs a version number with its stored record, used when
// returning history in version order.
type PublishedVersion struct {
	Version uint64
	Info    VersionInfo
}
