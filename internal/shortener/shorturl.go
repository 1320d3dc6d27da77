package shortener

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ContentHashLength is the number of hex characters kept from the URL digest.
const ContentHashLength = 32

// ContentHash represents a truncated digest of an original URL. Distinct URLs may share one.
type ContentHash string

// Record is a registered original URL.
type Record struct {
	ID           int64
	OriginalURL  string
	ContentHash  ContentHash
	RandomOffset int
	CreatedAt    time.Time
}

// Registered pairs a record with its public short token.
type Registered struct {
	Record *Record
	Token  string
	// Created is set when this call stored the record.
	Created bool
}

// HashURL computes the content hash of a URL: the first ContentHashLength hex
// characters of its SHA-256 digest.
func HashURL(rawURL string) ContentHash {
	h := sha256.Sum256([]byte(rawURL))

	return ContentHash(hex.EncodeToString(h[:])[:ContentHashLength])
}
