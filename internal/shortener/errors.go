package shortener

import (
	"errors"

	"github.com/serroba/shorturl-preview/internal/base62"
)

var (
	// ErrInvalidInput reports a malformed token or number.
	ErrInvalidInput = base62.ErrInvalidInput
	// ErrNotFound reports a token or URL with no matching record.
	ErrNotFound = errors.New("url not found")
	// ErrConflict is returned by Repository.Create when original_url is already stored.
	ErrConflict = errors.New("url already exists")
	// ErrDuplicateCandidate means records share the content hash but none has the requested URL.
	ErrDuplicateCandidate = errors.New("content hash matches a different url")
)
