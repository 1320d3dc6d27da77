package shortener

import "context"

// Repository persists records. Implementations must enforce uniqueness of
// OriginalURL across all service instances.
type Repository interface {
	// Create assigns an ID and CreatedAt to rec and stores it.
	// Returns ErrConflict if a record with the same OriginalURL exists.
	Create(ctx context.Context, rec *Record) error

	// FindByHash returns every record sharing the content hash, possibly none.
	FindByHash(ctx context.Context, hash ContentHash) ([]*Record, error)

	// GetByID returns ErrNotFound if no record has the id.
	GetByID(ctx context.Context, id int64) (*Record, error)

	// GetByURL returns ErrNotFound if no record has the original URL.
	GetByURL(ctx context.Context, originalURL string) (*Record, error)
}

// Cache maps short tokens to original URLs. Entries are never invalidated
// because original URLs are immutable.
type Cache interface {
	// Get returns ErrNotFound on a miss.
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, originalURL string) error
}
