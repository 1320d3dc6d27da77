// Package preview extracts link preview metadata from web pages and keeps a
// refreshed copy per registered URL.
package preview

import (
	"context"
	"errors"
	"time"
)

// ErrNoData means no preview could be fetched and none was stored before.
var ErrNoData = errors.New("no preview data")

// ErrNotFound is returned by Repository.GetPreview when nothing is stored.
var ErrNotFound = errors.New("preview not found")

// Data is the preview metadata of one URL. Any field may be empty.
type Data struct {
	Title         string
	Description   string
	CanonicalURL  string
	ImageURL      string
	LastRefreshed time.Time
}

// Repository persists previews keyed by the owning record id.
type Repository interface {
	GetPreview(ctx context.Context, recordID int64) (*Data, error)
	// SavePreview inserts or replaces the preview of recordID.
	SavePreview(ctx context.Context, recordID int64, data *Data) error
}
