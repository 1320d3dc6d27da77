package analytics

import "time"

const (
	TopicURLCreated  = "url.created"
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a submission creates a new short URL.
// Submissions that return an existing record do not emit it.
type URLCreatedEvent struct {
	Token       string    `json:"token"`
	OriginalURL string    `json:"originalUrl"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	RequestID   string    `json:"requestId,omitempty"`
}

// URLAccessedEvent is emitted for every successful redirect.
type URLAccessedEvent struct {
	Token      string    `json:"token"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
}
