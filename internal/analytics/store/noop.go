package store

import (
	"context"

	"github.com/serroba/shorturl-preview/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs the events it receives.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	n.logger.Info("url created",
		zap.String("token", event.Token),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("contentHash", event.ContentHash),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

func (n *Noop) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	n.logger.Info("url accessed",
		zap.String("token", event.Token),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

var _ analytics.Store = (*Noop)(nil)
