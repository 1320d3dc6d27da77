package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shorturl-preview/internal/analytics"
	"github.com/serroba/shorturl-preview/internal/analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoop(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))
	ctx := context.Background()

	require.NoError(t, noop.SaveURLCreated(ctx, &analytics.URLCreatedEvent{
		Token:       "DXB8T",
		OriginalURL: "https://example.com/article",
		ContentHash: "0123456789abcdef0123456789abcdef",
		CreatedAt:   time.Now(),
		RequestID:   "req-1",
	}))
	require.NoError(t, noop.SaveURLAccessed(ctx, &analytics.URLAccessedEvent{
		Token:      "DXB8T",
		AccessedAt: time.Now(),
		Referrer:   "https://news.example.org",
	}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "url created", entries[0].Message)
	assert.Equal(t, "DXB8T", entries[0].ContextMap()["token"])
	assert.Equal(t, "url accessed", entries[1].Message)
	assert.Equal(t, "https://news.example.org", entries[1].ContextMap()["referrer"])
}
