package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/shortener"
	"github.com/serroba/shorturl-preview/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Create(t *testing.T) {
	t.Run("assigns sequential ids", func(t *testing.T) {
		s := store.NewMemoryStore()

		first := &shortener.Record{OriginalURL: "https://example.com/1", ContentHash: "h1"}
		second := &shortener.Record{OriginalURL: "https://example.com/2", ContentHash: "h2"}

		require.NoError(t, s.Create(context.Background(), first))
		require.NoError(t, s.Create(context.Background(), second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate original url", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), &shortener.Record{OriginalURL: "https://example.com", ContentHash: "h"})

		err := s.Create(context.Background(), &shortener.Record{OriginalURL: "https://example.com", ContentHash: "h"})

		assert.ErrorIs(t, err, shortener.ErrConflict)
		assert.Equal(t, 1, s.Count())
	})
}

func TestMemoryStore_FindByHash(t *testing.T) {
	t.Run("returns every record sharing the hash", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), &shortener.Record{OriginalURL: "https://a.com", ContentHash: "same"})
		_ = s.Create(context.Background(), &shortener.Record{OriginalURL: "https://b.com", ContentHash: "same"})
		_ = s.Create(context.Background(), &shortener.Record{OriginalURL: "https://c.com", ContentHash: "other"})

		found, err := s.FindByHash(context.Background(), "same")

		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "https://a.com", found[0].OriginalURL)
		assert.Equal(t, "https://b.com", found[1].OriginalURL)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		s := store.NewMemoryStore()

		found, err := s.FindByHash(context.Background(), "missing")

		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestMemoryStore_Get(t *testing.T) {
	s := store.NewMemoryStore()
	rec := &shortener.Record{OriginalURL: "https://example.com", ContentHash: "h", RandomOffset: 3}
	require.NoError(t, s.Create(context.Background(), rec))

	t.Run("by id", func(t *testing.T) {
		got, err := s.GetByID(context.Background(), rec.ID)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.Equal(t, 3, got.RandomOffset)
	})

	t.Run("by url", func(t *testing.T) {
		got, err := s.GetByURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		got, err := s.GetByID(context.Background(), 999)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown url", func(t *testing.T) {
		got, err := s.GetByURL(context.Background(), "https://missing.com")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		got, _ := s.GetByID(context.Background(), rec.ID)
		got.OriginalURL = "mutated"

		again, _ := s.GetByID(context.Background(), rec.ID)
		assert.Equal(t, "https://example.com", again.OriginalURL)
	})
}

func TestMemoryStore_Previews(t *testing.T) {
	s := store.NewMemoryStore()
	rec := &shortener.Record{OriginalURL: "https://example.com", ContentHash: "h"}
	require.NoError(t, s.Create(context.Background(), rec))

	t.Run("returns ErrNotFound before first save", func(t *testing.T) {
		_, err := s.GetPreview(context.Background(), rec.ID)

		assert.ErrorIs(t, err, preview.ErrNotFound)
	})

	t.Run("save replaces the stored preview", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, s.SavePreview(context.Background(), rec.ID, &preview.Data{Title: "old", LastRefreshed: now}))
		require.NoError(t, s.SavePreview(context.Background(), rec.ID, &preview.Data{Title: "new", LastRefreshed: now}))

		got, err := s.GetPreview(context.Background(), rec.ID)

		require.NoError(t, err)
		assert.Equal(t, "new", got.Title)
	})

	t.Run("rejects previews for unknown records", func(t *testing.T) {
		err := s.SavePreview(context.Background(), 42, &preview.Data{})

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
