package shortener_test

import (
	"context"
	"sync"
	"testing"

	"github.com/serroba/shorturl-preview/internal/base62"
	"github.com/serroba/shorturl-preview/internal/shortener"
	"github.com/serroba/shorturl-preview/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(s shortener.Repository, opts ...shortener.RegistryOption) *shortener.Registry {
	o := shortener.NewObfuscator(shortener.DefaultConfig(), shortener.WithOffsetSource(shortener.FixedOffset(1)))

	return shortener.NewRegistry(s, o, opts...)
}

func constantHash(string) shortener.ContentHash {
	return "collide"
}

func TestHashURL(t *testing.T) {
	h := shortener.HashURL("https://www.google.com")

	assert.Len(t, string(h), shortener.ContentHashLength)
	assert.Equal(t, h, shortener.HashURL("https://www.google.com"))
	assert.NotEqual(t, h, shortener.HashURL("https://www.google.com/"))
}

func TestRegistry_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("first records get consecutive ids in the forced band", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		registry := newRegistry(memStore)

		first, err := registry.FindOrCreate(ctx, "https://www.google.com")
		require.NoError(t, err)

		want, _ := base62.Encode(2*100_000_000 + 1)
		assert.Equal(t, want, first.Token)
		assert.Equal(t, "DXB8T", first.Token)
		assert.Equal(t, int64(1), first.Record.ID)
		assert.Equal(t, 1, first.Record.RandomOffset)

		second, err := registry.FindOrCreate(ctx, "https://www.google.com/?key=value")
		require.NoError(t, err)

		want, _ = base62.Encode(2*100_000_000 + 2)
		assert.Equal(t, want, second.Token)
		assert.Equal(t, 2, memStore.Count())
	})

	t.Run("is idempotent for the same url", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		registry := newRegistry(memStore)

		first, err1 := registry.FindOrCreate(ctx, "https://example.com")
		second, err2 := registry.FindOrCreate(ctx, "https://example.com")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first.Record.ID, second.Record.ID)
		assert.Equal(t, first.Token, second.Token)
		assert.True(t, first.Created)
		assert.False(t, second.Created)
		assert.Equal(t, 1, memStore.Count())
	})

	t.Run("keeps the stored offset of an existing record", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		rec := &shortener.Record{
			OriginalURL:  "https://example.com",
			ContentHash:  shortener.HashURL("https://example.com"),
			RandomOffset: 5,
		}
		require.NoError(t, memStore.Create(ctx, rec))

		got, err := newRegistry(memStore).FindOrCreate(ctx, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, 5, got.Record.RandomOffset)
	})

	t.Run("urls sharing a hash are stored separately", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		registry := newRegistry(memStore, shortener.WithHasher(constantHash))

		a, err := registry.FindOrCreate(ctx, "https://a.example.com")
		require.NoError(t, err)

		b, err := registry.FindOrCreate(ctx, "https://b.example.com")
		require.NoError(t, err)

		c, err := registry.FindOrCreate(ctx, "https://c.example.com")
		require.NoError(t, err)

		again, err := registry.FindOrCreate(ctx, "https://b.example.com")
		require.NoError(t, err)

		assert.NotEqual(t, a.Record.ID, b.Record.ID)
		assert.NotEqual(t, b.Record.ID, c.Record.ID)
		assert.Equal(t, b.Record.ID, again.Record.ID)
		assert.Equal(t, 3, memStore.Count())

		resolver := shortener.NewResolver(memStore, shortener.NewObfuscator(shortener.DefaultConfig()), nil, zap.NewNop())

		for _, r := range []*shortener.Registered{a, b, c} {
			url, err := resolver.Resolve(ctx, r.Token)

			require.NoError(t, err)
			assert.Equal(t, r.Record.OriginalURL, url)
		}
	})

	t.Run("returns the winner when a concurrent create conflicts", func(t *testing.T) {
		winner := &shortener.Record{ID: 7, OriginalURL: "https://example.com", RandomOffset: 0}
		racing := &racingStore{winner: winner}

		got, err := newRegistry(racing).FindOrCreate(ctx, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Record.ID)
		assert.False(t, got.Created)
		assert.Equal(t, 1, racing.createCalls)
		assert.Equal(t, 1, racing.getURLCalls, "refetches exactly once")
	})

	t.Run("fails when the refetch after a conflict fails", func(t *testing.T) {
		racing := &racingStore{}

		got, err := newRegistry(racing).FindOrCreate(ctx, "https://example.com")

		assert.Nil(t, got)
		require.ErrorIs(t, err, shortener.ErrNotFound)
		assert.Equal(t, 1, racing.createCalls)
		assert.Equal(t, 1, racing.getURLCalls)
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		got, err := newRegistry(&failingStore{findErr: errMock}).FindOrCreate(ctx, "https://example.com")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, errMock)
	})

	t.Run("propagates create errors", func(t *testing.T) {
		got, err := newRegistry(&failingStore{createErr: errMock}).FindOrCreate(ctx, "https://example.com")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, errMock)
	})

	t.Run("concurrent callers share one record", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		registry := newRegistry(memStore)

		var wg sync.WaitGroup

		tokens := make([]string, 16)
		for i := range tokens {
			wg.Add(1)

			go func() {
				defer wg.Done()

				got, err := registry.FindOrCreate(ctx, "https://example.com/race")
				if assert.NoError(t, err) {
					tokens[i] = got.Token
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, memStore.Count())

		for _, token := range tokens {
			assert.Equal(t, tokens[0], token)
		}
	})
}
