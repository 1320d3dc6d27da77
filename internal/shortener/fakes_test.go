package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shorturl-preview/internal/shortener"
)

var errMock = errors.New("mock error")

// racingStore hides the winner from the first hash lookup and rejects the
// create, as if another instance inserted the URL in between.
type racingStore struct {
	winner      *shortener.Record
	createCalls int
	getURLCalls int
}

func (r *racingStore) Create(_ context.Context, _ *shortener.Record) error {
	r.createCalls++

	return shortener.ErrConflict
}

func (r *racingStore) FindByHash(_ context.Context, _ shortener.ContentHash) ([]*shortener.Record, error) {
	return nil, nil
}

func (r *racingStore) GetByID(_ context.Context, _ int64) (*shortener.Record, error) {
	return r.winner, nil
}

func (r *racingStore) GetByURL(_ context.Context, _ string) (*shortener.Record, error) {
	r.getURLCalls++
	if r.winner == nil {
		return nil, shortener.ErrNotFound
	}

	return r.winner, nil
}

// failingStore returns configured errors.
type failingStore struct {
	findErr   error
	createErr error
	getErr    error
}

func (f *failingStore) Create(_ context.Context, rec *shortener.Record) error {
	if f.createErr != nil {
		return f.createErr
	}

	rec.ID = 1

	return nil
}

func (f *failingStore) FindByHash(_ context.Context, _ shortener.ContentHash) ([]*shortener.Record, error) {
	return nil, f.findErr
}

func (f *failingStore) GetByID(_ context.Context, _ int64) (*shortener.Record, error) {
	return nil, f.getErr
}

func (f *failingStore) GetByURL(_ context.Context, _ string) (*shortener.Record, error) {
	return nil, f.getErr
}

// mapCache is a shortener.Cache backed by a map.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, token string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++

	if c.getErr != nil {
		return "", c.getErr
	}

	url, ok := c.entries[token]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return url, nil
}

func (c *mapCache) Set(_ context.Context, token, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++

	if c.setErr != nil {
		return c.setErr
	}

	c.entries[token] = url

	return nil
}
