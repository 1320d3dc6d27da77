package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository and
// preview.Repository. Ids start at 1 and increase by one per record.
type MemoryStore struct {
	mu       sync.RWMutex
	lastID   int64
	records  map[int64]shortener.Record
	byURL    map[string]int64
	byHash   map[shortener.ContentHash][]int64
	previews map[int64]preview.Data
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[int64]shortener.Record),
		byURL:    make(map[string]int64),
		byHash:   make(map[shortener.ContentHash][]int64),
		previews: make(map[int64]preview.Data),
	}
}

func (m *MemoryStore) Create(_ context.Context, rec *shortener.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byURL[rec.OriginalURL]; ok {
		return shortener.ErrConflict
	}

	m.lastID++
	rec.ID = m.lastID
	rec.CreatedAt = time.Now()

	m.records[rec.ID] = *rec
	m.byURL[rec.OriginalURL] = rec.ID
	m.byHash[rec.ContentHash] = append(m.byHash[rec.ContentHash], rec.ID)

	return nil
}

func (m *MemoryStore) FindByHash(_ context.Context, hash shortener.ContentHash) ([]*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byHash[hash]
	found := make([]*shortener.Record, 0, len(ids))

	for _, id := range ids {
		rec := m.records[id]
		found = append(found, &rec)
	}

	return found, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int64) (*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &rec, nil
}

func (m *MemoryStore) GetByURL(_ context.Context, originalURL string) (*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byURL[originalURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	rec := m.records[id]

	return &rec, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

func (m *MemoryStore) GetPreview(_ context.Context, recordID int64) (*preview.Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.previews[recordID]
	if !ok {
		return nil, preview.ErrNotFound
	}

	return &data, nil
}

func (m *MemoryStore) SavePreview(_ context.Context, recordID int64, data *preview.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[recordID]; !ok {
		return shortener.ErrNotFound
	}

	m.previews[recordID] = *data

	return nil
}

var (
	_ shortener.Repository = (*MemoryStore)(nil)
	_ preview.Repository   = (*MemoryStore)(nil)
)
