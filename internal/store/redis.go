package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository and
// preview.Repository. Uniqueness of original URLs is claimed with HSETNX so
// it holds across service instances.
type RedisStore struct {
	client     *redis.Client
	seqKey     string // INCR counter for record ids
	prefix     string // "url:" + id -> record hash
	originals  string // original_url -> id (hash map)
	hashPrefix string // "url_hash:" + content hash -> set of ids
	previewKey string // "preview:" + id -> preview hash
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:     client,
		seqKey:     "url:seq",
		prefix:     "url:",
		originals:  "url_originals",
		hashPrefix: "url_hash:",
		previewKey: "preview:",
	}
}

func (r *RedisStore) Create(ctx context.Context, rec *shortener.Record) error {
	id, err := r.client.Incr(ctx, r.seqKey).Result()
	if err != nil {
		return err
	}

	createdAt := time.Now()
	key := r.recordKey(id)

	// Write the record before claiming the URL so a concurrent loser that
	// refetches by URL always finds a complete record.
	err = r.client.HSet(ctx, key, map[string]interface{}{
		"original_url":  rec.OriginalURL,
		"content_hash":  string(rec.ContentHash),
		"random_offset": rec.RandomOffset,
		"created_at":    createdAt.UnixNano(),
	}).Err()
	if err != nil {
		return err
	}

	claimed, err := r.client.HSetNX(ctx, r.originals, rec.OriginalURL, id).Result()
	if err != nil {
		_ = r.client.Del(ctx, key).Err()

		return err
	}

	if !claimed {
		_ = r.client.Del(ctx, key).Err()

		return shortener.ErrConflict
	}

	if err := r.client.SAdd(ctx, r.hashPrefix+string(rec.ContentHash), id).Err(); err != nil {
		return err
	}

	rec.ID = id
	rec.CreatedAt = createdAt

	return nil
}

func (r *RedisStore) FindByHash(ctx context.Context, hash shortener.ContentHash) ([]*shortener.Record, error) {
	members, err := r.client.SMembers(ctx, r.hashPrefix+string(hash)).Result()
	if err != nil {
		return nil, err
	}

	found := make([]*shortener.Record, 0, len(members))

	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}

		rec, err := r.GetByID(ctx, id)
		if errors.Is(err, shortener.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		found = append(found, rec)
	}

	return found, nil
}

func (r *RedisStore) GetByID(ctx context.Context, id int64) (*shortener.Record, error) {
	fields, err := r.client.HGetAll(ctx, r.recordKey(id)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	rec := &shortener.Record{
		ID:          id,
		OriginalURL: fields["original_url"],
		ContentHash: shortener.ContentHash(fields["content_hash"]),
	}

	if offset, err := strconv.Atoi(fields["random_offset"]); err == nil {
		rec.RandomOffset = offset
	}

	if nanos, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		rec.CreatedAt = time.Unix(0, nanos)
	}

	return rec, nil
}

func (r *RedisStore) GetByURL(ctx context.Context, originalURL string) (*shortener.Record, error) {
	id, err := r.client.HGet(ctx, r.originals, originalURL).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *RedisStore) GetPreview(ctx context.Context, recordID int64) (*preview.Data, error) {
	fields, err := r.client.HGetAll(ctx, r.previewKey+strconv.FormatInt(recordID, 10)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, preview.ErrNotFound
	}

	data := &preview.Data{
		Title:        fields["title"],
		Description:  fields["description"],
		CanonicalURL: fields["canonical_url"],
		ImageURL:     fields["image_url"],
	}

	if nanos, err := strconv.ParseInt(fields["last_refreshed"], 10, 64); err == nil {
		data.LastRefreshed = time.Unix(0, nanos)
	}

	return data, nil
}

func (r *RedisStore) SavePreview(ctx context.Context, recordID int64, data *preview.Data) error {
	return r.client.HSet(ctx, r.previewKey+strconv.FormatInt(recordID, 10), map[string]interface{}{
		"title":          data.Title,
		"description":    data.Description,
		"canonical_url":  data.CanonicalURL,
		"image_url":      data.ImageURL,
		"last_refreshed": data.LastRefreshed.UnixNano(),
	}).Err()
}

func (r *RedisStore) recordKey(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

var (
	_ shortener.Repository = (*RedisStore)(nil)
	_ preview.Repository   = (*RedisStore)(nil)
)
