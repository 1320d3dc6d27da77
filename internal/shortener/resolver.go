package shortener

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Resolver turns public tokens back into original URLs.
type Resolver struct {
	store      Repository
	obfuscator *Obfuscator
	cache      Cache
	logger     *zap.Logger
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(store Repository, obfuscator *Obfuscator, cache Cache, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:      store,
		obfuscator: obfuscator,
		cache:      cache,
		logger:     logger,
	}
}

// Resolve returns the original URL for token. Malformed and unknown tokens
// both yield ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, token string) (string, error) {
	if len(token) != r.obfuscator.TokenLength() {
		return "", ErrNotFound
	}

	if r.cache != nil {
		if url, err := r.cache.Get(ctx, token); err == nil {
			return url, nil
		} else if !errors.Is(err, ErrNotFound) {
			r.logger.Debug("cache read failed", zap.String("token", token), zap.Error(err))
		}
	}

	rec, err := r.lookup(ctx, token)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, token, rec.OriginalURL); err != nil {
			r.logger.Debug("cache write failed", zap.String("token", token), zap.Error(err))
		}
	}

	return rec.OriginalURL, nil
}

// Lookup returns the record behind token along with its canonical token,
// bypassing the cache.
func (r *Resolver) Lookup(ctx context.Context, token string) (*Registered, error) {
	if len(token) != r.obfuscator.TokenLength() {
		return nil, ErrNotFound
	}

	rec, err := r.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	canonical, err := r.obfuscator.Token(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %d: %w", rec.ID, err)
	}

	return &Registered{Record: rec, Token: canonical}, nil
}

func (r *Resolver) lookup(ctx context.Context, token string) (*Record, error) {
	id, err := r.obfuscator.DecodeToken(token)
	if err != nil {
		return nil, ErrNotFound
	}

	if id <= 0 {
		return nil, ErrNotFound
	}

	rec, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get by id: %w", err)
	}

	return rec, nil
}
