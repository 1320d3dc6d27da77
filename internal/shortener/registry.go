package shortener

import (
	"context"
	"errors"
	"fmt"
)

// Registry finds or creates the single record for a URL.
type Registry struct {
	store      Repository
	obfuscator *Obfuscator
	hash       func(string) ContentHash
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithHasher replaces HashURL as the content hash function.
func WithHasher(hash func(string) ContentHash) RegistryOption {
	return func(r *Registry) {
		r.hash = hash
	}
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store Repository, obfuscator *Obfuscator, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:      store,
		obfuscator: obfuscator,
		hash:       HashURL,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindOrCreate returns the record whose OriginalURL equals rawURL exactly,
// creating it if needed. Existing records are never modified.
func (r *Registry) FindOrCreate(ctx context.Context, rawURL string) (*Registered, error) {
	hash := r.hash(rawURL)

	candidates, err := r.store.FindByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}

	existing, err := selectCandidate(candidates, rawURL)
	if err == nil {
		return r.register(existing)
	}

	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicateCandidate) {
		return nil, err
	}

	rec := &Record{
		OriginalURL:  rawURL,
		ContentHash:  hash,
		RandomOffset: r.obfuscator.DrawOffset(),
	}

	err = r.store.Create(ctx, rec)
	if errors.Is(err, ErrConflict) {
		// Another writer stored the same URL between lookup and create.
		winner, getErr := r.store.GetByURL(ctx, rawURL)
		if getErr != nil {
			return nil, fmt.Errorf("refetch after conflict: %w", getErr)
		}

		return r.register(winner)
	}

	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	registered, err := r.register(rec)
	if err != nil {
		return nil, err
	}

	registered.Created = true

	return registered, nil
}

// Register derives the token of an already stored record.
func (r *Registry) Register(rec *Record) (*Registered, error) {
	return r.register(rec)
}

func (r *Registry) register(rec *Record) (*Registered, error) {
	token, err := r.obfuscator.Token(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %d: %w", rec.ID, err)
	}

	return &Registered{Record: rec, Token: token}, nil
}

// selectCandidate picks the exact URL match among records sharing a hash.
func selectCandidate(candidates []*Record, rawURL string) (*Record, error) {
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}

	for _, c := range candidates {
		if c.OriginalURL == rawURL {
			return c, nil
		}
	}

	return nil, ErrDuplicateCandidate
}
