package shortener

import (
	"math/rand/v2"

	"github.com/serroba/shorturl-preview/internal/base62"
)

// Config holds the parameters of the public token transform.
//
// Decoding reduces modulo Stride, so two ids that differ by a multiple of
// Stride alias to the same token space. Stride must stay well above the
// largest id the service will ever assign.
type Config struct {
	Base        int64
	Stride      int64
	MinOffset   int
	MaxOffset   int
	TokenLength int
	MaxEncode   int64
}

// DefaultConfig returns the production parameters. Every public id of a
// record with id < Stride lands in [1e8+1, 8e8) and encodes to 5 symbols.
func DefaultConfig() Config {
	return Config{
		Base:        100_000_000,
		Stride:      100_000_000,
		MinOffset:   0,
		MaxOffset:   6,
		TokenLength: base62.DefaultMaxLen,
		MaxEncode:   base62.MaxEncode,
	}
}

// OffsetSource draws a random offset in [min, max].
type OffsetSource func(min, max int) int

// RandomOffset draws uniformly with math/rand/v2.
func RandomOffset(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

// FixedOffset always returns n.
func FixedOffset(n int) OffsetSource {
	return func(_, _ int) int { return n }
}

// Obfuscator maps record ids to public tokens and back.
type Obfuscator struct {
	cfg    Config
	codec  base62.Codec
	offset OffsetSource
}

// ObfuscatorOption configures an Obfuscator.
type ObfuscatorOption func(*Obfuscator)

// WithOffsetSource replaces the random offset source.
func WithOffsetSource(src OffsetSource) ObfuscatorOption {
	return func(o *Obfuscator) {
		o.offset = src
	}
}

// NewObfuscator creates an obfuscator for cfg.
func NewObfuscator(cfg Config, opts ...ObfuscatorOption) *Obfuscator {
	o := &Obfuscator{
		cfg:    cfg,
		codec:  base62.Codec{MaxEncode: cfg.MaxEncode, MaxLen: cfg.TokenLength},
		offset: RandomOffset,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// TokenLength is the exact length of every valid token.
func (o *Obfuscator) TokenLength() int {
	return o.cfg.TokenLength
}

// DrawOffset picks the offset band for a new record.
func (o *Obfuscator) DrawOffset() int {
	return o.offset(o.cfg.MinOffset, o.cfg.MaxOffset)
}

// PublicID is id + Base + offset*Stride.
func (o *Obfuscator) PublicID(rec *Record) int64 {
	return rec.ID + o.cfg.Base + int64(rec.RandomOffset)*o.cfg.Stride
}

// Token encodes the public id of rec.
func (o *Obfuscator) Token(rec *Record) (string, error) {
	return o.codec.Encode(o.PublicID(rec))
}

// DecodeToken recovers the record id from a token regardless of the offset
// band it was issued in.
func (o *Obfuscator) DecodeToken(token string) (int64, error) {
	raw, err := o.codec.Decode(token)
	if err != nil {
		return 0, err
	}

	id := (raw - o.cfg.Base) % o.cfg.Stride
	if id < 0 {
		id += o.cfg.Stride
	}

	return id, nil
}
