// Package base62 converts bounded positive integers to and from strings over a
// 62 symbol alphabet.
package base62

import (
	"errors"
	"fmt"
)

// Alphabet is digits, then uppercase letters, then lowercase letters.
// Tokens already handed out depend on this order; never change it.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	// MaxEncode is the default ceiling for Encode.
	MaxEncode int64 = 800_000_000
	// DefaultMaxLen is the default longest string accepted by Decode.
	DefaultMaxLen = 5

	// 62^10 still fits in an int64, 62^11 does not.
	maxDecodeLen = 10
	radix        = int64(len(Alphabet))
)

// ErrInvalidInput is returned for numbers or strings outside the codec domain.
var ErrInvalidInput = errors.New("invalid base62 input")

var reverse = buildReverse()

func buildReverse() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}

	for i := 0; i < len(Alphabet); i++ {
		table[Alphabet[i]] = int8(i)
	}

	return table
}

// Codec holds the configured bounds of the encoding.
type Codec struct {
	MaxEncode int64
	MaxLen    int
}

// Default is the codec used by the package level functions.
var Default = Codec{MaxEncode: MaxEncode, MaxLen: DefaultMaxLen}

// Encode returns the shortest base62 representation of n, most significant
// symbol first. n must be in [1, MaxEncode].
func (c Codec) Encode(n int64) (string, error) {
	if n < 1 || n > c.MaxEncode {
		return "", fmt.Errorf("%w: number must be in range 1 to %d, got %d", ErrInvalidInput, c.MaxEncode, n)
	}

	var buf [maxDecodeLen + 1]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%radix]
		n /= radix
	}

	return string(buf[i:]), nil
}

// Decode parses s, which must hold between 1 and c.MaxLen alphabet symbols.
func (c Codec) Decode(s string) (int64, error) {
	maxLen := c.MaxLen
	if maxLen > maxDecodeLen {
		maxLen = maxDecodeLen
	}

	if len(s) < 1 || len(s) > maxLen {
		return 0, fmt.Errorf("%w: string length must be in range 1 to %d, got %d", ErrInvalidInput, maxLen, len(s))
	}

	var n int64

	for i := 0; i < len(s); i++ {
		v := reverse[s[i]]
		if v < 0 {
			return 0, fmt.Errorf("%w: character %q at position %d is not in the alphabet", ErrInvalidInput, s[i], i)
		}

		n = n*radix + int64(v)
	}

	return n, nil
}

// Encode encodes n with the default ceiling.
func Encode(n int64) (string, error) {
	return Default.Encode(n)
}

// Decode decodes s accepting at most maxLen symbols.
func Decode(s string, maxLen int) (int64, error) {
	return Codec{MaxEncode: Default.MaxEncode, MaxLen: maxLen}.Decode(s)
}
