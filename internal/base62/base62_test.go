package base62_test

import (
	"testing"

	"github.com/serroba/shorturl-preview/internal/base62"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "one", input: 1, expected: "1"},
		{name: "last single symbol", input: 61, expected: "z"},
		{name: "first two symbol value", input: 62, expected: "10"},
		{name: "largest two symbols", input: 3843, expected: "zz"},
		{name: "first five symbol value", input: 14776336, expected: "10000"},
		{name: "large id", input: 123456789, expected: "8M0kX"},
		{name: "ceiling", input: base62.MaxEncode, expected: "s8iXo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base62.Encode(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncode_InvalidInput(t *testing.T) {
	for _, n := range []int64{0, -1, -123456789, base62.MaxEncode + 1, 8_000_000_001} {
		got, err := base62.Encode(n)

		assert.Empty(t, got)
		assert.ErrorIs(t, err, base62.ErrInvalidInput, "n=%d", n)
	}
}

func TestCodec_CustomCeiling(t *testing.T) {
	c := base62.Codec{MaxEncode: 100, MaxLen: 2}

	_, err := c.Encode(101)
	require.ErrorIs(t, err, base62.ErrInvalidInput)

	s, err := c.Encode(100)
	require.NoError(t, err)
	assert.Equal(t, "1c", s)

	_, err = c.Decode("100")
	assert.ErrorIs(t, err, base62.ErrInvalidInput)
}

func TestDecode(t *testing.T) {
	t.Run("decodes known value", func(t *testing.T) {
		n, err := base62.Decode("8M0kX", base62.DefaultMaxLen)

		require.NoError(t, err)
		assert.Equal(t, int64(123456789), n)
	})

	t.Run("leading zero symbols are accepted", func(t *testing.T) {
		n, err := base62.Decode("0001", base62.DefaultMaxLen)

		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := base62.Decode("", base62.DefaultMaxLen)

		assert.ErrorIs(t, err, base62.ErrInvalidInput)
	})

	t.Run("rejects strings over max length", func(t *testing.T) {
		_, err := base62.Decode("abcdefg", base62.DefaultMaxLen)

		assert.ErrorIs(t, err, base62.ErrInvalidInput)
	})

	t.Run("rejects characters outside the alphabet", func(t *testing.T) {
		for _, s := range []string{"ab-cd", "a b", "é", "abc_"} {
			_, err := base62.Decode(s, base62.DefaultMaxLen)

			assert.ErrorIs(t, err, base62.ErrInvalidInput, "s=%q", s)
		}
	})

	t.Run("caps max length so results fit in int64", func(t *testing.T) {
		_, err := base62.Decode("zzzzzzzzzzz", 20)

		assert.ErrorIs(t, err, base62.ErrInvalidInput)

		n, err := base62.Decode("zzzzzzzzzz", 20)

		require.NoError(t, err)
		assert.Positive(t, n)
	})
}

func TestRoundTrip(t *testing.T) {
	values := []int64{1, 2, 61, 62, 63, 3843, 3844, 238327, 100_000_001, 123456789, 423456789, base62.MaxEncode}
	for n := int64(1); n < 5000; n += 7 {
		values = append(values, n)
	}

	for _, n := range values {
		s, err := base62.Encode(n)
		require.NoError(t, err)

		got, err := base62.Decode(s, base62.DefaultMaxLen)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
