package base62

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("fixed vectors", func(t *testing.T) {
		vectors := map[uint64]string{
			0:             "0",
			1:             "1",
			9:             "9",
			10:            "A",
			35:            "Z",
			36:            "a",
			61:            "z",
			62:            "10",
			100001:        "Q0v",
			123456789:     "8M0kX",
			math.MaxInt64: "AzL8n0Y58m7",
		}

		for v, want := range vectors {
			assert.Equal(t, want, Encode(v), "Encode(%d)", v)
		}
	})

	t.Run("codes from an increasing counter never repeat", func(t *testing.T) {
		seen := make(map[string]struct{})

		for v := uint64(100000); v < 102000; v++ {
			code := Encode(v)

			_, ok := seen[code]
			assert.False(t, ok, "duplicate code %q for %d", code, v)
			seen[code] = struct{}{}
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		v, err := Decode("")

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Zero(t, v)
	})

	t.Run("invalid symbol", func(t *testing.T) {
		for _, s := range []string{"abc-", "_", "ab cd", "Q0v!"} {
			v, err := Decode(s)

			var symErr *InvalidSymbolError
			assert.ErrorAs(t, err, &symErr, "Decode(%q)", s)
			assert.Zero(t, v)
		}
	})

	t.Run("value out of range", func(t *testing.T) {
		// one past Encode(math.MaxInt64)
		v, err := Decode("AzL8n0Y58m8")

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrValueOutOfRange)
		assert.Zero(t, v)
	})

	t.Run("success", func(t *testing.T) {
		v, err := Decode("8M0kX")

		require.NoError(t, err)
		assert.Equal(t, uint64(123456789), v)
	})
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		v := uint64(r.Int63n(math.MaxInt64)) + 1

		got, err := Decode(Encode(v))

		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode(uint64(i) + 100000)
	}
}
