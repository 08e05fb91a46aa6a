// Package base62 converts between non-negative integers and their base-62
// string representation. The alphabet is ordered digits, then uppercase, then
// lowercase, so codes produced from an increasing counter never repeat and
// need no URL escaping.
package base62

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(alphabet))

var (
	// ErrEmptyInput is returned by Decode for an empty string.
	ErrEmptyInput = errors.New("empty input")
	// ErrValueOutOfRange is returned by Decode when the input encodes a value
	// larger than math.MaxInt64, the counter's range.
	ErrValueOutOfRange = errors.New("value out of range")
)

// InvalidSymbolError is returned by Decode when the input contains a character
// outside the base-62 alphabet.
type InvalidSymbolError struct {
	Symbol byte
	Pos    int
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %q at position %d", e.Symbol, e.Pos)
}

// Encode converts v to its base-62 representation, most significant symbol
// first, with no padding. Encode(0) returns "0": the divide loop alone would
// produce an empty string, which is never a valid short code.
func Encode(v uint64) string {
	if v == 0 {
		return string(alphabet[0])
	}

	var sb strings.Builder
	for v > 0 {
		sb.WriteByte(alphabet[v%base])
		v /= base
	}

	return reverse(sb.String())
}

// Decode is the inverse of Encode. It accepts a non-empty string over the
// base-62 alphabet and returns the encoded integer. Values above
// math.MaxInt64 are rejected so that Decode(Encode(v)) == v holds exactly on
// the counter's range.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyInput
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		pos := strings.IndexByte(alphabet, s[i])
		if pos < 0 {
			return 0, &InvalidSymbolError{Symbol: s[i], Pos: i}
		}

		if v > (math.MaxInt64-uint64(pos))/base {
			return 0, ErrValueOutOfRange
		}
		v = v*base + uint64(pos)
	}

	return v, nil
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
