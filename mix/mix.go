package mix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	initA uint32 = 0xdeadbeef
	initB uint32 = 0x41c6ce57

	multA uint32 = 2654435761
	multB uint32 = 1597334677

	finalA uint32 = 2246822507
	finalB uint32 = 3266489909
)

const (
	// Width is the number of base-36 digits used for each half of a fingerprint.
	Width = 7

	// Length is the total length of a fingerprint.
	Length = 2 * Width
)

// ErrMalformed is returned by Decode for strings that are not fingerprints.
var ErrMalformed = errors.New("malformed fingerprint")

// Sum hashes text with the given seed and returns the two accumulators in
// fingerprint order.
func Sum(text string, seed uint32) (uint32, uint32) {
	h1, h2 := initA^seed, initB^seed
	for _, r := range text {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h1, h2 = step(h1, h2, uint32(hi))
			h1, h2 = step(h1, h2, uint32(lo))
			continue
		}
		h1, h2 = step(h1, h2, uint32(r))
	}
	return finish(h1, h2)
}

// SumUnits is Sum over raw UTF-16 code units. Unlike Sum it can hash unpaired
// surrogates, which have no UTF-8 representation.
func SumUnits(units []uint16, seed uint32) (uint32, uint32) {
	h1, h2 := initA^seed, initB^seed
	for _, u := range units {
		h1, h2 = step(h1, h2, uint32(u))
	}
	return finish(h1, h2)
}

func step(h1, h2, unit uint32) (uint32, uint32) {
	return (h1 ^ unit) * multA, (h2 ^ unit) * multB
}

func finish(h1, h2 uint32) (uint32, uint32) {
	// h1 is finalized first and the updated h1 feeds h2's final fold.
	h1 = (h1 ^ (h1 >> 16)) * finalA
	h1 ^= (h2 ^ (h2 >> 13)) * finalB
	h2 = (h2 ^ (h2 >> 16)) * finalA
	h2 ^= (h1 ^ (h1 >> 13)) * finalB
	return h2, h1
}

// Fingerprint hashes text and renders the result with Encode.
func Fingerprint(text string, seed uint32) string {
	return Encode(Sum(text, seed))
}

// Encode renders a hash pair as a fixed-width fingerprint.
func Encode(a, b uint32) string {
	var sb strings.Builder
	sb.Grow(Length)
	writePadded(&sb, a)
	writePadded(&sb, b)
	return sb.String()
}

func writePadded(sb *strings.Builder, v uint32) {
	digits := strconv.FormatUint(uint64(v), 36)
	for i := len(digits); i < Width; i++ {
		sb.WriteByte('0')
	}
	sb.WriteString(digits)
}

// Decode parses a fingerprint produced by Encode back into its hash pair.
func Decode(fp string) (uint32, uint32, error) {
	if len(fp) != Length {
		return 0, 0, fmt.Errorf("%w: length %d, want %d", ErrMalformed, len(fp), Length)
	}
	for i := 0; i < len(fp); i++ {
		c := fp[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return 0, 0, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformed, c, i)
		}
	}

	a, err := strconv.ParseUint(fp[:Width], 36, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	b, err := strconv.ParseUint(fp[Width:], 36, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return uint32(a), uint32(b), nil
}
