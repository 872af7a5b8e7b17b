// Package contenthash computes the cheap, non-cryptographic digest used to key
// the extraction cache.
//
// The digest is DJB2 in its xor form: seed 5381, and for each UTF-16 code unit
// h = (h*33) ^ unit in unsigned 32-bit arithmetic. The result is rendered as
// lowercase hex without padding. Hashing over UTF-16 units keeps digests stable
// for text that was hashed by browser clients before being stored.
package contenthash

import (
	"strconv"
	"unicode/utf16"
)

const seed uint32 = 5381

// Sum returns the hex digest of text.
func Sum(text string) string {
	return strconv.FormatUint(uint64(Sum32(text)), 16)
}

// Sum32 returns the raw 32-bit digest of text.
func Sum32(text string) uint32 {
	h := seed
	for _, unit := range utf16.Encode([]rune(text)) {
		h = (h * 33) ^ uint32(unit)
	}
	return h
}
