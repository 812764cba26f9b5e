package rendercache

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// KeySize is the length in characters of a fingerprint.
const KeySize = 64

// Fingerprint derives the cache key for a rendered block.
// Each field is length-prefixed before hashing, so no choice of separators
// inside code, language or theme context can make two distinct triples
// collide on their encoding.
func Fingerprint(code, language, themeContext string) string {
	h := blake3.New()
	writeField(h, code)
	writeField(h, language)
	writeField(h, themeContext)

	var sum [32]byte
	h.Sum(sum[:0])
	return hex.EncodeToString(sum[:])
}

func writeField(h *blake3.Hasher, s string) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(s)))
	_, _ = h.Write(prefix[:n])
	_, _ = h.Write([]byte(s))
}

// ThemeContext combines the renderer's visual signature with a block's meta
// string. Meta changes the output (titles, marked lines, frames), so it is
// part of the cache identity. The theme is length-prefixed so every
// (theme, meta) pair maps to a distinct context.
func ThemeContext(theme, meta string) string {
	return strconv.Itoa(len(theme)) + ":" + theme + meta
}
