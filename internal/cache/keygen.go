package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Fingerprint derives the cache key for an agent query. The same
// (query, model, temperature) triple always yields the same key, and any
// change to one of the three fields yields a different key. The digest
// is truncated to 16 hex characters, which is plenty for a cache bounded
// in the low thousands of entries.
func Fingerprint(query, model string, temperature float64) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{'|'})
	h.Write([]byte(model))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatFloat(temperature, 'g', -1, 64)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
