package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// DeriveKey maps (version, question) to a fixed-length opaque cache key.
// The question goes in byte-for-byte - "Paris?" and "paris?" are distinct
// entries. Bumping the version makes every previously derived key
// unreachable without deleting anything.
func DeriveKey(version int64, question string) string {
	raw := strconv.FormatInt(version, 10) + ":" + question
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
