// Package cache stores computed artifacts keyed by the inputs that produced
// them.
//
// The CLI caches settled layouts: a layout is a pure function of the random
// graph parameters, the seed, the colorer and the simulation settings, and
// settling one takes seconds while reading it back takes microseconds.
//
// Two implementations are provided: [FileCache] keeps one JSON file per entry
// under a directory, and [NullCache] stores nothing. Keys are built with
// [Key], which hashes arbitrary JSON-encodable parts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key returns prefix + ":" + the SHA-256 of the JSON encoding of parts.
// Parts must be JSON-encodable; field order in structs is stable, so equal
// inputs give equal keys.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
