package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider is the port for the byte-level cache backing response
// caching and the listing read-through cache.
type CacheProvider interface {
	// Get returns the cached value, or an error wrapping ErrCacheMiss
	// when the key is not present.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key for expirationSeconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
