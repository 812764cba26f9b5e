package fencecache

import "github.com/alnah/go-fencecache/internal/rendercache"

// Cache is a content-addressed store of rendered markup, safe for concurrent
// use. Open one with OpenCache and Close it on shutdown to persist new entries.
type Cache = rendercache.Cache

// CacheOptions configures OpenCache.
type CacheOptions = rendercache.Options

// CacheStats is a point-in-time view of cache usage.
type CacheStats = rendercache.Stats

// Backend selects how a cache is persisted.
type Backend = rendercache.Backend

// Persistence backends.
const (
	BackendFile   = rendercache.BackendFile   // one msgpack snapshot, replaced atomically
	BackendBolt   = rendercache.BackendBolt   // bbolt database, incremental writes
	BackendMemory = rendercache.BackendMemory // never persisted
)

// OpenCache loads the cache persisted under opts.Dir.
// It never fails: a missing or corrupt snapshot starts an empty cache, and an
// unusable directory keeps the cache in memory for the process lifetime.
func OpenCache(opts CacheOptions) *Cache {
	return rendercache.Open(opts)
}

// NewMemoryCache returns a cache that is never persisted.
func NewMemoryCache() *Cache {
	return rendercache.NewMemory()
}

// DefaultCacheDir returns the per-user cache directory used by the CLI.
func DefaultCacheDir() string {
	return rendercache.DefaultDir()
}

// ParseBackend validates a backend name. Empty selects BackendFile.
func ParseBackend(s string) (Backend, error) {
	return rendercache.ParseBackend(s)
}

// Fingerprint returns the cache key for a block. language should already be
// normalized and themeContext should include the block meta; Rewrite does both.
func Fingerprint(code, language, themeContext string) string {
	return rendercache.Fingerprint(code, language, themeContext)
}
