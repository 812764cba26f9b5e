package rendercache

import "errors"

// Sentinel errors for cache persistence.
var (
	ErrCorruptSnapshot = errors.New("cache snapshot is corrupt")
	ErrSnapshotVersion = errors.New("cache snapshot has unsupported format version")
	ErrCacheWrite      = errors.New("failed to persist cache")
	ErrStoreLocked     = errors.New("cache store is locked by another process")
	ErrUnknownBackend  = errors.New("unknown cache backend")
	ErrStoreClosed     = errors.New("cache store is closed")
)
