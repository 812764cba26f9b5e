package rendercache

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatVersion identifies the persisted layout. Snapshots written with a
// different version are discarded on load.
const FormatVersion = 1

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendMemory Backend = "memory"
)

// Well-known file names inside the cache directory.
const (
	SnapshotFileName = "render-cache.msgpack"
	BoltFileName     = "render-cache.db"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendFile, BackendBolt, BackendMemory}

// ParseBackend validates a backend name. Empty selects BackendFile.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendBolt, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q (must be file, bolt, or memory)", ErrUnknownBackend, s)
	}
}

// Path returns the store location for backend inside dir.
// BackendMemory has no location.
func (b Backend) Path(dir string) string {
	switch b {
	case BackendFile:
		return filepath.Join(dir, SnapshotFileName)
	case BackendBolt:
		return filepath.Join(dir, BoltFileName)
	default:
		return ""
	}
}

// Snapshot is what a flush hands to a Store.
type Snapshot struct {
	All   map[string]string // every entry currently cached
	Added map[string]string // entries inserted since the previous successful flush
}

// Store persists cache entries across processes.
type Store interface {
	// Load returns every persisted entry. A store with nothing persisted
	// returns an empty map and no error.
	Load() (map[string]string, error)

	// Write persists the snapshot. Implementations pick the part they need.
	Write(s Snapshot) error

	// Reset drops every persisted entry.
	Reset() error

	// Close releases the store.
	Close() error

	// Location describes where entries are persisted, for logs.
	Location() string
}

// OpenStore opens the Store for backend inside dir.
// It returns a nil Store for BackendMemory.
func OpenStore(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(backend.Path(dir)), nil
	case BackendBolt:
		return OpenBoltStore(backend.Path(dir))
	case BackendMemory:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
