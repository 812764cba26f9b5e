package rendercache

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alnah/go-fencecache/internal/fileutil"
)

// snapshotFile is the on-disk layout written by FileStore.
type snapshotFile struct {
	Version int               `msgpack:"version"`
	Entries map[string]string `msgpack:"entries"`
}

// FileStore persists the whole cache as one msgpack file.
// Every write replaces the file atomically, so a crash mid-flush leaves the
// previous snapshot intact.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
// The file is not touched until Load or Write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot. A missing file is an empty cache.
func (s *FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 -- cache path is chosen by the host
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorruptSnapshot)
	}

	var snap snapshotFile
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, snap.Version, FormatVersion)
	}
	if snap.Entries == nil {
		snap.Entries = map[string]string{}
	}
	return snap.Entries, nil
}

// Write replaces the snapshot with every entry in s.All.
func (s *FileStore) Write(snap Snapshot) error {
	data, err := msgpack.Marshal(&snapshotFile{
		Version: FormatVersion,
		Entries: snap.All,
	})
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", ErrCacheWrite, err)
	}

	if err := fileutil.WriteFileAtomic(s.path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Reset removes the snapshot file.
func (s *FileStore) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Close is a no-op: FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// Location returns the snapshot path.
func (s *FileStore) Location() string {
	return s.path
}

// Compile-time interface implementation check.
var _ Store = (*FileStore)(nil)
