package rendercache

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/alnah/go-fencecache/internal/fileutil"
)

// Bucket and key names inside the bolt file.
const (
	bucketRenders = "renders"
	bucketMeta    = "meta"
	keyVersion    = "version"
)

// boltLockTimeout bounds the wait for another process holding the file.
var boltLockTimeout = time.Second

// corruptSuffix is appended to a damaged store file moved out of the way.
const corruptSuffix = ".corrupt"

// BoltStore persists entries in a bbolt database, one key per entry.
// Writes are incremental: only entries added since the last flush are put.
type BoltStore struct {
	path string
	db   *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
// A file that is not a valid database is moved aside and replaced by a fresh
// one. A file locked by another process yields ErrStoreLocked.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := quarantineTruncated(path); err != nil {
		return nil, err
	}

	db, err := openBolt(path)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrStoreLocked, path)
		}
		if _, moveErr := fileutil.MoveAside(path, corruptSuffix); moveErr != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		db, err = openBolt(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
	}

	s := &BoltStore{path: path, db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func openBolt(path string) (db *bolt.DB, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorruptSnapshot, r)
		}
	}()
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: boltLockTimeout})
}

// quarantineTruncated moves away files too small to hold the two meta pages
// and the initial root pages a bolt database always starts with. bbolt maps
// such files without validating their size first.
func quarantineTruncated(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	if info.Size() == 0 || info.Size() >= int64(4*os.Getpagesize()) {
		return nil
	}
	if _, err := fileutil.MoveAside(path, corruptSuffix); err != nil {
		return err
	}
	return nil
}

// init creates the buckets and drops entries written by another format version.
func (s *BoltStore) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}

		want := strconv.Itoa(FormatVersion)
		if v := meta.Get([]byte(keyVersion)); v != nil && string(v) != want {
			if err := tx.DeleteBucket([]byte(bucketRenders)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		if err := meta.Put([]byte(keyVersion), []byte(want)); err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(bucketRenders))
		return err
	})
}

// Load reads every entry.
func (s *BoltStore) Load() (entries map[string]string, err error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorruptSnapshot, r)
		}
	}()

	entries = map[string]string{}
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRenders))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			entries[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return entries, nil
}

// Write puts the entries added since the previous flush.
func (s *BoltStore) Write(snap Snapshot) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	if len(snap.Added) == 0 {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRenders))
		for k, v := range snap.Added {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Reset drops and recreates the renders bucket.
func (s *BoltStore) Reset() error {
	if s.db == nil {
		return ErrStoreClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketRenders)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketRenders))
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Location returns the database path.
func (s *BoltStore) Location() string {
	return s.path
}

// Compile-time interface implementation check.
var _ Store = (*BoltStore)(nil)
