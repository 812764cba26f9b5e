// Package rendercache memoizes rendered code blocks by content address.
//
// A Cache maps a Fingerprint of (code, language, theme context) to the markup
// produced for it. Entries are only ever inserted; the same key always maps to
// the same markup because rendering is deterministic.
//
// # Lifecycle
//
//	c := rendercache.Open(rendercache.Options{Dir: dir, Backend: rendercache.BackendFile})
//	defer c.Close() // flushes pending entries
//
// Open never fails. A missing or corrupt snapshot yields an empty cache, and a
// cache directory that cannot be created or written degrades the cache to
// memory-only for the rest of the process. Every such event is logged.
//
// # Stores
//
// Persistence is delegated to a Store:
//
//   - FileStore writes a versioned msgpack snapshot of every entry, replacing
//     the file atomically (temp file, fsync, rename).
//   - BoltStore keeps entries in a bbolt bucket and only writes entries added
//     since the previous flush.
//
// Flushes happen on Close, on demand through Flush, and periodically when
// Options.FlushInterval is set.
package rendercache
