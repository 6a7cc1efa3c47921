package filelist

import (
	"crypto/sha1"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// DocumentCache persists generated filelist XML documents keyed by
// (virtual path, profile set, recursion mode) so repeated requests for
// the same subtree skip rebuilding the FilelistDirectory merge tree.
// Entries expire on their own after ttl; a share refresh that changes
// a cached subtree simply lets the stale entry age out rather than
// tracking per-key invalidation.
//
// Grounded on the teacher's BadgerDB store idiom
// (pkg/metadata/store/badger: a *badger.DB wrapped by a small typed
// API, transactions via db.View/db.Update, prefixed string keys) —
// generalized here from durable file metadata to an expiring document
// cache, the one embedded-KV use case the filelist subsystem actually
// has (spec.md's ambient filelist-cache configuration).
type DocumentCache struct {
	db *badger.DB
}

// OpenDocumentCache opens (creating if necessary) a BadgerDB-backed
// document cache at dir.
func OpenDocumentCache(dir string) (*DocumentCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("filelist: open document cache: %w", err)
	}
	return &DocumentCache{db: db}, nil
}

// Close releases the underlying BadgerDB handle.
func (c *DocumentCache) Close() error {
	return c.db.Close()
}

func documentKey(virtualPath string, profileKey string, recursive bool) []byte {
	sum := sha1.Sum([]byte(virtualPath + "\x00" + profileKey))
	return []byte(fmt.Sprintf("doc:%x:%t", sum, recursive))
}

// Get returns the cached document for this key, if present and not
// expired.
func (c *DocumentCache) Get(virtualPath, profileKey string, recursive bool) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey(virtualPath, profileKey, recursive))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

// Put stores doc under this key with the given time-to-live.
func (c *DocumentCache) Put(virtualPath, profileKey string, recursive bool, doc []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(documentKey(virtualPath, profileKey, recursive), doc).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}
