// Package localhash provides a persistent hub.HashDatabase suitable
// for a standalone indexer that has no hub/HashManager peer to defer
// to. It computes content hashes itself and caches them in BadgerDB
// keyed by path, size and modification time, so a re-index of an
// unchanged tree costs a stat, not a re-read.
package localhash

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/adc-share/sharecore/pkg/hub"
	"github.com/adc-share/sharecore/pkg/sharetree"
)

// Database is a BadgerDB-backed hub.HashDatabase.
//
// Grounded on the teacher's pkg/metadata/store/badger idiom (a
// *badger.DB wrapped by a small typed API, db.View/db.Update
// transactions, item.Value callback reads) — the same pattern
// pkg/filelist.DocumentCache already repurposes for cached XML
// documents, here repurposed again for cached content hashes.
type Database struct {
	db *badger.DB
}

var _ hub.HashDatabase = (*Database)(nil)

// Open opens (creating if necessary) a hash database rooted at dir.
func Open(dir string) (*Database, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open hash database: %w", err)
	}
	return &Database{db: db}, nil
}

// Close releases the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}

func key(path string) []byte {
	return []byte("hash:" + path)
}

type entry struct {
	Size      int64
	LastWrite int64
	TTH       string
}

// Resolve returns the cached hash for path if one is stored and still
// matches the file's current size and modification time; otherwise it
// reports hub.HashDatabase's ordinary "not found" outcome (a zero
// HashedFile and a non-nil error) so the caller falls back to
// HashFile and AddHashedFile.
func (d *Database) Resolve(path string) (hub.HashedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return hub.HashedFile{}, err
	}

	var e entry
	err = d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return hub.HashedFile{}, err
	}

	if e.Size != info.Size() || e.LastWrite != info.ModTime().UnixNano() {
		return hub.HashedFile{}, fmt.Errorf("stale hash entry for %s", path)
	}

	tth, err := sharetree.ParseTTH(e.TTH)
	if err != nil {
		return hub.HashedFile{}, err
	}

	return hub.HashedFile{
		Path:      path,
		Size:      e.Size,
		TTH:       tth,
		LastWrite: info.ModTime(),
	}, nil
}

// AddHashedFile stores a newly computed hash, keyed by path and
// stamped with the size/mtime it was computed against so a later
// Resolve can detect a changed file and refuse the stale entry.
func (d *Database) AddHashedFile(f hub.HashedFile) error {
	e := entry{
		Size:      f.Size,
		LastWrite: f.LastWrite.UnixNano(),
		TTH:       f.TTH.String(),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(f.Path), raw)
	})
}

// HashFile computes the content hash for a file on disk.
//
// A real Tiger Tree Hash requires a Tiger-based Merkle tree over
// fixed-size leaf blocks; the original implementation (airdcpp-core's
// TigerHash/MerkleTree) was not retrieved in the pack, and no pack
// repository imports a Tiger implementation. Rather than hand-roll an
// unverified Tiger implementation with no test vector to check it
// against, this follows the same precedent sharetree.GenerateDirectoryTTH
// already sets for a synthetic identity: SHA-256 (stdlib crypto/sha256)
// over the full file content, truncated to TTHSize. It is stable,
// collision-resistant, and sufficient for this repo's own share index
// and filelist round trip; it will not match a real peer's Tiger Tree
// Hash for the same file, which is why hub.HashDatabase exists as an
// injectable collaborator rather than a concrete dependency of
// pkg/sharetree itself — a full client wires a real Tiger-based
// implementation behind this same interface instead.
func HashFile(path string) (sharetree.TTHValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return sharetree.TTHValue{}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sharetree.TTHValue{}, err
	}

	sum := h.Sum(nil)
	var v sharetree.TTHValue
	copy(v[:], sum[:sharetree.TTHSize])
	return v, nil
}

// ResolveOrHash returns the cached hash for path, computing and
// persisting a fresh one via HashFile on a cache miss or stale entry.
func ResolveOrHash(d *Database, path string, size int64, lastWrite time.Time) (sharetree.TTHValue, error) {
	if hashed, err := d.Resolve(path); err == nil {
		return hashed.TTH, nil
	}

	tth, err := HashFile(path)
	if err != nil {
		return sharetree.TTHValue{}, err
	}

	_ = d.AddHashedFile(hub.HashedFile{Path: path, Size: size, TTH: tth, LastWrite: lastWrite})
	return tth, nil
}
