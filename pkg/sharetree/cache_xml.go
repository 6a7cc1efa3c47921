package sharetree

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// cacheDirEntry/cacheFileEntry mirror the original source's
// toCacheXmlList/filesToCacheXmlList output (share/ShareDirectory.cpp):
// a directory element with a Name/Date pair, nesting File elements with
// only a Name attribute (size/TTH are re-derived from disk on load
// rather than persisted, matching the original's cache format).
type cacheFileEntry struct {
	Name string `xml:"Name,attr"`
}

type cacheDirEntry struct {
	Name  string           `xml:"Name,attr"`
	Date  int64            `xml:"Date,attr"`
	Files []cacheFileEntry `xml:"File"`
	Dirs  []cacheDirEntry  `xml:"Directory"`
}

func toCacheDirEntry(d *ShareDirectory) cacheDirEntry {
	entry := cacheDirEntry{
		Name: d.RealName.String(),
		Date: d.LastWrite.Unix(),
	}

	for _, f := range d.Files.Items() {
		entry.Files = append(entry.Files, cacheFileEntry{Name: f.Name.String()})
	}

	for _, sub := range d.Directories.Items() {
		entry.Dirs = append(entry.Dirs, toCacheDirEntry(sub))
	}

	return entry
}

// WriteCacheXML serializes root's subtree (real names only, no TTH/size)
// to w as the on-disk share-cache format.
func WriteCacheXML(w io.Writer, root *ShareDirectory) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	entry := toCacheDirEntry(root)
	return enc.Encode(entry)
}

// CacheWriter periodically persists every root whose ShareRoot.CacheDirty
// flag is set, clearing the flag once written.
//
// Grounded on SPEC_FULL.md §4.3.A's CacheWriter/flusher-pattern
// description, itself modeled on the teacher's own background-flush
// goroutine idiom (internal/logger's buffered-writer flush loop):
// a ticker drives periodic work, a context cancels the loop cleanly.
type CacheWriter struct {
	tree    *ShareTree
	cacheDir string
}

// NewCacheWriter creates a CacheWriter that persists roots under
// cacheDir.
func NewCacheWriter(tree *ShareTree, cacheDir string) *CacheWriter {
	return &CacheWriter{tree: tree, cacheDir: cacheDir}
}

// Run persists every dirty root once per tick, until ctx is cancelled.
func (w *CacheWriter) Run(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			w.flushDirtyRoots()
		}
	}
}

func (w *CacheWriter) flushDirtyRoots() {
	w.tree.mu.RLock()
	var dirty []*ShareDirectory
	for _, dir := range w.tree.ix.rootPaths {
		if dir.Root.CacheDirty {
			dirty = append(dirty, dir)
		}
	}
	w.tree.mu.RUnlock()

	for _, dir := range dirty {
		if err := w.flushOne(dir); err == nil {
			w.tree.mu.Lock()
			dir.Root.CacheDirty = false
			w.tree.mu.Unlock()
		}
	}
}

func (w *CacheWriter) flushOne(dir *ShareDirectory) error {
	path := filepath.Join(w.cacheDir, fmt.Sprintf("ShareCache_%s.xml", sanitizeFileName(dir.Root.Path)))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w.tree.mu.RLock()
	defer w.tree.mu.RUnlock()
	return WriteCacheXML(f, dir)
}
