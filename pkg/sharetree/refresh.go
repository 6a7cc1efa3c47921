package sharetree

import "time"

// RefreshTrigger lets an external watcher (e.g. an fsnotify-backed
// filesystem monitor) ask the tree to schedule a refresh of a root
// without the tree importing any filesystem-watching package directly.
//
// Grounded on SPEC_FULL.md §4.3.B's direction to expose refresh
// scheduling as a narrow interface a caller backs with
// github.com/fsnotify/fsnotify, keeping pkg/sharetree itself
// filesystem-watcher-agnostic the way the teacher keeps pkg/registry
// storage-agnostic.
type RefreshTrigger interface {
	RequestRefresh(rootPath string) RefreshTask
}

// RefreshTask is a handle to a scheduled or running refresh.
type RefreshTask interface {
	Token() string
	Done() <-chan struct{}
}

// SetRefreshState transitions the root at path to state. Returns
// ErrNotFound if no root exists at path.
func (t *ShareTree) SetRefreshState(path string, state RefreshState, taskToken string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.ix.rootPaths[path]
	if !ok {
		return NewNotFound(path)
	}

	dir.Root.RefreshState = state
	dir.Root.RefreshTaskToken = taskToken
	return nil
}

// RefreshResult is a freshly enumerated replacement subtree awaiting
// adoption into the live tree, built off-lock by the refresh worker and
// handed to ApplyRefreshChanges once enumeration completes.
//
// Grounded on the original source's ShareRefreshInfo (referenced from
// ShareTree.cpp's applyRefreshChanges): a new subtree plus the
// bookkeeping needed to splice it into the place the old one occupied.
type RefreshResult struct {
	RootPath    string
	NewRoot     *ShareDirectory
	NewSize     int64
	LastRefresh time.Time
}

// ApplyRefreshChanges swaps a freshly-enumerated subtree into the live
// tree: the old subtree is torn down via CleanIndices, the new one is
// registered under the same root path, and every index is updated.
// Returns false if the root was removed from the tree during the
// refresh (so there is nothing left to attach to).
//
// Grounded on the original source's contract for applyRefreshChanges
// (documented in SPEC_FULL.md §4.3): old subtree cleanup, new subtree
// attachment, index consistency, false on a removed-mid-refresh root.
func (t *ShareTree) ApplyRefreshChanges(result RefreshResult, dirtyProfiles ProfileTokenSet) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldRoot, ok := t.ix.rootPaths[result.RootPath]
	if !ok {
		return false
	}

	if dirtyProfiles != nil {
		oldRoot.CopyRootProfiles(dirtyProfiles, true)
	}

	CleanIndices(oldRoot, t.ix, &t.sharedSize)

	t.ix.rootPaths[result.RootPath] = result.NewRoot
	t.indexSubtree(result.NewRoot)
	t.sharedSize += result.NewSize

	result.NewRoot.Root.RefreshState = RefreshStateNormal
	result.NewRoot.Root.RefreshTaskToken = ""
	result.NewRoot.Root.LastRefreshTime = result.LastRefresh

	return true
}

// EnsureDirectoryUnsafe walks (creating as needed) the directory chain
// named by a '/'-delimited relative path under parent, used by refresh
// to reattach a subtree whose intermediate directories were removed and
// recreated out of order.
func (t *ShareTree) EnsureDirectoryUnsafe(parent *ShareDirectory, relativePath string, lastWrite time.Time) *ShareDirectory {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ensureDirectory(parent, relativePath, lastWrite)
}

// indexSubtree registers every directory name and every file's TTH in
// dir's subtree into t.ix, recursively. A freshly built replacement
// subtree (from a refresh worker's own scratch indices, or constructed
// off-tree entirely) arrives with no entries in this tree's indices at
// all, so the whole thing must be walked once on attach.
func (t *ShareTree) indexSubtree(dir *ShareDirectory) {
	t.ix.addDirName(dir)
	for _, f := range dir.Files.Items() {
		t.ix.addTTH(f)
	}
	for _, sub := range dir.Directories.Items() {
		t.indexSubtree(sub)
	}
}

func (t *ShareTree) ensureDirectory(parent *ShareDirectory, relativePath string, lastWrite time.Time) *ShareDirectory {
	segments := splitAdc(trimSlashes(relativePath))
	cur := parent
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if existing := cur.FindDirectoryLower(toLowerSegment(seg)); existing != nil {
			cur = existing
			continue
		}
		cur = CreateNormal(NewDualString(seg), cur, lastWrite, t.ix)
	}
	return cur
}
