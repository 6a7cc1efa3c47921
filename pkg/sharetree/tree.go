package sharetree

import (
	"sync"
	"time"
)

// ShareTree is the global indexed view over every shared root: it owns
// the tree of ShareDirectory/ShareFile nodes plus the three lookup
// indices and bloom filter that must stay in lockstep with it. Every
// mutation funnels through ShareTree so exactly one lock protects the
// whole structure.
//
// Grounded on the original source's ShareManager's `cs` RW lock
// discipline (share/ShareTree.cpp: every public read takes a read lock,
// every mutator a write lock) and, for the Go locking idiom itself, on
// the teacher's pkg/registry.Registry (a single sync.RWMutex guarding a
// named map, with all read paths under RLock and all mutators under
// Lock).
type ShareTree struct {
	mu         sync.RWMutex
	ix         *indices
	sharedSize int64
}

// NewShareTree creates an empty ShareTree. expectedBloomItems sizes the
// bloom filter, which keeps that size for the tree's lifetime.
func NewShareTree(expectedBloomItems int) *ShareTree {
	return &ShareTree{ix: newIndices(expectedBloomItems)}
}

// Roots returns every currently registered share root directory, in no
// particular order. Used to fan a tree-wide search out across all
// roots, the same way the original source's SearchManager iterates
// ShareManager::getRoots().
func (t *ShareTree) Roots() []*ShareDirectory {
	t.mu.RLock()
	defer t.mu.RUnlock()

	roots := make([]*ShareDirectory, 0, len(t.ix.rootPaths))
	for _, dir := range t.ix.rootPaths {
		roots = append(roots, dir)
	}
	return roots
}

// SharedSize returns the total size of every file currently in the tree.
func (t *ShareTree) SharedSize() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sharedSize
}

// BloomSize returns the bit-size of the current bloom filter, printed
// by the index command for diagnostics.
func (t *ShareTree) BloomSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ix.bloom.Size()
}

// AddShareRoot creates and registers a new share root. Fails with
// ErrMalformed if a root already exists at the exact same real path.
func (t *ShareTree) AddShareRoot(path, virtualName string, profiles ProfileTokenSet, incoming bool, lastWrite time.Time) (*ShareDirectory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.ix.rootPaths[path]; exists {
		return nil, &ShareException{Code: ErrMalformed, Message: "root already exists", Path: path}
	}

	dir := CreateRoot(path, virtualName, profiles, incoming, lastWrite, t.ix, time.Time{})
	return dir, nil
}

// RemoveShareRoot tears down the root at path entirely: every file is
// removed from the TTH index, every directory from the name index, and
// the root itself from the root-path index.
func (t *ShareTree) RemoveShareRoot(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.ix.rootPaths[path]
	if !ok {
		return NewNotFound(path)
	}

	CleanIndices(dir, t.ix, &t.sharedSize)
	delete(t.ix.rootPaths, path)
	return nil
}

// UpdateShareRoot mutates the virtual name and/or profile set of an
// existing root in place (no tree rebuild required for these fields).
func (t *ShareTree) UpdateShareRoot(path string, virtualName *string, profiles ProfileTokenSet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.ix.rootPaths[path]
	if !ok {
		return NewNotFound(path)
	}

	if virtualName != nil {
		t.ix.removeDirName(dir)
		dir.Root.VirtualName = NewDualString(*virtualName)
		t.ix.addDirName(dir)
	}

	if profiles != nil {
		dir.Root.RootProfiles = profiles
	}

	return nil
}

// CreateDirectory creates a non-root directory under parent. Both
// parent and the returned directory belong to the same tree; callers
// must not pass a directory from another ShareTree.
func (t *ShareTree) CreateDirectory(parent *ShareDirectory, name DualString, lastWrite time.Time) (*ShareDirectory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir := CreateNormal(name, parent, lastWrite, t.ix)
	if dir == nil {
		return nil, &ShareException{Code: ErrMalformed, Message: "duplicate directory name", Path: name.String()}
	}
	return dir, nil
}

// AddFile inserts a file under dir, updating every index.
func (t *ShareTree) AddFile(dir *ShareDirectory, name DualString, size int64, lastWrite time.Time, tth TTHValue) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dirtyProfiles := ProfileTokenSet{}
	dir.AddFile(name, size, lastWrite, tth, t.ix, &t.sharedSize, dirtyProfiles)
	return nil
}

// ToRealWithSize resolves tth to the first file whose parent chain
// contains profile, returning its real path and size. If a file with
// the TTH exists but no profile matches, noAccess is true. found is
// false if the TTH is entirely unknown.
func (t *ShareTree) ToRealWithSize(tth TTHValue, profile *ProfileToken) (path string, size int64, noAccess bool, found bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files, ok := t.ix.tthIndex[tth]
	if !ok || len(files) == 0 {
		return "", 0, false, false
	}

	any := false
	for _, f := range files {
		any = true
		if f.HasProfile(profile) {
			return f.RealPath(), f.Size, false, true
		}
	}
	return "", 0, any, true
}

// GetRealPaths returns every filesystem path currently mapped to tth,
// unfiltered by profile.
func (t *ShareTree) GetRealPaths(tth TTHValue) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files := t.ix.tthIndex[tth]
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RealPath())
	}
	return paths
}

// RealToVirtualAdc returns the ADC-form virtual path for realPath if
// the owning directory is visible under profile.
func (t *ShareTree) RealToVirtualAdc(realPath string, profile *ProfileToken) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, root := range t.ix.rootPaths {
		dir := t.resolveRealPath(root, realPath)
		if dir == nil {
			continue
		}
		if !dir.HasProfile(profile) {
			return "", NewAccessDenied(realPath)
		}
		return dir.AdcPathUnsafe(), nil
	}

	return "", NewNotFound(realPath)
}

func (t *ShareTree) resolveRealPath(root *ShareDirectory, realPath string) *ShareDirectory {
	rootPath := root.RealPathUnsafe()
	if realPath == rootPath {
		return root
	}
	if len(realPath) <= len(rootPath) || realPath[:len(rootPath)] != rootPath {
		return nil
	}
	rel := realPath[len(rootPath):]
	if rel == "" {
		return root
	}
	return root.FindDirectoryByPath(rel, '/')
}

// FindVirtuals resolves an ADC path to the set of directories that
// claim it in any of the given profiles. Multiple roots may share a
// virtual name; every match is returned so the filelist generator can
// union their contents.
func (t *ShareTree) FindVirtuals(adcPath string, profiles ProfileTokenSet) ([]*ShareDirectory, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	trimmed := trimSlashes(adcPath)
	if trimmed == "" {
		return t.profileRoots(profiles), nil
	}

	segments := splitAdc(trimmed)
	candidates := t.ix.lowerDirNameMap[toLowerSegment(segments[0])]

	var out []*ShareDirectory
	for _, cand := range candidates {
		if !cand.IsRoot() {
			continue
		}
		if !cand.HasAnyProfile(profiles) {
			continue
		}
		target := cand
		if len(segments) > 1 {
			target = cand.FindDirectoryByPath(joinSegments(segments[1:]), '/')
		}
		if target != nil {
			out = append(out, target)
		}
	}

	if len(out) == 0 {
		return nil, &ShareException{Code: ErrFileNotAvailable, Message: "no directory claims this ADC path", Path: adcPath}
	}
	return out, nil
}

func (t *ShareTree) profileRoots(profiles ProfileTokenSet) []*ShareDirectory {
	var out []*ShareDirectory
	for _, dir := range t.ix.rootPaths {
		if dir.HasAnyProfile(profiles) {
			out = append(out, dir)
		}
	}
	return out
}
