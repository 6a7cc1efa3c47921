package sharetree

import (
	"strings"
	"time"

	"github.com/adc-share/sharecore/pkg/sortedvector"
)

// ShareFile is a single shared file: a name plus the metadata needed to
// answer searches and build filelists, owned by exactly one
// ShareDirectory.
//
// Grounded on the original source's ShareDirectory::File
// (share/ShareDirectory.h/.cpp): same fields, GETSET accessors folded
// into exported struct fields per the teacher's own preference for
// plain fields over getter/setter pairs on internal value-ish types
// (see pkg/metadata/object.go's ContentHash/Object).
type ShareFile struct {
	Name      DualString
	Parent    *ShareDirectory
	Size      int64
	LastWrite time.Time
	TTH       TTHValue
}

// AdcPath returns the file's full ADC-form virtual path.
func (f *ShareFile) AdcPath() string {
	return f.Parent.AdcPathUnsafe() + f.Name.String()
}

// RealPath returns the file's full filesystem path.
func (f *ShareFile) RealPath() string {
	return f.Parent.realPath(f.Name.String())
}

// HasProfile reports whether the file's parent chain belongs to profile.
func (f *ShareFile) HasProfile(profile *ProfileToken) bool {
	return f.Parent.HasProfile(profile)
}

// ShareDirectory is one node of the in-memory share tree: directories
// own their child directories and files; roots (where Root != nil) also
// carry profile membership and refresh state.
//
// Grounded on the original source's ShareDirectory (share/ShareDirectory.h/.cpp).
// Concurrency: ShareDirectory carries no lock of its own — every mutator
// is only ever called while the owning ShareTree holds its write lock,
// mirroring the teacher's pkg/registry.Registry convention of a single
// outer RWMutex rather than per-node locks.
type ShareDirectory struct {
	RealName    DualString
	Parent      *ShareDirectory
	Root        *ShareRoot
	LastWrite   time.Time
	size        int64
	Files       *sortedvector.Vector[*ShareFile, string]
	Directories *sortedvector.Vector[*ShareDirectory, string]
}

func fileNameLower(f *ShareFile) string     { return f.Name.Lower() }
func dirNameLower(d *ShareDirectory) string { return d.RealName.Lower() }

func newShareDirectory(name DualString, parent *ShareDirectory, lastWrite time.Time, root *ShareRoot) *ShareDirectory {
	return &ShareDirectory{
		RealName:    name,
		Parent:      parent,
		Root:        root,
		LastWrite:   lastWrite,
		Files:       sortedvector.New[*ShareFile, string](fileNameLower),
		Directories: sortedvector.New[*ShareDirectory, string](dirNameLower),
	}
}

// CreateNormal creates a non-root child directory under parent,
// registering it in parent's child set and the tree-wide name index.
// Returns nil if parent already has a child with the same lowercased
// name.
func CreateNormal(name DualString, parent *ShareDirectory, lastWrite time.Time, ix *indices) *ShareDirectory {
	dir := newShareDirectory(name, parent, lastWrite, nil)

	if parent != nil {
		if _, inserted := parent.Directories.InsertSorted(dir); !inserted {
			return nil
		}
	}

	ix.addDirName(dir)
	return dir
}

// CreateRoot creates a new root directory for rootPath, registers it in
// the root-path index, and adds its name to the tree-wide name index.
func CreateRoot(rootPath, virtualName string, profiles ProfileTokenSet, incoming bool, lastWrite time.Time, ix *indices, lastRefreshTime time.Time) *ShareDirectory {
	root := NewShareRoot(rootPath, virtualName, profiles, incoming, lastRefreshTime)
	dir := newShareDirectory(NewDualString(lastPathSegment(rootPath)), nil, lastWrite, root)

	ix.rootPaths[dir.RealPathUnsafe()] = dir
	ix.addDirName(dir)
	return dir
}

// CloneRoot creates a fresh ShareDirectory carrying the same ShareRoot
// configuration (path, virtual name, profiles) as oldRoot, used when a
// refresh replaces a root's entire subtree.
func CloneRoot(oldRoot *ShareDirectory, lastWrite time.Time, ix *indices) *ShareDirectory {
	r := oldRoot.Root
	return CreateRoot(r.Path, r.VirtualName.String(), r.RootProfiles, r.Incoming, lastWrite, ix, r.LastRefreshTime)
}

func lastPathSegment(path string) string {
	trimmed := strings.TrimRight(path, "/\\")
	idx := strings.LastIndexAny(trimmed, "/\\")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// IsRoot reports whether this directory is a share root.
func (d *ShareDirectory) IsRoot() bool {
	return d.Root != nil
}

// GetRoot returns the directory's ShareRoot. Callers must only call this
// on directories where IsRoot() is true.
func (d *ShareDirectory) GetRoot() *ShareRoot {
	return d.Root
}

// VirtualName returns the name this directory presents in the ADC
// namespace: the root's virtual name if this is a root, else the real
// name.
func (d *ShareDirectory) VirtualName() string {
	if d.Root != nil {
		return d.Root.VirtualName.String()
	}
	return d.RealName.String()
}

// VirtualNameLower returns the lowercase form of VirtualName.
func (d *ShareDirectory) VirtualNameLower() string {
	if d.Root != nil {
		return d.Root.VirtualName.Lower()
	}
	return d.RealName.Lower()
}

// AdcPathUnsafe returns the directory's full ADC-form virtual path
// ("unsafe" because a root mid-refresh may momentarily lack a Root
// pointer, in which case "/" is returned — matching the original's
// documented behavior for subdirectories being refreshed).
func (d *ShareDirectory) AdcPathUnsafe() string {
	if d.Parent != nil {
		return joinAdc(d.Parent.AdcPathUnsafe(), d.RealName.String())
	}
	if d.Root == nil {
		return "/"
	}
	return "/" + d.Root.VirtualName.String() + "/"
}

func joinAdc(parentAdc, name string) string {
	if !strings.HasSuffix(parentAdc, "/") {
		parentAdc += "/"
	}
	return parentAdc + name + "/"
}

// RealPathUnsafe returns the directory's full filesystem path.
func (d *ShareDirectory) RealPathUnsafe() string {
	return d.realPath("")
}

func (d *ShareDirectory) realPath(tail string) string {
	if d.Parent != nil {
		return d.Parent.realPath(d.RealName.String() + string(pathSeparator) + tail)
	}
	if d.Root == nil {
		return tail
	}
	return d.Root.Path + tail
}

const pathSeparator = '/'

// HasProfile reports whether this directory is visible under profile.
// A nil profile means "no restriction" (used for local/own-list
// access) and always returns true.
func (d *ShareDirectory) HasProfile(profile *ProfileToken) bool {
	if profile == nil {
		return true
	}
	if d.Root != nil && d.Root.HasProfileToken(*profile) {
		return true
	}
	if d.Parent != nil {
		return d.Parent.HasProfile(profile)
	}
	return false
}

// HasAnyProfile reports whether this directory is visible under any
// token in profiles.
func (d *ShareDirectory) HasAnyProfile(profiles ProfileTokenSet) bool {
	if d.Root != nil && d.Root.HasProfile(profiles) {
		return true
	}
	if d.Parent != nil {
		return d.Parent.HasAnyProfile(profiles)
	}
	return false
}

// CopyRootProfiles unions every ancestor root's profile set into out.
func (d *ShareDirectory) CopyRootProfiles(out ProfileTokenSet, setCacheDirty bool) {
	if d.Root != nil {
		out.Union(d.Root.RootProfiles)
		if setCacheDirty {
			d.Root.CacheDirty = true
		}
	}
	if d.Parent != nil {
		d.Parent.CopyRootProfiles(out, setCacheDirty)
	}
}

// RootProfileSet returns the union of every ancestor root's profile set.
func (d *ShareDirectory) RootProfileSet() ProfileTokenSet {
	out := ProfileTokenSet{}
	d.CopyRootProfiles(out, false)
	return out
}

// LevelSize returns the cached total size of files directly inside this
// directory (not recursive).
func (d *ShareDirectory) LevelSize() int64 {
	return d.size
}

// TotalSize recursively sums this directory's level size plus every
// descendant's level size.
func (d *ShareDirectory) TotalSize() int64 {
	total := d.size
	for _, sub := range d.Directories.Items() {
		total += sub.TotalSize()
	}
	return total
}

func (d *ShareDirectory) increaseSize(delta int64, sharedSize *int64) {
	d.size += delta
	*sharedSize += delta
}

func (d *ShareDirectory) decreaseSize(delta int64, sharedSize *int64) {
	d.size -= delta
	*sharedSize -= delta
}

// AddFile inserts fi as a child file, replacing (and cleaning up) any
// existing file with the same lowercased name, and updates the bloom,
// TTH index, and shared-size total.
func (d *ShareDirectory) AddFile(name DualString, size int64, lastWrite time.Time, tth TTHValue, ix *indices, sharedSize *int64, dirtyProfiles ProfileTokenSet) {
	if existing, ok := d.Files.Find(name.Lower()); ok {
		existing.cleanIndices(ix, sharedSize)
		d.Files.EraseKey(name.Lower())
	}

	f := &ShareFile{Name: name, Parent: d, Size: size, LastWrite: lastWrite, TTH: tth}
	d.Files.InsertSorted(f)
	f.updateIndices(ix, sharedSize)

	if dirtyProfiles != nil {
		d.CopyRootProfiles(dirtyProfiles, true)
	}
}

func (f *ShareFile) updateIndices(ix *indices, sharedSize *int64) {
	f.Parent.increaseSize(f.Size, sharedSize)
	ix.addTTH(f)
}

func (f *ShareFile) cleanIndices(ix *indices, sharedSize *int64) {
	f.Parent.decreaseSize(f.Size, sharedSize)
	ix.removeTTH(f)
}

// CleanIndices recursively tears down dir: removes every file from the
// TTH index (and subtracts its size), removes every directory from the
// name index, and finally unlinks dir from its parent's child set.
func CleanIndices(dir *ShareDirectory, ix *indices, sharedSize *int64) {
	dir.cleanIndicesRecursive(ix, sharedSize)

	if dir.Parent != nil {
		dir.Parent.Directories.EraseKey(dir.RealName.Lower())
		dir.Parent = nil
	}
}

func (d *ShareDirectory) cleanIndicesRecursive(ix *indices, sharedSize *int64) {
	for _, sub := range d.Directories.Items() {
		sub.cleanIndicesRecursive(ix, sharedSize)
	}

	ix.removeDirName(d)

	for _, f := range d.Files.Items() {
		f.cleanIndices(ix, sharedSize)
	}
}

// SetParent attaches dir under parent's child set. The caller must have
// already removed any directory with the same name from parent.
func SetParent(dir, parent *ShareDirectory) bool {
	dir.Parent = parent
	if parent != nil {
		if _, inserted := parent.Directories.InsertSorted(dir); !inserted {
			return false
		}
	}
	return true
}

// FindDirectoryByPath walks a '/'-or-separator-delimited relative path
// and returns the child directory it names, or nil if any segment is
// missing. Returning the directory itself (path == "") is not
// supported, matching the original contract.
func (d *ShareDirectory) FindDirectoryByPath(path string, separator byte) *ShareDirectory {
	idx := strings.IndexByte(path, separator)
	var segment, rest string
	if idx < 0 {
		segment, rest = path, ""
	} else {
		segment, rest = path[:idx], path[idx+1:]
	}

	child, ok := d.Directories.Find(caseFolder.String(segment))
	if !ok {
		return nil
	}
	if rest == "" {
		return child
	}
	return child.FindDirectoryByPath(rest, separator)
}

// FindDirectoryLower finds a direct child directory by lowercased name.
func (d *ShareDirectory) FindDirectoryLower(nameLower string) *ShareDirectory {
	child, ok := d.Directories.Find(nameLower)
	if !ok {
		return nil
	}
	return child
}

// FindFileLower finds a direct child file by lowercased name.
func (d *ShareDirectory) FindFileLower(nameLower string) *ShareFile {
	f, ok := d.Files.Find(nameLower)
	if !ok {
		return nil
	}
	return f
}

// GetContentInfo recursively accumulates size and a DirectoryContentInfo
// (direct + descendant file/directory counts) for d.
func (d *ShareDirectory) GetContentInfo() (size int64, info DirectoryContentInfo) {
	for _, sub := range d.Directories.Items() {
		subSize, subInfo := sub.GetContentInfo()
		size += subSize
		info = info.Add(subInfo)
	}
	info.Directories += d.Directories.Len()
	size += d.size
	info.Files += d.Files.Len()
	return size, info
}

// CountStats recursively accumulates diagnostic totals: combined file
// age (as a Unix-seconds sum), directory count, total size, file count,
// count of lowercase-only names, and total name length.
func (d *ShareDirectory) CountStats() (totalAge int64, totalDirs, totalFiles, lowerCaseFiles int, totalSize int64, totalStrLen int) {
	for _, sub := range d.Directories.Items() {
		age, dirs, files, lower, size, strLen := sub.CountStats()
		totalAge += age
		totalDirs += dirs
		totalFiles += files
		lowerCaseFiles += lower
		totalSize += size
		totalStrLen += strLen
	}

	for _, f := range d.Files.Items() {
		totalSize += f.Size
		totalAge += f.LastWrite.Unix()
		totalStrLen += len(f.Name.String())
		if f.Name.String() == f.Name.Lower() {
			lowerCaseFiles++
		}
	}

	totalStrLen += len(d.RealName.String())
	totalDirs += d.Directories.Len()
	totalFiles += d.Files.Len()
	return totalAge, totalDirs, totalFiles, lowerCaseFiles, totalSize, totalStrLen
}
