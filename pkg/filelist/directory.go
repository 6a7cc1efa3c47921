package filelist

import (
	"strings"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// LoadType is the per-directory state in a DirectoryListing mirror,
// tracking whether a subtree is idle, awaiting a user-navigation load,
// or being refreshed in the background.
//
// Grounded on spec.md §4.6's DirectoryLoadType state machine, itself
// grounded on the original source's (undretrieved) DirectoryListing.h
// enum referenced throughout DirectoryListing.cpp.
type LoadType int

const (
	// LoadNone is idle: either complete, or never loaded.
	LoadNone LoadType = iota
	// LoadChangeNormal means user navigation is waiting for this
	// directory to finish loading.
	LoadChangeNormal
	// LoadChangeReload is like LoadChangeNormal but forces a reload of
	// an already-complete subtree.
	LoadChangeReload
	// LoadContent is a background refresh not driven by navigation.
	LoadContent
)

// File is one file entry in a loaded (or loading) remote filelist
// mirror.
type File struct {
	Name      string
	Size      int64
	TTH       sharetree.TTHValue
	Parent    *Directory
}

// Directory is one node of a DirectoryListing's local mirror of a
// remote peer's share tree.
//
// Grounded on spec.md §4.6's DirectoryListing::Directory description:
// navigation cursor target, per-subtree Complete flag, and the
// DirectoryLoadType state machine field.
type Directory struct {
	Name        string
	Parent      *Directory
	Complete    bool
	LoadType    LoadType
	Directories map[string]*Directory
	Files       map[string]*File

	// childOrder/fileOrder preserve first-seen insertion order so a
	// listing re-emitted via the filelist writer matches the source
	// order rather than Go's randomized map iteration.
	childOrder []string
	fileOrder  []string
}

func newDirectory(name string, parent *Directory) *Directory {
	return &Directory{
		Name:        name,
		Parent:      parent,
		Directories: make(map[string]*Directory),
		Files:       make(map[string]*File),
	}
}

// AdcPath returns the directory's full ADC-form path within the
// listing's mirror tree.
func (d *Directory) AdcPath() string {
	if d.Parent == nil {
		return "/"
	}
	return d.Parent.AdcPath() + d.Name + "/"
}

// AddFile inserts or replaces a file child by lowercased name.
func (d *Directory) AddFile(name string, size int64, tth sharetree.TTHValue) *File {
	lower := strings.ToLower(name)
	if _, exists := d.Files[lower]; !exists {
		d.fileOrder = append(d.fileOrder, lower)
	}
	f := &File{Name: name, Size: size, TTH: tth, Parent: d}
	d.Files[lower] = f
	return f
}

// EnsureDirectory returns the existing child directory named name, or
// creates and registers a new one.
func (d *Directory) EnsureDirectory(name string) *Directory {
	lower := strings.ToLower(name)
	if existing, ok := d.Directories[lower]; ok {
		return existing
	}
	child := newDirectory(name, d)
	d.Directories[lower] = child
	d.childOrder = append(d.childOrder, lower)
	return child
}

// FindDirectory walks a '/'-delimited relative path from d, returning
// the named descendant or nil if any segment is missing.
func (d *Directory) FindDirectory(path string) *Directory {
	path = strings.Trim(path, "/")
	if path == "" {
		return d
	}

	segment, rest, hasRest := strings.Cut(path, "/")
	child, ok := d.Directories[strings.ToLower(segment)]
	if !ok {
		return nil
	}
	if !hasRest {
		return child
	}
	return child.FindDirectory(rest)
}

// TotalSize recursively sums every file size under d.
func (d *Directory) TotalSize() int64 {
	var total int64
	for _, f := range d.Files {
		total += f.Size
	}
	for _, lower := range d.childOrder {
		total += d.Directories[lower].TotalSize()
	}
	return total
}

// TotalFileCount recursively counts every file under d.
func (d *Directory) TotalFileCount() int {
	count := len(d.Files)
	for _, lower := range d.childOrder {
		count += d.Directories[lower].TotalFileCount()
	}
	return count
}

// OrderedFiles returns d's direct files in first-seen insertion order.
func (d *Directory) OrderedFiles() []*File {
	out := make([]*File, 0, len(d.fileOrder))
	for _, lower := range d.fileOrder {
		out = append(out, d.Files[lower])
	}
	return out
}

// OrderedDirectories returns d's direct child directories in
// first-seen insertion order.
func (d *Directory) OrderedDirectories() []*Directory {
	out := make([]*Directory, 0, len(d.childOrder))
	for _, lower := range d.childOrder {
		out = append(out, d.Directories[lower])
	}
	return out
}
