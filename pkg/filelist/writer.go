// Package filelist implements filelist generation (a read-only XML
// snapshot of a share subtree, merging same-named roots into one
// virtual view) and loading (a navigable local mirror of a remote
// peer's filelist, driven by a per-directory load state machine).
package filelist

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// DupeHandler is invoked when two contributing ShareDirectorys being
// merged into the same FilelistDirectory both carry a file with the
// same lowercased name: the directory's first-added contributing
// ShareDirectory wins, and this callback lets a caller report the
// conflict (e.g. surface it in a UI).
//
// Grounded on spec.md §4.6's "a duplicate callback is fired" note on
// FilelistDirectory.toXml.
type DupeHandler func(virtualPath, fileName string)

// FilelistDirectory is an ephemeral view used only during XML
// emission: it virtually unions the contents of every ShareDirectory
// that shares a virtual name at one level of the merged tree.
//
// Grounded on spec.md §4.6 and the original source's
// FilelistDirectory/ShareDirectory::toCacheXmlList
// (share/ShareDirectory.cpp, the only emission code present in the
// retrieved pack; FilelistDirectory's own .cpp/.h were not retrieved,
// so the merge-by-lowercased-name algorithm here is an Open Question
// resolution following spec.md §4.6's prose exactly).
type FilelistDirectory struct {
	Name         string
	contributors []*sharetree.ShareDirectory

	fileOrder []string
	files     map[string]*sharetree.ShareFile

	childOrder []string
	children   map[string]*FilelistDirectory
}

// newFilelistDirectory starts a merge group from its first contributor.
func newFilelistDirectory(name string) *FilelistDirectory {
	return &FilelistDirectory{
		Name:     name,
		files:    make(map[string]*sharetree.ShareFile),
		children: make(map[string]*FilelistDirectory),
	}
}

// GenerateRoot builds a merged FilelistDirectory tree from every
// ShareDirectory in roots (all presumed to share one virtual name at
// this level, as FindVirtuals returns). When recursive is false, only
// this level's files and direct child names are populated; deeper
// levels are left empty and the caller marks them incomplete at
// emission time.
func GenerateRoot(virtualPath string, roots []*sharetree.ShareDirectory, recursive bool, dupHandler DupeHandler) *FilelistDirectory {
	name := ""
	if len(roots) > 0 {
		name = roots[0].VirtualName()
	}

	fd := newFilelistDirectory(name)
	fd.contributors = append(fd.contributors, roots...)
	fd.mergeLevel(virtualPath, recursive, dupHandler)
	return fd
}

func (fd *FilelistDirectory) mergeLevel(virtualPath string, recursive bool, dupHandler DupeHandler) {
	for _, dir := range fd.contributors {
		for _, f := range dir.Files.Items() {
			lower := f.Name.Lower()
			if _, exists := fd.files[lower]; exists {
				if dupHandler != nil {
					dupHandler(virtualPath, f.Name.String())
				}
				continue
			}
			fd.files[lower] = f
			fd.fileOrder = append(fd.fileOrder, lower)
		}
	}

	if !recursive {
		for _, dir := range fd.contributors {
			for _, sub := range dir.Directories.Items() {
				fd.addChildPlaceholder(sub)
			}
		}
		return
	}

	groups := make(map[string][]*sharetree.ShareDirectory)
	var order []string
	for _, dir := range fd.contributors {
		for _, sub := range dir.Directories.Items() {
			lower := sub.VirtualNameLower()
			if _, seen := groups[lower]; !seen {
				order = append(order, lower)
			}
			groups[lower] = append(groups[lower], sub)
		}
	}

	for _, lower := range order {
		members := groups[lower]
		childPath := virtualPath + members[0].VirtualName() + "/"
		child := GenerateRoot(childPath, members, true, dupHandler)
		fd.children[lower] = child
		fd.childOrder = append(fd.childOrder, lower)
	}
}

func (fd *FilelistDirectory) addChildPlaceholder(dir *sharetree.ShareDirectory) {
	lower := dir.VirtualNameLower()
	if child, exists := fd.children[lower]; exists {
		child.contributors = append(child.contributors, dir)
		return
	}
	child := newFilelistDirectory(dir.VirtualName())
	child.contributors = []*sharetree.ShareDirectory{dir}
	fd.children[lower] = child
	fd.childOrder = append(fd.childOrder, lower)
}

// contentInfo sums size and DirectoryContentInfo across every
// contributing (but not descended-into) ShareDirectory, used to
// annotate a non-recursive emission's placeholder children.
func (fd *FilelistDirectory) contentInfo() (int64, sharetree.DirectoryContentInfo) {
	var size int64
	var info sharetree.DirectoryContentInfo
	for _, dir := range fd.contributors {
		s, i := dir.GetContentInfo()
		size += s
		info = info.Add(i)
	}
	return size, info
}

type xmlFile struct {
	XMLName xml.Name `xml:"File"`
	Name    string   `xml:"Name,attr"`
	Size    int64    `xml:"Size,attr"`
	TTH     string   `xml:"TTH,attr"`
}

type xmlDirectory struct {
	XMLName     xml.Name       `xml:"Directory"`
	Name        string         `xml:"Name,attr"`
	Date        string         `xml:"Date,attr,omitempty"`
	Incomplete  string         `xml:"Incomplete,attr,omitempty"`
	Files       uint64         `xml:"Files,attr,omitempty"`
	Size        int64          `xml:"Size,attr,omitempty"`
	Directories []xmlDirectory `xml:"Directory"`
	FileList    []xmlFile      `xml:"File"`
}

// ToXML renders fd (and, when recursive descendants were populated by
// GenerateRoot, every nested level) to w, writing one <File> element
// per distinct lowercased filename and one nested <Directory> element
// per distinct lowercased subdirectory name.
//
// Grounded on spec.md §4.6's FilelistDirectory.toXml description.
func (fd *FilelistDirectory) ToXML(w io.Writer) error {
	doc := fd.toXMLElement(false)
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

func (fd *FilelistDirectory) toXMLElement(incomplete bool) xmlDirectory {
	elem := xmlDirectory{Name: fd.Name}

	for _, lower := range fd.fileOrder {
		f := fd.files[lower]
		elem.FileList = append(elem.FileList, xmlFile{Name: f.Name.String(), Size: f.Size, TTH: f.TTH.String()})
	}

	for _, lower := range fd.childOrder {
		child := fd.children[lower]
		if len(child.contributors) > 0 && len(child.children) == 0 && len(child.files) == 0 && incomplete {
			size, info := child.contentInfo()
			elem.Directories = append(elem.Directories, xmlDirectory{
				Name:       child.Name,
				Incomplete: "1",
				Files:      uint64(info.Files),
				Size:       size,
			})
			continue
		}
		elem.Directories = append(elem.Directories, child.toXMLElement(incomplete))
	}

	return elem
}

// filelistXMLHeader is the XML declaration that opens every filelist
// document. WriteFilelist then writes the <FileListing ...> root
// element by hand (rather than via xml.Marshal of a wrapper struct) so
// CID/Base/BaseDate/Generator render in the exact attribute order the
// DC++ filelist format expects.
const filelistXMLHeader = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` + "\n"

// WriteFilelist emits a full filelist XML document for virtualPath,
// merging every ShareDirectory that claims that ADC path under
// profiles into one view, per spec.md §4.6's ShareTree::toFilelist.
// If virtualPath is "/", the document root's children are the share
// roots visible under profiles themselves, same-named roots merged into
// one child. A non-recursive emission still writes the first level of
// children but marks each as Incomplete="1" with a content-info summary
// in place of their own children.
func WriteFilelist(w io.Writer, tree *sharetree.ShareTree, virtualPath string, profiles sharetree.ProfileTokenSet, recursive bool, cid string, generator string, dupHandler DupeHandler) error {
	dirs, err := tree.FindVirtuals(virtualPath, profiles)
	if err != nil {
		return err
	}

	var root *FilelistDirectory
	if virtualPath == "/" {
		root = newFilelistDirectory("")
		for _, d := range dirs {
			root.addChildPlaceholder(d)
		}
		if recursive {
			for _, lower := range root.childOrder {
				child := root.children[lower]
				root.children[lower] = GenerateRoot("/"+child.Name+"/", child.contributors, true, dupHandler)
			}
		}
	} else {
		root = GenerateRoot(virtualPath, dirs, recursive, dupHandler)
	}

	if _, err := io.WriteString(w, filelistXMLHeader); err != nil {
		return err
	}

	baseDate := time.Now().UTC().Format(time.RFC3339)
	fmt.Fprintf(w, `<FileListing Version="1" CID=%q Base=%q BaseDate=%q Generator=%q>`+"\n", cid, virtualPath, baseDate, generator)

	elem := root.toXMLElement(!recursive)
	elem.Name = ""
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	for _, f := range elem.FileList {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	for _, d := range elem.Directories {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	_, err = io.WriteString(w, "</FileListing>\n")
	return err
}
