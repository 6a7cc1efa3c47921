package filelist

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// xmlFileListingRoot decodes a full filelist document as emitted by
// WriteFilelist: the <FileListing> root plus its top-level children.
type xmlFileListingRoot struct {
	XMLName     xml.Name       `xml:"FileListing"`
	Version     string         `xml:"Version,attr"`
	CID         string         `xml:"CID,attr"`
	Base        string         `xml:"Base,attr"`
	BaseDate    string         `xml:"BaseDate,attr"`
	Generator   string         `xml:"Generator,attr"`
	Directories []xmlDirectory `xml:"Directory"`
	FileList    []xmlFile      `xml:"File"`
}

// rootProbe reads just enough of a document to tell a full
// <FileListing> document apart from a single <Directory> fragment
// (the response to a partial/subtree load), without committing to
// either decode target up front.
type rootProbe struct {
	XMLName xml.Name
}

// EnsurePath walks a '/'-delimited path from d, creating any missing
// intermediate directories, and returns the final directory.
func (d *Directory) EnsurePath(path string) *Directory {
	path = strings.Trim(path, "/")
	if path == "" {
		return d
	}

	cur := d
	for _, segment := range strings.Split(path, "/") {
		cur = cur.EnsureDirectory(segment)
	}
	return cur
}

// LoadXML parses filelist XML read from r and merges it into
// listing's mirror tree, attaching fragment content at basePath. It
// accepts two shapes, mirroring spec.md §4.6's "full document or
// fragment" loading modes:
//
//   - A full <FileListing Base="..."> document, whose own Base
//     attribute determines where its children attach (this is what a
//     complete filelist fetch returns).
//   - A single <Directory> fragment, the response to a partial/subtree
//     load, which attaches at basePath.
//
// It returns the number of directory nodes (including nested ones)
// that were parsed and marked complete.
func LoadXML(listing *Listing, basePath string, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("filelist: read xml: %w", err)
	}

	var probe rootProbe
	if err := xml.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("filelist: parse xml: %w", err)
	}

	switch probe.XMLName.Local {
	case "FileListing":
		var doc xmlFileListingRoot
		if err := xml.Unmarshal(data, &doc); err != nil {
			return 0, fmt.Errorf("filelist: parse FileListing: %w", err)
		}
		attachPath := doc.Base
		if attachPath == "" {
			attachPath = basePath
		}
		target := listing.Root.EnsurePath(attachPath)
		target.Complete = true
		count, err := applyChildren(target, doc.Directories, doc.FileList)
		return count + 1, err

	case "Directory":
		var frag xmlDirectory
		if err := xml.Unmarshal(data, &frag); err != nil {
			return 0, fmt.Errorf("filelist: parse Directory: %w", err)
		}
		target := listing.Root.EnsurePath(basePath)
		target.Complete = frag.Incomplete != "1"
		count, err := applyChildren(target, frag.Directories, frag.FileList)
		return count + 1, err

	default:
		return 0, fmt.Errorf("filelist: unexpected root element %q", probe.XMLName.Local)
	}
}

// applyChildren merges dirs/files into target, recursing into
// complete nested directories and leaving Incomplete="1" ones as
// unloaded placeholders (LoadNone, Complete=false) ready for a future
// RequestDirectoryChange.
func applyChildren(target *Directory, dirs []xmlDirectory, files []xmlFile) (int, error) {
	for _, f := range files {
		tth, err := sharetree.ParseTTH(f.TTH)
		if err != nil {
			return 0, fmt.Errorf("filelist: file %q: %w", f.Name, err)
		}
		target.AddFile(f.Name, f.Size, tth)
	}

	count := 0
	for _, d := range dirs {
		child := target.EnsureDirectory(d.Name)

		if d.Incomplete == "1" {
			child.Complete = false
			child.LoadType = LoadNone
			continue
		}

		child.Complete = true
		count++
		nested, err := applyChildren(child, d.Directories, d.FileList)
		if err != nil {
			return count, err
		}
		count += nested
	}

	return count, nil
}
