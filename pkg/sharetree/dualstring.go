package sharetree

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// caseFolder performs locale-independent Unicode lowercasing. It is used
// instead of strings.ToLower so that share names containing
// locale-sensitive characters (Turkish dotless i, German sharp s, etc.)
// fold the same way regardless of the host's locale, matching a search
// index that must be stable across machines.
var caseFolder = cases.Lower(language.Und)

// DualString stores a name alongside its lowercase form so repeated
// search comparisons never need to re-fold the same string. The two
// forms always satisfy lower == fold(normal); construct via
// NewDualString rather than struct literal to preserve that invariant.
//
// Grounded on the original source's DualString class, which exists for
// exactly this reason in AirDC++'s share index (avoid refolding names on
// every search token comparison); no teacher type covers this concern
// directly, so the shape is taken straight from the original header with
// Go-idiomatic accessors in place of public fields.
type DualString struct {
	normal string
	lower  string
}

// NewDualString builds a DualString from s, computing its lowercase form
// once. If s happens to already be fully lowercase, the same backing
// string is reused for both fields.
func NewDualString(s string) DualString {
	lower := caseFolder.String(s)
	return DualString{normal: s, lower: lower}
}

// String returns the original-case form.
func (d DualString) String() string { return d.normal }

// Lower returns the precomputed lowercase form.
func (d DualString) Lower() string { return d.lower }

// IsEmpty reports whether the underlying name is the empty string.
func (d DualString) IsEmpty() bool { return d.normal == "" }

// DirectoryContentInfo summarizes the direct and recursive contents of a
// share directory: counts of files and subdirectories, used both for
// client-facing "X files, Y folders" display and for incremental size
// bookkeeping during refresh.
//
// Grounded on the original source's DirectoryContentInfo (referenced from
// ShareDirectory.h) — a plain counter pair with an accumulate-style
// merge operation, which Go expresses as a value type with an Add method
// rather than mutable in-place fields.
type DirectoryContentInfo struct {
	Files       int
	Directories int
}

// Add returns the element-wise sum of c and other.
func (c DirectoryContentInfo) Add(other DirectoryContentInfo) DirectoryContentInfo {
	return DirectoryContentInfo{
		Files:       c.Files + other.Files,
		Directories: c.Directories + other.Directories,
	}
}
