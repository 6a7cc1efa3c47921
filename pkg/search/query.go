// Package search implements the recursive query matcher
// (SearchQuery/Recursion), ranked result types (SearchResult,
// GroupedSearchResult), and the search coordinator (SearchManager,
// SearchInstance, SUDP encryption) that answer and fan out DC/ADC
// searches over a share tree.
package search

import (
	"strings"
	"time"
)

// MatchType selects whether a query must match a full path segment or
// may match a partial, recursively-extended fragment.
type MatchType int

const (
	// MatchPathFull requires every include token to match within a
	// single filename or directory name.
	MatchPathFull MatchType = iota
	// MatchPathPartial allows an include token to match a directory
	// name and carry the remaining unmatched tokens down into
	// descendants via a Recursion frame.
	MatchPathPartial
)

// ItemType restricts which kind of share node a query may match.
type ItemType int

const (
	// ItemAny matches both files and directories.
	ItemAny ItemType = iota
	// ItemFile matches files only.
	ItemFile
	// ItemDirectory matches directories only.
	ItemDirectory
)

// FileTypeMode restricts matches to files with an extension belonging
// to a named category, independent of the include/exclude token sets.
type FileTypeMode int

const (
	FileTypeAny FileTypeMode = iota
	FileTypeAudio
	FileTypeCompressed
	FileTypeDocument
	FileTypeExecutable
	FileTypePicture
	FileTypeVideo
	FileTypeDirectory
	FileTypeTTH
)

// Recursion carries partial-match state down one branch of the tree
// walk: which positions in the accumulated ADC path the already-matched
// include tokens occupy, so descendants can compute the
// consecutive-token relevance bonus and know which tokens remain
// unsatisfied.
//
// Grounded on spec.md §9's "Partial matching with recursion state"
// design note: modeled as an explicit frame pushed on entry and popped
// on exit, never as shared mutable global state — here a plain struct
// value swapped in and restored by the caller via EnterRecursion's
// returned closure, the same "old := x; defer func(){x = old}()"
// pattern the teacher uses for scoped context overrides in
// internal/logger.
type Recursion struct {
	depth     int
	positions []int
}

func newRecursion(q *Query, dirNameLower string) *Recursion {
	r := &Recursion{positions: append([]int(nil), q.lastPositions...)}
	return r
}

func (r *Recursion) increase(nameLen int) { r.depth += nameLen }
func (r *Recursion) decrease(nameLen int) { r.depth -= nameLen }

// Query is the parsed form of a search request.
//
// Grounded on spec.md §3's SearchQuery field list and the original
// source's SearchQuery class referenced throughout
// share/ShareDirectory.cpp.
type Query struct {
	IncludeLower []string
	ExcludeLower []string
	SizeMin      *int64
	SizeMax      *int64
	DateMin      *time.Time
	DateMax      *time.Time
	FileType     FileTypeMode
	TTH          *string
	MaxResults   int
	MatchType    MatchType
	AddParentsFlag bool
	ItemType     ItemType

	lastPositions []int
	recursion     *Recursion
}

// NewQuery builds a Query from already-lowercased include/exclude token
// sets.
func NewQuery(includeLower, excludeLower []string) *Query {
	positions := make([]int, len(includeLower))
	for i := range positions {
		positions[i] = -1
	}
	return &Query{
		IncludeLower:  includeLower,
		ExcludeLower:  excludeLower,
		MaxResults:    10,
		lastPositions: positions,
	}
}

// IsExcludedLower reports whether nameLower contains any exclude token.
func (q *Query) IsExcludedLower(nameLower string) bool {
	for _, tok := range q.ExcludeLower {
		if strings.Contains(nameLower, tok) {
			return true
		}
	}
	return false
}

// MatchesDirectoryLower reports whether nameLower matches at least one
// include token, recording match positions for PositionsComplete and
// the consecutive-token bonus.
func (q *Query) MatchesDirectoryLower(nameLower string) bool {
	matched := false
	for i, tok := range q.IncludeLower {
		if pos := strings.Index(nameLower, tok); pos >= 0 {
			q.lastPositions[i] = pos
			matched = true
		} else {
			q.lastPositions[i] = -1
		}
	}
	return matched
}

// PositionsComplete reports whether every include token has a recorded
// match position.
func (q *Query) PositionsComplete() bool {
	for _, p := range q.lastPositions {
		if p < 0 {
			return false
		}
	}
	return len(q.lastPositions) > 0
}

// AcceptsDirectories reports whether the query's item-type filter
// allows directory results.
func (q *Query) AcceptsDirectories() bool {
	return q.ItemType != ItemFile
}

// AcceptsFiles reports whether the query's item-type filter allows file
// results.
func (q *Query) AcceptsFiles() bool {
	return q.ItemType != ItemDirectory
}

// MatchesDate reports whether t satisfies the query's date bounds.
func (q *Query) MatchesDate(t time.Time) bool {
	if q.DateMin != nil && t.Before(*q.DateMin) {
		return false
	}
	if q.DateMax != nil && t.After(*q.DateMax) {
		return false
	}
	return true
}

// IsPathPartial reports whether the query's match type is
// MatchPathPartial.
func (q *Query) IsPathPartial() bool {
	return q.MatchType == MatchPathPartial
}

// HasValidPartialMatch reports whether the current partial match is
// substantial enough to start a recursion frame: either every position
// is complete, or at least one matched include token is longer than 2
// characters (ignoring matches from very short fragments).
func (q *Query) HasValidPartialMatch() bool {
	if q.PositionsComplete() {
		return true
	}
	for i, pos := range q.lastPositions {
		if pos >= 0 && len(q.IncludeLower[i]) > 2 {
			return true
		}
	}
	return false
}

// AddParents reports whether the query wants only the first file match
// per directory, aggregated as a parent-directory result.
func (q *Query) AddParents() bool {
	return q.AddParentsFlag
}

// MatchesFileLower reports whether a file matches every active
// constraint: include/exclude tokens, size bounds, date bounds, and
// filetype mode. Inside a Recursion frame, include tokens that the
// frame's directory name already matched are not required again.
func (q *Query) MatchesFileLower(nameLower string, size int64, lastWrite time.Time) bool {
	if q.IsExcludedLower(nameLower) {
		return false
	}
	for i, tok := range q.IncludeLower {
		if q.recursion != nil && i < len(q.recursion.positions) && q.recursion.positions[i] >= 0 {
			continue
		}
		if !strings.Contains(nameLower, tok) {
			return false
		}
	}
	if q.SizeMin != nil && size < *q.SizeMin {
		return false
	}
	if q.SizeMax != nil && size > *q.SizeMax {
		return false
	}
	if !q.MatchesDate(lastWrite) {
		return false
	}
	if q.FileType != FileTypeAny && q.FileType != FileTypeDirectory && !matchesFileType(nameLower, q.FileType) {
		return false
	}
	return true
}

// EnterRecursion pushes a Recursion frame scoped to dirNameLower,
// returning a function that restores the previous frame.
func (q *Query) EnterRecursion(dirNameLower string) (exit func()) {
	old := q.recursion
	q.recursion = newRecursion(q, dirNameLower)
	return func() { q.recursion = old }
}

// RelevanceScore computes a 0..1-ish ranking score for a hit at the
// given depth, per spec.md §4.4's weighted-combination description:
// token-match ratio, match-length-to-name-length ratio, a
// consecutive-token bonus, and a depth penalty favoring shallower
// matches.
func (q *Query) RelevanceScore(level int, isDirectory bool, nameLower string) float64 {
	matchedTokens := 0
	matchedLen := 0
	consecutive := true
	lastEnd := -1

	for i, tok := range q.IncludeLower {
		pos := q.lastPositions[i]
		if pos < 0 {
			pos = strings.Index(nameLower, tok)
		}
		if pos < 0 {
			consecutive = false
			continue
		}
		matchedTokens++
		matchedLen += len(tok)
		if lastEnd >= 0 && pos > lastEnd+1 {
			consecutive = false
		}
		lastEnd = pos + len(tok)
	}

	total := len(q.IncludeLower)
	if total == 0 {
		total = 1
	}
	tokenRatio := float64(matchedTokens) / float64(total)

	nameLen := len(nameLower)
	if nameLen == 0 {
		nameLen = 1
	}
	lengthRatio := float64(matchedLen) / float64(nameLen)

	score := 0.5*tokenRatio + 0.3*lengthRatio
	if consecutive && matchedTokens > 1 {
		score += 0.1
	}
	if !isDirectory && q.FileType != FileTypeAny && matchesFileType(nameLower, q.FileType) {
		score += 0.1
	}

	depthPenalty := 1.0 / float64(1+level)
	return score * depthPenalty
}

func matchesFileType(nameLower string, mode FileTypeMode) bool {
	ext := ""
	if idx := strings.LastIndexByte(nameLower, '.'); idx >= 0 {
		ext = nameLower[idx+1:]
	}

	switch mode {
	case FileTypeAudio:
		return isOneOf(ext, "mp3", "flac", "ogg", "wav", "aac", "m4a")
	case FileTypeCompressed:
		return isOneOf(ext, "zip", "rar", "7z", "gz", "bz2", "tar")
	case FileTypeDocument:
		return isOneOf(ext, "txt", "pdf", "doc", "docx", "odt", "nfo")
	case FileTypeExecutable:
		return isOneOf(ext, "exe", "msi", "bin", "sh", "appimage")
	case FileTypePicture:
		return isOneOf(ext, "jpg", "jpeg", "png", "gif", "bmp", "webp")
	case FileTypeVideo:
		return isOneOf(ext, "mkv", "mp4", "avi", "mov", "webm")
	default:
		return false
	}
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
