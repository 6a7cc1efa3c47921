package sharetree

import "time"

// QueryMatcher is the narrow interface ShareDirectory's ranking walk
// needs from a parsed search query. It is defined here, not in
// pkg/search, so that pkg/sharetree never imports pkg/search — pkg/search
// imports pkg/sharetree for TTHValue/ShareDirectory/ShareFile and
// implements QueryMatcher on its SearchQuery type, avoiding an import
// cycle while still letting the tree walk stay fully in the teacher's
// "accept interfaces" idiom.
//
// Grounded on the original source's SearchQuery as used from
// ShareDirectory::search (share/ShareDirectory.cpp): every method here
// corresponds 1:1 to a call made during that walk.
type QueryMatcher interface {
	// IsExcludedLower reports whether nameLower matches an exclude token.
	IsExcludedLower(nameLower string) bool
	// MatchesDirectoryLower reports whether the directory name matches
	// any include token.
	MatchesDirectoryLower(nameLower string) bool
	// PositionsComplete reports whether every include token has matched
	// somewhere along the current path.
	PositionsComplete() bool
	// AcceptsDirectories reports whether the query's item-type filter
	// allows directory results.
	AcceptsDirectories() bool
	// AcceptsFiles reports whether the query's item-type filter allows
	// file results.
	AcceptsFiles() bool
	// MatchesDate reports whether t satisfies the query's date bounds.
	MatchesDate(t time.Time) bool
	// IsPathPartial reports whether the query's matchType is
	// PATH_PARTIAL (enabling recursive positional matching).
	IsPathPartial() bool
	// HasValidPartialMatch reports whether the current partial match is
	// substantial enough to start a recursion frame (not every position
	// is a too-short fragment).
	HasValidPartialMatch() bool
	// AddParents reports whether the query wants only the parent
	// directory of the first file match, stopping after one hit.
	AddParents() bool
	// MatchesFileLower reports whether a file matches the query's
	// include/exclude/size/date/filetype constraints.
	MatchesFileLower(nameLower string, size int64, lastWrite time.Time) bool
	// EnterRecursion pushes a recursion frame scoped to dirNameLower and
	// returns a function that pops it; callers must always invoke the
	// returned function once done with the subtree, typically via
	// defer.
	EnterRecursion(dirNameLower string) (exit func())
	// RelevanceScore computes the ranking score for a hit at the given
	// depth against nameLower.
	RelevanceScore(level int, isDirectory bool, nameLower string) float64
}

// SearchHitType distinguishes a directory hit from a file hit in a
// SearchHit.
type SearchHitType uint8

const (
	// HitFile marks a SearchHit whose File field is populated.
	HitFile SearchHitType = iota
	// HitDirectory marks a SearchHit whose Directory field is populated.
	HitDirectory
)

// SearchHit is one ranked match produced by ShareDirectory.Search.
type SearchHit struct {
	Type      SearchHitType
	Directory *ShareDirectory
	File      *ShareFile
	Score     float64
}

// Search performs the recursive ranking walk documented in the original
// source's long comment above ShareDirectory::search: a match in the
// filename is cheaper to find than one in the directory name, so file
// matching does not need to touch the recursion machinery at all; only
// a directory-name match (in PATH_PARTIAL mode) pushes a recursion
// frame that descendants consult.
func (d *ShareDirectory) Search(matcher QueryMatcher, level int, out *[]SearchHit) {
	dirNameLower := d.VirtualNameLower()
	if matcher.IsExcludedLower(dirNameLower) {
		return
	}

	if matcher.MatchesDirectoryLower(dirNameLower) {
		if matcher.AcceptsDirectories() && matcher.PositionsComplete() && matcher.MatchesDate(d.LastWrite) {
			*out = append(*out, SearchHit{
				Type:      HitDirectory,
				Directory: d,
				Score:     matcher.RelevanceScore(level, true, dirNameLower),
			})
		}

		if matcher.IsPathPartial() && matcher.HasValidPartialMatch() {
			exit := matcher.EnterRecursion(dirNameLower)
			defer exit()
		}
	}

	level++

	if matcher.AcceptsFiles() {
		for _, f := range d.Files.Items() {
			if !matcher.MatchesFileLower(f.Name.Lower(), f.Size, f.LastWrite) {
				continue
			}
			if matcher.AddParents() {
				*out = append(*out, SearchHit{
					Type:      HitDirectory,
					Directory: d,
					Score:     matcher.RelevanceScore(level-1, true, dirNameLower),
				})
				break
			}
			*out = append(*out, SearchHit{
				Type:  HitFile,
				File:  f,
				Score: matcher.RelevanceScore(level, false, f.Name.Lower()),
			})
		}
	}

	for _, sub := range d.Directories.Items() {
		sub.Search(matcher, level, out)
	}
}

// SearchStats carries the per-query counters of one SearchText call:
// whether a tree walk ran (Recursive), whether the query was filtered
// out by a bloom miss before any walk happened (Filtered), and how many
// results were ultimately returned (Responded).
type SearchStats struct {
	Recursive bool
	Filtered  bool
	Responded int
}

// SearchText is the tree-wide search facade: it short-circuits on a
// bloom-filter miss (every include token must be a
// bloom member or the query cannot possibly match anything), walks
// every root visible to profile, ranks the results, and truncates to
// maxResults.
//
// Grounded on the original source's ShareManager::search (referred to
// in SPEC_FULL.md as ShareTree::searchText): the bloom check and
// profile-root enumeration happen before any tree walk, exactly as here.
func (t *ShareTree) SearchText(matcher QueryMatcher, includeTokensLower []string, profiles ProfileTokenSet, maxResults int) ([]SearchHit, SearchStats) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, tok := range includeTokensLower {
		if !t.ix.bloom.Contains(tok) {
			return nil, SearchStats{Filtered: true}
		}
	}

	var hits []SearchHit
	for _, root := range t.ix.rootPaths {
		if !root.HasAnyProfile(profiles) {
			continue
		}
		root.Search(matcher, 0, &hits)
	}

	sortHitsByScoreDesc(hits)

	stats := SearchStats{Recursive: true}
	if len(hits) > maxResults && maxResults > 0 {
		hits = hits[:maxResults]
	}
	stats.Responded = len(hits)

	return hits, stats
}

func sortHitsByScoreDesc(hits []SearchHit) {
	// Insertion sort; result sets are small and arrive mostly unordered
	// per-root, so this stays cheaper than setting up a slices.SortFunc
	// closure for a one-shot sort.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Score > hits[j-1].Score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}
