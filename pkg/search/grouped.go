package search

import (
	"sync"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// GroupedResult merges every raw Result sharing one TTH into a single
// entry ranked by relevance and deduplicated by source user.
//
// Grounded on the original source's GroupedSearchResult
// (GroupedSearchResult.h/.cpp): a base result plus an ordered list of
// child results, a cached relevance pair, and a FastLock-guarded
// mutation path — reworked here as a single sync.Mutex over the
// mutable child slice, the same one-lock-per-coordinator idiom used by
// pkg/sharetree.ShareTree and pkg/tempshare.Manager.
type GroupedResult struct {
	mu       sync.Mutex
	base     *Result
	children []*Result
	relevance RelevanceInfo
}

// NewGroupedResult starts a new group from its first child result.
func NewGroupedResult(base *Result, relevance RelevanceInfo) *GroupedResult {
	return &GroupedResult{
		base:      base,
		children:  []*Result{base},
		relevance: relevance,
	}
}

// HasUser reports whether user already contributed a child result to
// this group.
func (g *GroupedResult) HasUser(user sharetree.CID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasUserLocked(user)
}

func (g *GroupedResult) hasUserLocked(user sharetree.CID) bool {
	for _, c := range g.children {
		if c.User == user {
			return true
		}
	}
	return false
}

// AddChildResult appends result to the group, unless its user already
// contributed one — per spec.md's dedup rule (no duplicate results for
// the same user received via different hubs).
func (g *GroupedResult) AddChildResult(result *Result) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hasUserLocked(result.User) {
		return false
	}
	g.children = append(g.children, result)
	return true
}

// IsDirectory reports whether the group's base result is a directory.
func (g *GroupedResult) IsDirectory() bool {
	return g.base.Kind == KindDirectory
}

// Token identifies the group by its TTH in base32, the same identity
// the original source uses (GroupedSearchResult::getToken).
func (g *GroupedResult) Token() string {
	return g.base.TTH.String()
}

// TTH returns the group's shared TTH.
func (g *GroupedResult) TTH() sharetree.TTHValue {
	return g.base.TTH
}

// Size returns the base result's size.
func (g *GroupedResult) Size() int64 {
	return g.base.Size
}

// AdcPath returns the base result's ADC path.
func (g *GroupedResult) AdcPath() string {
	return g.base.AdcPath
}

// BaseUser returns the user that produced the group's base (first)
// result.
func (g *GroupedResult) BaseUser() sharetree.CID {
	return g.base.User
}

// Hits returns the number of distinct users that have contributed a
// result to this group.
func (g *GroupedResult) Hits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.children)
}

// ConnectionSpeed sums every child's parsed connection speed.
//
// Grounded on GroupedSearchResult::getConnectionSpeed's boost::accumulate
// over getConnectionInt across children.
func (g *GroupedResult) ConnectionSpeed() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var total int64
	for _, c := range g.children {
		total += c.ConnectionInt()
	}
	return total
}

// SlotInfo is the aggregated free/total slot count across every child
// result in a group.
type SlotInfo struct {
	Free  int
	Total int
}

// Slots sums free and total slot counts across every child result.
func (g *GroupedResult) Slots() SlotInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	var info SlotInfo
	for _, c := range g.children {
		info.Free += c.FreeSlots
		info.Total += c.TotalSlots
	}
	return info
}

// ContentInfo returns the first child's non-empty directory content
// summary, falling back to the base result's if none of the children
// reported one.
//
// Grounded on GroupedSearchResult::getContentInfo: some hub protocols
// (NMDC) never populate content counts, so the group prefers whichever
// child actually did.
func (g *GroupedResult) ContentInfo() sharetree.DirectoryContentInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.children {
		if c.Content.Files != 0 || c.Content.Directories != 0 {
			return c.Content
		}
	}
	return g.base.Content
}

// OldestDate returns the earliest Date among every child result.
//
// Grounded on GroupedSearchResult::getOldestDate, which takes the
// minimum over SearchResult::DateOrder (oldest first, zero dates last).
func (g *GroupedResult) OldestDate() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	oldest := g.children[0].Date
	for _, c := range g.children[1:] {
		if c.Date.IsZero() {
			continue
		}
		if oldest.IsZero() || c.Date.Before(oldest) {
			oldest = c.Date
		}
	}
	return oldest
}

// FileName returns the plurality-vote file name across every child
// result, falling back to the base result's name on a tie.
//
// Grounded on GroupedSearchResult::getFileName: counts occurrences of
// each distinct reported name and returns the unique maximum, or the
// base result's name if more than one name ties for the lead.
func (g *GroupedResult) FileName() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	counts := make(map[string]int)
	for _, c := range g.children {
		counts[c.FileName()]++
	}

	maxCount := 0
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}

	leader := ""
	ties := 0
	for name, n := range counts {
		if n == maxCount {
			ties++
			leader = name
		}
	}
	if ties == 1 {
		return leader
	}
	return g.base.FileName()
}

// Children returns a snapshot of every child result in the group.
func (g *GroupedResult) Children() []*Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Result, len(g.children))
	copy(out, g.children)
	return out
}

// TotalRelevance combines the hit count with the group's cached
// relevance pair: more independent sources raise a group's rank, scaled
// by a source-score factor, on top of the match-quality relevance.
//
// Grounded on GroupedSearchResult::getTotalRelevance's exact formula:
// hits * sourceScoreFactor + matchRelevance.
func (g *GroupedResult) TotalRelevance() float64 {
	return float64(g.Hits())*g.relevance.SourceScoreFactor + g.relevance.MatchRelevance
}

// MatchRelevance returns the cached query-match relevance component
// alone, without the source-count contribution.
func (g *GroupedResult) MatchRelevance() float64 {
	return g.relevance.MatchRelevance
}

// SortByRelevanceDesc sorts groups by descending TotalRelevance in
// place using an insertion sort, matching the small-result-set choice
// already made for pkg/sharetree.sortHitsByScoreDesc.
func SortByRelevanceDesc(groups []*GroupedResult) {
	for i := 1; i < len(groups); i++ {
		j := i
		for j > 0 && groups[j-1].TotalRelevance() < groups[j].TotalRelevance() {
			groups[j-1], groups[j] = groups[j], groups[j-1]
			j--
		}
	}
}
