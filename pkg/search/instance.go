package search

import (
	"sync"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// InstanceToken identifies one Instance for the lifetime of a search
// session (one GUI search tab, or one API-driven search request).
type InstanceToken string

// Listener receives the lifecycle and result events an Instance fires
// as raw results are matched and grouped.
//
// Grounded on the original source's SearchInstanceListener
// (SearchInstanceListener.h) event set — modeled here as a plain Go
// interface rather than the original's numbered-template Speaker/fire
// dispatch, following the teacher's callback-interface idiom used by
// pkg/metadata/lock.LeaseBreakCallback.
type Listener interface {
	// OnGroupedResultAdded fires the first time a result for a new TTH
	// arrives, creating its group.
	OnGroupedResultAdded(group *GroupedResult)
	// OnGroupedResultUpdated fires when a subsequent result for an
	// already-grouped TTH is accepted as a new child.
	OnGroupedResultUpdated(group *GroupedResult)
	// OnUserResult fires once per accepted raw result, after whichever
	// of OnGroupedResultAdded/OnGroupedResultUpdated applies.
	OnUserResult(result *Result, group *GroupedResult)
	// OnReset fires when the instance is reused for a new search,
	// discarding all previously grouped results.
	OnReset()
}

// Instance is one search session: a query matcher, its accumulated
// grouped results, and the listeners watching it.
//
// Grounded on the original source's SearchInstance
// (SearchInstance.h/.cpp): a per-session TTH->GroupedSearchResult map
// guarded by a shared mutex, with on(SearchManagerListener::SR)
// driving the create-or-update grouping logic reproduced in
// HandleResult. The SharedMutex there is a plain sync.RWMutex here,
// the same coordinator idiom used throughout pkg/sharetree.
type Instance struct {
	Token     InstanceToken
	OwnerID   string
	ExpiresAt time.Time

	mu                 sync.RWMutex
	matcher            *Query
	currentSearchToken string
	results            map[sharetree.TTHValue]*GroupedResult
	filteredCount      int

	listenersMu sync.Mutex
	listeners   []Listener
}

// NewInstance creates an Instance owned by ownerID, expiring at
// expiresAt (the zero Time means it never expires).
func NewInstance(token InstanceToken, ownerID string, expiresAt time.Time) *Instance {
	return &Instance{
		Token:     token,
		OwnerID:   ownerID,
		ExpiresAt: expiresAt,
		results:   make(map[sharetree.TTHValue]*GroupedResult),
	}
}

// AddListener registers l to receive this instance's events.
func (in *Instance) AddListener(l Listener) {
	in.listenersMu.Lock()
	defer in.listenersMu.Unlock()
	in.listeners = append(in.listeners, l)
}

// RemoveListener unregisters l.
func (in *Instance) RemoveListener(l Listener) {
	in.listenersMu.Lock()
	defer in.listenersMu.Unlock()
	for i, existing := range in.listeners {
		if existing == l {
			in.listeners = append(in.listeners[:i], in.listeners[i+1:]...)
			return
		}
	}
}

// Reset discards all grouped results and adopts matcher/searchToken for
// a new search, firing OnReset.
//
// Grounded on SearchInstance::reset.
func (in *Instance) Reset(matcher *Query, searchToken string) {
	in.mu.Lock()
	in.matcher = matcher
	in.currentSearchToken = searchToken
	in.results = make(map[sharetree.TTHValue]*GroupedResult)
	in.filteredCount = 0
	in.mu.Unlock()

	in.forEachListener(func(l Listener) { l.OnReset() })
}

// CurrentSearchToken returns the ADC search token of the in-flight
// search, as set by the last call to Reset.
func (in *Instance) CurrentSearchToken() string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.currentSearchToken
}

// Matcher returns the query matcher adopted by the last call to Reset,
// or nil if none has happened yet.
func (in *Instance) Matcher() *Query {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.matcher
}

// HandleResult groups one raw incoming result by TTH, firing the
// appropriate added/updated and user-result events.
//
// Grounded on SearchInstance::on(SearchManagerListener::SR,...): a new
// TTH creates a group and fires GroupedResultAdded; an existing TTH
// tries to add a child, firing GroupedResultUpdated only if the child
// was accepted (not a duplicate-user result), and firing UserResult
// unconditionally once a result is accepted either way.
func (in *Instance) HandleResult(result *Result, relevance RelevanceInfo) {
	in.mu.Lock()
	group, existed := in.results[result.TTH]
	created := false
	if !existed {
		group = NewGroupedResult(result, relevance)
		in.results[result.TTH] = group
		created = true
	}
	in.mu.Unlock()

	if created {
		in.forEachListener(func(l Listener) { l.OnGroupedResultAdded(group) })
	} else {
		if !group.AddChildResult(result) {
			return
		}
		in.forEachListener(func(l Listener) { l.OnGroupedResultUpdated(group) })
	}

	in.forEachListener(func(l Listener) { l.OnUserResult(result, group) })
}

// IncrementFiltered records that one incoming result was rejected by
// the local matcher before ever reaching HandleResult, for
// FilteredResultCount reporting.
func (in *Instance) IncrementFiltered() {
	in.mu.Lock()
	in.filteredCount++
	in.mu.Unlock()
}

// FilteredResultCount returns how many incoming results this instance
// has rejected since the last Reset.
func (in *Instance) FilteredResultCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.filteredCount
}

// ResultCount returns the number of distinct TTH groups accumulated so
// far.
func (in *Instance) ResultCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.results)
}

// Result returns the group for tth, or nil if no result for that TTH
// has arrived.
func (in *Instance) Result(tth sharetree.TTHValue) *GroupedResult {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.results[tth]
}

// ResultList returns every accumulated group, in no particular order.
func (in *Instance) ResultList() []*GroupedResult {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]*GroupedResult, 0, len(in.results))
	for _, g := range in.results {
		out = append(out, g)
	}
	return out
}

// ResultsByRelevance returns every accumulated group sorted by
// descending TotalRelevance, the most relevant result first.
func (in *Instance) ResultsByRelevance() []*GroupedResult {
	out := in.ResultList()
	SortByRelevanceDesc(out)
	return out
}

// Expired reports whether this instance's expiry deadline has passed
// as of now.
func (in *Instance) Expired(now time.Time) bool {
	return !in.ExpiresAt.IsZero() && now.After(in.ExpiresAt)
}

func (in *Instance) forEachListener(fn func(Listener)) {
	in.listenersMu.Lock()
	snapshot := make([]Listener, len(in.listeners))
	copy(snapshot, in.listeners)
	in.listenersMu.Unlock()

	for _, l := range snapshot {
		fn(l)
	}
}
