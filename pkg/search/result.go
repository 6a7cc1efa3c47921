package search

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// ItemKind distinguishes a file result from a directory result.
type ItemKind int

const (
	KindFile ItemKind = iota
	KindDirectory
)

var nextResultID uint64

// nextID hands out a process-wide monotonic SearchResult identifier.
//
// Grounded on the original source's SearchResult::id (a plain
// incrementing counter assigned at construction time in
// SearchManager.cpp); an atomic counter is the Go idiom the teacher
// uses in internal/telemetry for request ids.
func nextID() uint64 {
	return atomic.AddUint64(&nextResultID, 1)
}

// Result is one raw, ungrouped hit returned by a single peer for a
// single search request.
//
// Grounded on the original source's SearchResult (SearchResult.h):
// hinted user, type, slot counts, size, ADC path, remote IP, TTH,
// originating search token, date, connection-speed string, and
// directory content summary.
type Result struct {
	ID              uint64
	User            sharetree.CID
	HubHint         string
	Kind            ItemKind
	TotalSlots      int
	FreeSlots       int
	Size            int64
	AdcPath         string
	IP              string
	TTH             sharetree.TTHValue
	SearchToken     string
	Date            time.Time
	ConnectionSpeed string
	Content         sharetree.DirectoryContentInfo
}

// NewResult builds a Result and assigns it the next monotonic id.
func NewResult(user sharetree.CID, hubHint string, kind ItemKind, totalSlots, freeSlots int, size int64, adcPath, ip string, tth sharetree.TTHValue, searchToken string, date time.Time, connectionSpeed string, content sharetree.DirectoryContentInfo) *Result {
	return &Result{
		ID:              nextID(),
		User:            user,
		HubHint:         hubHint,
		Kind:            kind,
		TotalSlots:      totalSlots,
		FreeSlots:       freeSlots,
		Size:            size,
		AdcPath:         adcPath,
		IP:              ip,
		TTH:             tth,
		SearchToken:     searchToken,
		Date:            date,
		ConnectionSpeed: connectionSpeed,
		Content:         content,
	}
}

// FileName returns the last ADC path segment, whether the result is a
// file or a directory.
func (r *Result) FileName() string {
	return lastAdcSegment(r.AdcPath)
}

// ConnectionInt parses ConnectionSpeed as an integer bytes/second value,
// returning 0 if it is not numeric. Grounded on
// SearchResult::getConnectionInt, which strips everything after the
// numeric prefix of the connection string.
func (r *Result) ConnectionInt() int64 {
	n := 0
	for n < len(r.ConnectionSpeed) && r.ConnectionSpeed[n] >= '0' && r.ConnectionSpeed[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseInt(r.ConnectionSpeed[:n], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// RelevanceInfo is the matcher-computed relevance carried alongside a
// raw Result into its GroupedSearchResult, mirroring the original's
// SearchResult::RelevanceInfo pair.
type RelevanceInfo struct {
	MatchRelevance    float64
	SourceScoreFactor float64
}

func lastAdcSegment(adcPath string) string {
	end := len(adcPath)
	for end > 0 && adcPath[end-1] == '/' {
		end--
	}
	start := end
	for start > 0 && adcPath[start-1] != '/' {
		start--
	}
	return adcPath[start:end]
}
