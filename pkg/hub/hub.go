// Package hub defines the narrow collaborator interfaces the share
// index, search engine, and filelist subsystems consume from the rest
// of a DC++/ADC client: hub transport, filesystem access, hash
// resolution, and download queueing. Per spec.md's explicit non-goal,
// this package declares contracts only — no wire protocol, no actual
// hub connection, no on-disk queue.
package hub

import (
	"context"
	"io"
	"time"

	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
)

// HintedUser identifies a remote peer together with the hub a caller
// last saw them on, used to pick a transport route without forcing a
// fresh lookup.
//
// Grounded on the original source's HintedUser (referenced throughout
// DirectoryListing.h's constructor and getHintedUser accessor).
type HintedUser struct {
	CID     sharetree.CID
	HubHint string
}

// LoadFlags selects how a filelist fetch should be performed.
//
// Grounded on spec.md §4.6/§6's filelist loading modes (full vs.
// partial, normal vs. forced reload) carried through to the queueing
// layer so a caller can request e.g. a partial subtree list without a
// full document round trip.
type LoadFlags struct {
	Partial bool
	Reload  bool
	Path    string
}

// Ticket identifies one queued download/fetch request for later
// status lookup or cancellation.
type Ticket string

// QueueManager enqueues filelist fetches (and, in a full client, file
// downloads) against a remote peer, decoupling pkg/filelist's loader
// from however requests are actually scheduled and rate-limited.
//
// Grounded on spec.md §6's external-interfaces list; the original
// source's QueueManager was not retrieved in the pack, so only the one
// operation pkg/filelist's loader needs (EnqueueFilelist) is declared
// here.
type QueueManager interface {
	EnqueueFilelist(ctx context.Context, user HintedUser, flags LoadFlags) (Ticket, error)
}

// Listener receives inbound search result traffic ($SR/RES payloads)
// delivered by a HubConnector, independent of the hub protocol or
// transport encoding used to carry them.
//
// Grounded on the original source's SearchManagerListener (the same
// result-delivery role GroupedResult/Instance consume from in
// SearchInstance::on(SearchManagerListener::SR)), narrowed here to the
// one event a HubConnector can raise.
type Listener interface {
	OnSearchResult(raw []byte, fromHubURL string)
}

// InboundQuery is a parsed search request delivered by a hub
// connection, carrying exactly what ShareTree.SearchText needs to
// answer it: Matcher is implemented by the caller's parsed query type
// (pkg/search.Query satisfies sharetree.QueryMatcher), kept here as
// the narrow sharetree.QueryMatcher interface rather than the concrete
// *search.Query type.
type InboundQuery struct {
	Matcher            sharetree.QueryMatcher
	IncludeTokensLower []string
	Profiles           sharetree.ProfileTokenSet
	MaxResults         int
	FromHubURL         string
}

// QueryListener receives inbound search queries ($SCH/SEARCH payloads)
// delivered by a HubConnector: the inbound-query counterpart to
// Listener's inbound-result delivery. A caller wires this to
// pkg/search.Manager.Respond, which forwards straight into
// ShareTree.SearchText.
//
// Grounded on the original source's ClientManagerListener::IncomingSearch,
// the hub-side event that triggers SearchManager::respond
// (ClientManager.cpp/SearchManager.cpp).
type QueryListener interface {
	OnIncomingSearch(q InboundQuery) ([]sharetree.SearchHit, sharetree.SearchStats)
}

// HubConnector is the transport surface a search round needs: routing
// a Search to one hub and reporting back whether it was accepted, plus
// any throttling delay the hub imposed.
//
// Grounded on the original source's SearchManager::search/
// ClientManager::search call chain (SearchManager.cpp): queuing can
// fail outright, succeed immediately, or succeed with a reported
// minimum re-search delay, which QueueSearch's return shape preserves.
type HubConnector interface {
	QueueSearch(ctx context.Context, hubURL string, s *search.Search) (queued bool, delay time.Duration, err error)
	AddListener(Listener)
	RemoveListener(Listener)
	AddQueryListener(QueryListener)
	RemoveQueryListener(QueryListener)
}

// DirEntry is one filesystem entry returned by Filesystem.ReadDir,
// narrowed to the fields a share refresh needs.
type DirEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Filesystem is the narrow filesystem surface pkg/sharetree's refresh
// path needs: directory enumeration, atomic rename (for cache-file
// persistence), and an opener that transparently decompresses a
// bzip2-compressed cache file.
//
// Grounded on spec.md §6's note that this interface exists so
// pkg/sharetree's refresh code is testable against an in-memory fake
// rather than a real filesystem, the same narrow-collaborator-
// interface idiom the teacher uses for its own storage backends
// (pkg/registry's backing store is injected the same way).
type Filesystem interface {
	ReadDir(path string) ([]DirEntry, error)
	Open(path string) (io.ReadCloser, error)
	// OpenCompressed opens path and transparently bzip2-decompresses
	// its contents, for reading a persisted share cache file.
	OpenCompressed(path string) (io.ReadCloser, error)
	Rename(oldPath, newPath string) error
	Stat(path string) (DirEntry, error)
}

// HashedFile is the result of resolving a real filesystem path to its
// already-computed content hash, avoiding a redundant TTH computation
// during a share refresh.
type HashedFile struct {
	Path      string
	Size      int64
	TTH       sharetree.TTHValue
	LastWrite time.Time
}

// HashDatabase resolves real filesystem paths to previously computed
// TTH hashes, and accepts newly computed ones, decoupling
// pkg/sharetree's refresh path from whatever hashing backend a full
// client uses (typically a persistent store keyed by path+mtime+size).
//
// Grounded on spec.md §6's HashDatabase.Resolve/addHashedFile
// description; the original source's HashManager was not retrieved in
// the pack, so only the two operations a share refresh needs are
// declared.
type HashDatabase interface {
	Resolve(path string) (HashedFile, error)
	AddHashedFile(f HashedFile) error
}
