package hub_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/hub"
	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFilesystem is an in-memory Filesystem, the same narrow-fake
// pattern spec.md §6 calls for so pkg/sharetree's refresh code can be
// tested without a real filesystem.
type fakeFilesystem struct {
	entries map[string][]hub.DirEntry
	files   map[string][]byte
}

func newFakeFilesystem() *fakeFilesystem {
	return &fakeFilesystem{entries: make(map[string][]hub.DirEntry), files: make(map[string][]byte)}
}

func (f *fakeFilesystem) ReadDir(path string) ([]hub.DirEntry, error) {
	entries, ok := f.entries[path]
	if !ok {
		return nil, errors.New("hub: no such directory")
	}
	return entries, nil
}

func (f *fakeFilesystem) Open(path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("hub: no such file")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFilesystem) OpenCompressed(path string) (io.ReadCloser, error) {
	return f.Open(path)
}

func (f *fakeFilesystem) Rename(oldPath, newPath string) error {
	data, ok := f.files[oldPath]
	if !ok {
		return errors.New("hub: no such file")
	}
	delete(f.files, oldPath)
	f.files[newPath] = data
	return nil
}

func (f *fakeFilesystem) Stat(path string) (hub.DirEntry, error) {
	data, ok := f.files[path]
	if !ok {
		return hub.DirEntry{}, errors.New("hub: no such file")
	}
	return hub.DirEntry{Name: path, Size: int64(len(data))}, nil
}

var _ hub.Filesystem = (*fakeFilesystem)(nil)

func TestFakeFilesystemRenamePreservesContent(t *testing.T) {
	fs := newFakeFilesystem()
	fs.files["/a"] = []byte("hello")

	require.NoError(t, fs.Rename("/a", "/b"))

	r, err := fs.Open("/b")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = fs.Open("/a")
	assert.Error(t, err)
}

// fakeHubConnector records QueueSearch calls and delivers canned
// results to any registered Listener.
type fakeHubConnector struct {
	listeners      []hub.Listener
	queryListeners []hub.QueryListener
	delay          time.Duration
	accept         bool
}

func (c *fakeHubConnector) QueueSearch(ctx context.Context, hubURL string, s *search.Search) (bool, time.Duration, error) {
	if !c.accept {
		return false, 0, errors.New("hub: queue rejected")
	}
	return true, c.delay, nil
}

func (c *fakeHubConnector) AddListener(l hub.Listener)    { c.listeners = append(c.listeners, l) }
func (c *fakeHubConnector) RemoveListener(l hub.Listener) {}

func (c *fakeHubConnector) AddQueryListener(l hub.QueryListener) {
	c.queryListeners = append(c.queryListeners, l)
}

func (c *fakeHubConnector) RemoveQueryListener(l hub.QueryListener) {}

func (c *fakeHubConnector) deliver(raw []byte, hubURL string) {
	for _, l := range c.listeners {
		l.OnSearchResult(raw, hubURL)
	}
}

// deliverQuery fans an inbound query out to every registered
// QueryListener and returns the first non-empty answer, mirroring how
// a real hub connection would stop at the first listener willing to
// answer a $SCH/SEARCH payload.
func (c *fakeHubConnector) deliverQuery(q hub.InboundQuery) ([]sharetree.SearchHit, sharetree.SearchStats) {
	for _, l := range c.queryListeners {
		hits, stats := l.OnIncomingSearch(q)
		if len(hits) > 0 {
			return hits, stats
		}
	}
	return nil, sharetree.SearchStats{}
}

var _ hub.HubConnector = (*fakeHubConnector)(nil)

type recordingSearchListener struct {
	payloads [][]byte
}

func (l *recordingSearchListener) OnSearchResult(raw []byte, fromHubURL string) {
	l.payloads = append(l.payloads, raw)
}

func TestFakeHubConnectorDeliversToListeners(t *testing.T) {
	connector := &fakeHubConnector{accept: true, delay: time.Second}
	listener := &recordingSearchListener{}
	connector.AddListener(listener)

	s := search.NewSearch(search.NewQuery([]string{"movie"}, nil), "tok", "owner", "")
	queued, delay, err := connector.QueueSearch(context.Background(), "adc://hub", s)
	require.NoError(t, err)
	assert.True(t, queued)
	assert.Equal(t, time.Second, delay)

	connector.deliver([]byte("RES ..."), "adc://hub")
	require.Len(t, listener.payloads, 1)
	assert.Equal(t, "RES ...", string(listener.payloads[0]))
}

// fakeQueryListener answers every incoming query with a canned hit,
// recording the InboundQuery it was handed.
type fakeQueryListener struct {
	received hub.InboundQuery
	hits     []sharetree.SearchHit
	stats    sharetree.SearchStats
}

func (l *fakeQueryListener) OnIncomingSearch(q hub.InboundQuery) ([]sharetree.SearchHit, sharetree.SearchStats) {
	l.received = q
	return l.hits, l.stats
}

var _ hub.QueryListener = (*fakeQueryListener)(nil)

func TestFakeHubConnectorDeliversToQueryListeners(t *testing.T) {
	connector := &fakeHubConnector{accept: true}
	canned := []sharetree.SearchHit{{Type: sharetree.HitFile}}
	listener := &fakeQueryListener{hits: canned, stats: sharetree.SearchStats{Responded: 1}}
	connector.AddQueryListener(listener)

	q := hub.InboundQuery{IncludeTokensLower: []string{"movie"}, MaxResults: 5, FromHubURL: "adc://hub"}
	hits, stats := connector.deliverQuery(q)

	assert.Equal(t, canned, hits)
	assert.Equal(t, 1, stats.Responded)
	assert.Equal(t, []string{"movie"}, listener.received.IncludeTokensLower)
}

// fakeQueueManager is only checked against hub.QueueManager at compile
// time; fakeHashDatabase is exercised by TestFakeHashDatabaseRoundTrips
// below.
type fakeQueueManager struct{ next hub.Ticket }

func (q *fakeQueueManager) EnqueueFilelist(ctx context.Context, user hub.HintedUser, flags hub.LoadFlags) (hub.Ticket, error) {
	return q.next, nil
}

var _ hub.QueueManager = (*fakeQueueManager)(nil)

type fakeHashDatabase struct {
	byPath map[string]hub.HashedFile
}

func (h *fakeHashDatabase) Resolve(path string) (hub.HashedFile, error) {
	f, ok := h.byPath[path]
	if !ok {
		return hub.HashedFile{}, errors.New("hub: unresolved path")
	}
	return f, nil
}

func (h *fakeHashDatabase) AddHashedFile(f hub.HashedFile) error {
	if h.byPath == nil {
		h.byPath = make(map[string]hub.HashedFile)
	}
	h.byPath[f.Path] = f
	return nil
}

var _ hub.HashDatabase = (*fakeHashDatabase)(nil)

func TestFakeHashDatabaseRoundTrips(t *testing.T) {
	db := &fakeHashDatabase{}
	tth := sharetree.GenerateDirectoryTTH("file.bin", 42)
	require.NoError(t, db.AddHashedFile(hub.HashedFile{Path: "/x", Size: 42, TTH: tth}))

	resolved, err := db.Resolve("/x")
	require.NoError(t, err)
	assert.Equal(t, int64(42), resolved.Size)

	_, err = db.Resolve("/missing")
	assert.Error(t, err)
}
