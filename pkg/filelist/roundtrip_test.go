package filelist_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/filelist"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripMergesDisjointRootsIntoOneMirrorDirectory exercises
// scenario 5: two same-named roots contributing disjoint files are
// emitted as one merged filelist document, then parsed back into a
// fresh Listing mirror, and the mirror must expose every file exactly
// once regardless of which root originally held it.
func TestRoundTripMergesDisjointRootsIntoOneMirrorDirectory(t *testing.T) {
	tree := sharetree.NewShareTree(64)
	profiles := sharetree.NewProfileTokenSet(testProfile)

	r1, err := tree.AddShareRoot("/r1", "share", profiles, false, time.Now())
	require.NoError(t, err)
	r2, err := tree.AddShareRoot("/r2", "share", profiles, false, time.Now())
	require.NoError(t, err)

	require.NoError(t, tree.AddFile(r1, sharetree.NewDualString("one.bin"), 100, time.Now(), sharetree.GenerateDirectoryTTH("one.bin", 100)))
	require.NoError(t, tree.AddFile(r2, sharetree.NewDualString("two.bin"), 200, time.Now(), sharetree.GenerateDirectoryTTH("two.bin", 200)))

	var buf strings.Builder
	require.NoError(t, filelist.WriteFilelist(&buf, tree, "/share/", profiles, true, "CIDROUND", "sharecore", nil))

	listing := filelist.NewListing("peer", false, 8)
	n, err := filelist.LoadXML(listing, "/share/", strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	dir := listing.Root.FindDirectory("/share/")
	require.NotNil(t, dir)
	assert.True(t, dir.Complete)
	assert.Equal(t, 2, len(dir.Files))

	names := make(map[string]bool)
	for _, f := range dir.OrderedFiles() {
		names[f.Name] = true
	}
	assert.True(t, names["one.bin"])
	assert.True(t, names["two.bin"])
}

func TestRoundTripNonRecursiveLeavesChildrenIncomplete(t *testing.T) {
	tree := sharetree.NewShareTree(64)
	profiles := sharetree.NewProfileTokenSet(testProfile)

	root, err := tree.AddShareRoot("/r1", "share", profiles, false, time.Now())
	require.NoError(t, err)
	sub, err := tree.CreateDirectory(root, sharetree.NewDualString("inner"), time.Now())
	require.NoError(t, err)
	require.NoError(t, tree.AddFile(sub, sharetree.NewDualString("deep.bin"), 1, time.Now(), sharetree.GenerateDirectoryTTH("deep.bin", 1)))

	var buf strings.Builder
	require.NoError(t, filelist.WriteFilelist(&buf, tree, "/share/", profiles, false, "CID", "sharecore", nil))

	listing := filelist.NewListing("peer", false, 8)
	_, err = filelist.LoadXML(listing, "/share/", strings.NewReader(buf.String()))
	require.NoError(t, err)

	base := listing.Root.FindDirectory("/share/")
	require.NotNil(t, base)
	inner := base.Directories["inner"]
	require.NotNil(t, inner)
	assert.False(t, inner.Complete)
	assert.Empty(t, inner.Files)
}

// fakeLoader feeds a fixed document regardless of the requested path,
// used to drive Listing's dispatch queue end-to-end.
func fakeLoader(doc string) filelist.Loader {
	return func(path string) (io.Reader, error) {
		return strings.NewReader(doc), nil
	}
}

type recordingListingListener struct {
	started  chan string
	finished chan string
}

func (l *recordingListingListener) LoadingStarted(path string, _ filelist.LoadType) {
	l.started <- path
}
func (l *recordingListingListener) LoadingFinished(path string, _ filelist.LoadType) {
	l.finished <- path
}
func (l *recordingListingListener) LoadingFailed(string, error) {}

func TestListingDispatchesQueuedLoad(t *testing.T) {
	tree := sharetree.NewShareTree(64)
	profiles := sharetree.NewProfileTokenSet(testProfile)
	root, err := tree.AddShareRoot("/r1", "share", profiles, false, time.Now())
	require.NoError(t, err)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("x.bin"), 1, time.Now(), sharetree.GenerateDirectoryTTH("x.bin", 1)))

	var buf strings.Builder
	require.NoError(t, filelist.WriteFilelist(&buf, tree, "/share/", profiles, true, "CID", "sharecore", nil))

	listing := filelist.NewListing("peer", false, 8)
	listener := &recordingListingListener{started: make(chan string, 1), finished: make(chan string, 1)}
	listing.AddListener(listener)
	listing.Start()
	defer listing.Stop(time.Second)

	listing.RequestDirectoryChange("/share/", filelist.LoadChangeNormal, fakeLoader(buf.String()))

	select {
	case p := <-listener.started:
		assert.Equal(t, "/share/", p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for LoadingStarted")
	}

	select {
	case p := <-listener.finished:
		assert.Equal(t, "/share/", p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for LoadingFinished")
	}

	dir := listing.Root.FindDirectory("/share/")
	require.NotNil(t, dir)
	assert.True(t, dir.Complete)
	assert.Equal(t, filelist.LoadNone, dir.LoadType)
}
