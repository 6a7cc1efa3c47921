package sharetree_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndices(t *testing.T) *sharetree.ShareTree {
	t.Helper()
	return sharetree.NewShareTree(16)
}

func TestCreateRootAndAddFile(t *testing.T) {
	tree := newTestIndices(t)

	root, err := tree.AddShareRoot("/shares/music", "music", sharetree.NewProfileTokenSet(1), false, time.Unix(1000, 0))
	require.NoError(t, err)
	require.NotNil(t, root)

	tth := sharetree.GenerateDirectoryTTH("song.flac", 4096)
	err = tree.AddFile(root, sharetree.NewDualString("Song.flac"), 4096, time.Unix(2000, 0), tth)
	require.NoError(t, err)

	f := root.FindFileLower("song.flac")
	require.NotNil(t, f)
	assert.Equal(t, int64(4096), f.Size)
	assert.Equal(t, "Song.flac", f.Name.String())
	assert.Equal(t, int64(4096), root.LevelSize())
}

func TestAddFileReplacesSameName(t *testing.T) {
	tree := newTestIndices(t)
	root, err := tree.AddShareRoot("/shares/music", "music", sharetree.NewProfileTokenSet(1), false, time.Unix(1000, 0))
	require.NoError(t, err)

	tth1 := sharetree.GenerateDirectoryTTH("song.flac", 100)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("song.flac"), 100, time.Unix(1, 0), tth1))

	tth2 := sharetree.GenerateDirectoryTTH("song.flac", 200)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("song.flac"), 200, time.Unix(2, 0), tth2))

	assert.Equal(t, 1, root.Files.Len())
	f := root.FindFileLower("song.flac")
	require.NotNil(t, f)
	assert.Equal(t, int64(200), f.Size)
	assert.Equal(t, int64(200), root.LevelSize())
}

func TestAdcAndRealPathConstruction(t *testing.T) {
	tree := newTestIndices(t)
	root, err := tree.AddShareRoot("/shares/music", "music", sharetree.NewProfileTokenSet(1), false, time.Unix(1000, 0))
	require.NoError(t, err)

	sub, err := tree.CreateDirectory(root, sharetree.NewDualString("Albums"), time.Unix(1, 0))
	require.NoError(t, err)

	assert.Equal(t, "/music/Albums/", sub.AdcPathUnsafe())
	assert.Equal(t, "/shares/music/Albums/", sub.RealPathUnsafe())
}

func TestProfileMembershipWalksParentChain(t *testing.T) {
	tree := newTestIndices(t)
	root, err := tree.AddShareRoot("/shares/music", "music", sharetree.NewProfileTokenSet(1), false, time.Unix(1000, 0))
	require.NoError(t, err)

	sub, err := tree.CreateDirectory(root, sharetree.NewDualString("Albums"), time.Unix(1, 0))
	require.NoError(t, err)

	p1 := sharetree.ProfileToken(1)
	p2 := sharetree.ProfileToken(2)
	assert.True(t, sub.HasProfile(&p1))
	assert.False(t, sub.HasProfile(&p2))
	assert.True(t, sub.HasProfile(nil))
}

func TestCountStats(t *testing.T) {
	tree := newTestIndices(t)
	root, err := tree.AddShareRoot("/shares/music", "music", sharetree.NewProfileTokenSet(1), false, time.Unix(1000, 0))
	require.NoError(t, err)

	sub, err := tree.CreateDirectory(root, sharetree.NewDualString("Albums"), time.Unix(1, 0))
	require.NoError(t, err)

	tth := sharetree.GenerateDirectoryTTH("a.mp3", 10)
	require.NoError(t, tree.AddFile(sub, sharetree.NewDualString("a.mp3"), 10, time.Unix(5, 0), tth))

	_, totalDirs, totalFiles, _, totalSize, _ := root.CountStats()
	assert.Equal(t, 1, totalDirs)
	assert.Equal(t, 1, totalFiles)
	assert.Equal(t, int64(10), totalSize)
}
