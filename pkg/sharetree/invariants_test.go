package sharetree_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTreeInvariantsAfterMutations builds a small tree through a
// sequence of root/directory/file additions, then checks the size
// invariants: total shared size and the root's total size equal the sum
// of every file's size, and each directory's level size equals the sum
// of the sizes of the files directly in it.
func TestTreeInvariantsAfterMutations(t *testing.T) {
	tree := sharetree.NewShareTree(64)

	root, err := tree.AddShareRoot("/share", "share", sharetree.NewProfileTokenSet(1), false, time.Unix(0, 0))
	require.NoError(t, err)

	albums, err := tree.CreateDirectory(root, sharetree.NewDualString("Albums"), time.Unix(0, 0))
	require.NoError(t, err)

	type fileSpec struct {
		dir  *sharetree.ShareDirectory
		name string
		size int64
	}
	specs := []fileSpec{
		{root, "readme.txt", 128},
		{albums, "track1.flac", 50_000_000},
		{albums, "track2.flac", 48_000_000},
	}

	var expectedTotal int64
	for _, s := range specs {
		tth := sharetree.GenerateDirectoryTTH(s.name, s.size)
		require.NoError(t, tree.AddFile(s.dir, sharetree.NewDualString(s.name), s.size, time.Unix(1, 0), tth))
		expectedTotal += s.size
	}

	assert.Equal(t, expectedTotal, tree.SharedSize())
	assert.Equal(t, expectedTotal, root.TotalSize())
	assert.Equal(t, int64(128), root.LevelSize())
	assert.Equal(t, int64(98_000_000), albums.LevelSize())

	sub, err := tree.CreateDirectory(albums, sharetree.NewDualString("Live"), time.Unix(0, 0))
	require.NoError(t, err)
	liveTTH := sharetree.GenerateDirectoryTTH("live.flac", 10)
	require.NoError(t, tree.AddFile(sub, sharetree.NewDualString("live.flac"), 10, time.Unix(1, 0), liveTTH))
	expectedTotal += 10

	assert.Equal(t, expectedTotal, tree.SharedSize())
	assert.Equal(t, expectedTotal, root.TotalSize())
}

func TestRemoveShareRootCleansIndices(t *testing.T) {
	tree := sharetree.NewShareTree(16)
	root, err := tree.AddShareRoot("/share", "share", sharetree.NewProfileTokenSet(1), false, time.Unix(0, 0))
	require.NoError(t, err)

	tth := sharetree.GenerateDirectoryTTH("a.bin", 7)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("a.bin"), 7, time.Unix(1, 0), tth))
	require.Equal(t, int64(7), tree.SharedSize())

	require.NoError(t, tree.RemoveShareRoot("/share"))

	assert.Equal(t, int64(0), tree.SharedSize())
	_, _, _, found := tree.ToRealWithSize(tth, nil)
	assert.False(t, found)

	_, err = tree.RealToVirtualAdc("/share", nil)
	assert.Error(t, err)
}

func TestFindVirtualsMergesSameNamedRoots(t *testing.T) {
	tree := sharetree.NewShareTree(16)
	profiles := sharetree.NewProfileTokenSet(1)

	r1, err := tree.AddShareRoot("/r1", "share", profiles, false, time.Unix(0, 0))
	require.NoError(t, err)
	r2, err := tree.AddShareRoot("/r2", "share", profiles, false, time.Unix(0, 0))
	require.NoError(t, err)

	tth1 := sharetree.GenerateDirectoryTTH("one.bin", 1)
	tth2 := sharetree.GenerateDirectoryTTH("two.bin", 2)
	require.NoError(t, tree.AddFile(r1, sharetree.NewDualString("one.bin"), 1, time.Unix(1, 0), tth1))
	require.NoError(t, tree.AddFile(r2, sharetree.NewDualString("two.bin"), 2, time.Unix(1, 0), tth2))

	dirs, err := tree.FindVirtuals("/share/", profiles)
	require.NoError(t, err)
	assert.Len(t, dirs, 2)
}

func TestToRealWithSizeReportsNoAccess(t *testing.T) {
	tree := sharetree.NewShareTree(16)
	restricted := sharetree.NewProfileTokenSet(1)

	root, err := tree.AddShareRoot("/share", "share", restricted, false, time.Unix(0, 0))
	require.NoError(t, err)

	tth := sharetree.GenerateDirectoryTTH("secret.bin", 3)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("secret.bin"), 3, time.Unix(1, 0), tth))

	other := sharetree.ProfileToken(2)
	_, _, noAccess, found := tree.ToRealWithSize(tth, &other)
	assert.True(t, found)
	assert.True(t, noAccess)
}
