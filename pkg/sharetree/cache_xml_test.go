package sharetree_test

import (
	"strings"
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCacheXMLIncludesNamesNotSizes(t *testing.T) {
	tree := sharetree.NewShareTree(16)
	root, err := tree.AddShareRoot("/share", "share", sharetree.NewProfileTokenSet(1), false, time.Unix(0, 0))
	require.NoError(t, err)

	tth := sharetree.GenerateDirectoryTTH("song.flac", 123)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("song.flac"), 123, time.Unix(5, 0), tth))

	var buf strings.Builder
	require.NoError(t, sharetree.WriteCacheXML(&buf, root))

	out := buf.String()
	assert.Contains(t, out, `Name="song.flac"`)
	assert.NotContains(t, out, "123")
	assert.NotContains(t, out, tth.String())
}
