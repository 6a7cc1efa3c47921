package sharetree_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
)

func TestShareBloomContainsAdded(t *testing.T) {
	b := sharetree.NewShareBloom(100)

	names := []string{"music", "movies", "documents", "a_very_specific_album_name"}
	for _, n := range names {
		b.Add(n)
	}

	for _, n := range names {
		assert.True(t, b.Contains(n), "expected bloom to contain %q", n)
	}
}

func TestShareBloomRejectsObviouslyAbsent(t *testing.T) {
	b := sharetree.NewShareBloom(1000)

	b.Add("music")
	b.Add("movies")

	assert.False(t, b.Contains("this-token-was-never-added-xyz"))
}

func TestShareBloomSizeScalesWithExpectedItems(t *testing.T) {
	small := sharetree.NewShareBloom(10)
	large := sharetree.NewShareBloom(10000)

	assert.Less(t, small.Size(), large.Size())
}

// TestShareBloomContainsProperSubstring is spec.md §8 scenario 3: a
// query token that is a proper substring of a stored name (not the
// whole name) must still be reported as possibly present, or
// ShareTree.SearchText would wrongly short-circuit every real-world
// query to zero hits.
func TestShareBloomContainsProperSubstring(t *testing.T) {
	b := sharetree.NewShareBloom(100)

	b.Add("matrix.s01e01.mkv")

	assert.True(t, b.Contains("matrix"))
	assert.True(t, b.Contains("s01e01"))
	assert.True(t, b.Contains("mkv"))
	assert.True(t, b.Contains("rix.s01"))
}

// TestShareBloomRejectsAbsentSubstring confirms the n-gram filter still
// rejects a substring that could never appear in any added name.
func TestShareBloomRejectsAbsentSubstring(t *testing.T) {
	b := sharetree.NewShareBloom(100)

	b.Add("matrix.s01e01.mkv")

	assert.False(t, b.Contains("ubuntu"))
}

// TestShareBloomShortTokenBypassesFilter documents that tokens shorter
// than the n-gram width are never filtered (always reported present),
// trading filtering power for the guarantee of zero false negatives.
func TestShareBloomShortTokenBypassesFilter(t *testing.T) {
	b := sharetree.NewShareBloom(100)

	b.Add("matrix.s01e01.mkv")

	assert.True(t, b.Contains("zz"))
}
