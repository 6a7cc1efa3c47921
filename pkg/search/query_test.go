package search_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesFileLowerIncludeExclude(t *testing.T) {
	q := search.NewQuery([]string{"matrix", "s01e01"}, []string{"sample"})

	assert.True(t, q.MatchesFileLower("matrix.s01e01.mkv", 100, time.Unix(1, 0)))
	assert.False(t, q.MatchesFileLower("matrix.s01e01.sample.mkv", 100, time.Unix(1, 0)))
	assert.False(t, q.MatchesFileLower("other.mkv", 100, time.Unix(1, 0)))
}

func TestMatchesFileLowerSizeBounds(t *testing.T) {
	q := search.NewQuery([]string{"movie"}, nil)
	min := int64(1000)
	max := int64(2000)
	q.SizeMin = &min
	q.SizeMax = &max

	assert.False(t, q.MatchesFileLower("movie.mkv", 500, time.Unix(1, 0)))
	assert.True(t, q.MatchesFileLower("movie.mkv", 1500, time.Unix(1, 0)))
	assert.False(t, q.MatchesFileLower("movie.mkv", 2500, time.Unix(1, 0)))
}

func TestPositionsCompleteRequiresAllTokens(t *testing.T) {
	q := search.NewQuery([]string{"alpha", "beta"}, nil)

	q.MatchesDirectoryLower("alphafolder")
	assert.False(t, q.PositionsComplete())

	q.MatchesDirectoryLower("alphabetafolder")
	assert.True(t, q.PositionsComplete())
}

func TestRecursionFrameRestoresOnExit(t *testing.T) {
	q := search.NewQuery([]string{"alpha"}, nil)
	q.MatchType = search.MatchPathPartial

	q.MatchesDirectoryLower("alphafolder")
	require.True(t, q.HasValidPartialMatch())

	exit := q.EnterRecursion("alphafolder")
	require.NotNil(t, exit)
	assert.True(t, q.MatchesFileLower("notes.txt", 0, time.Unix(1, 0)))
	exit()
	assert.False(t, q.MatchesFileLower("notes.txt", 0, time.Unix(1, 0)))
}

func TestRelevanceScoreFavorsShallowerAndConsecutiveMatches(t *testing.T) {
	q := search.NewQuery([]string{"alpha", "beta"}, nil)
	q.MatchesDirectoryLower("alphabeta")

	shallow := q.RelevanceScore(0, true, "alphabeta")
	deep := q.RelevanceScore(5, true, "alphabeta")
	assert.Greater(t, shallow, deep)
}
