package searchresponder_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/internal/searchresponder"
	"github.com/adc-share/sharecore/pkg/hub"
	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponderAnswersIncomingSearch(t *testing.T) {
	tree := sharetree.NewShareTree(64)
	profiles := sharetree.NewProfileTokenSet(1)

	root, err := tree.AddShareRoot("/share", "share", profiles, false, time.Unix(0, 0))
	require.NoError(t, err)
	require.NoError(t, tree.AddFile(root, sharetree.NewDualString("ubuntu-24.04.iso"), 4<<30, time.Unix(0, 0), sharetree.TTHValue{9}))

	manager := search.NewManager()
	responder := searchresponder.New(manager, tree)

	query := search.NewQuery([]string{"ubuntu"}, nil)
	hits, stats := responder.OnIncomingSearch(hub.InboundQuery{
		Matcher:            query,
		IncludeTokensLower: []string{"ubuntu"},
		Profiles:           profiles,
		MaxResults:         10,
		FromHubURL:         "adcs://example.hub",
	})

	require.Len(t, hits, 1)
	assert.Equal(t, "ubuntu-24.04.iso", hits[0].File.Name.String())
	assert.False(t, stats.Filtered)
}

func TestResponderSatisfiesQueryListener(t *testing.T) {
	var _ hub.QueryListener = (*searchresponder.Responder)(nil)
}
