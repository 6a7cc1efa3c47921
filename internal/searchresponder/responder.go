// Package searchresponder wires pkg/search.Manager and
// pkg/sharetree.ShareTree together behind the pkg/hub.QueryListener
// contract, so a HubConnector implementation has exactly one thing to
// call when a $SCH/SEARCH payload arrives off the wire.
//
// It lives outside both pkg/hub and pkg/search because pkg/hub already
// imports pkg/search (for HubConnector.QueueSearch's *search.Search
// parameter); a concrete listener referencing both packages' types has
// to sit one level up to avoid an import cycle.
package searchresponder

import (
	"github.com/adc-share/sharecore/pkg/hub"
	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
)

// Responder answers inbound hub queries against a single ShareTree,
// completing spec.md's mandatory control flow: hub wire ->
// Manager.Respond -> ShareTree.SearchText -> ShareDirectory.Search ->
// ranked SearchHits -> hub wire.
type Responder struct {
	manager *search.Manager
	tree    *sharetree.ShareTree
}

// New returns a Responder that answers queries against tree using
// manager's SUDP bookkeeping.
func New(manager *search.Manager, tree *sharetree.ShareTree) *Responder {
	return &Responder{manager: manager, tree: tree}
}

// OnIncomingSearch implements hub.QueryListener by delegating straight
// to Manager.Respond.
func (r *Responder) OnIncomingSearch(q hub.InboundQuery) ([]sharetree.SearchHit, sharetree.SearchStats) {
	return r.manager.Respond(r.tree, q.Matcher, q.IncludeTokensLower, q.Profiles, q.MaxResults)
}

var _ hub.QueryListener = (*Responder)(nil)
