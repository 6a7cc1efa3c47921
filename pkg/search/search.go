package search

// Search is one outbound search request: the match criteria plus the
// dispatch metadata a HubConnector needs to route it and correlate
// replies back to the caller.
//
// Grounded on the original source's Search/SearchPtr as constructed and
// populated in SearchManager::search (SearchManager.cpp): an owner
// token for attributing results, a per-request token correlating
// $SR/RES replies, and (when SUDP is enabled) the base32 key issued by
// Manager.GenerateSUDPKey so replies can be decrypted.
type Search struct {
	Query   *Query
	Token   string
	Owner   string
	SUDPKey string
}

// NewSearch wraps matcher with dispatch metadata for a single search
// round, mirroring SearchManager::search's owner/key assignment onto
// the outbound Search before it's queued to any hub.
func NewSearch(matcher *Query, token, owner, sudpKey string) *Search {
	return &Search{Query: matcher, Token: token, Owner: owner, SUDPKey: sudpKey}
}
