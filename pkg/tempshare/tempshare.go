// Package tempshare implements a secondary, TTH-keyed index of
// ephemeral per-user shared files — files shared to answer one specific
// request (e.g. a filelist reference upload) without being added to the
// permanent share tree.
package tempshare

import (
	"sync"
	"time"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/google/uuid"
)

// UserID identifies the peer a temp share may be restricted to. The CID
// type from pkg/sharetree is reused rather than inventing a parallel
// user-identity type.
type UserID = sharetree.CID

// Token is the unique id of one TempShareInfo entry.
type Token string

// Info is one ephemeral share entry.
//
// Grounded on the original source's TempShareInfo
// (TempShareManager.cpp): id, optional restricting user, display name,
// path, size, TTH, creation timestamp.
type Info struct {
	Token     Token
	User      *UserID // nil means unrestricted: any requester has access
	Name      string
	Path      string
	Size      int64
	TTH       sharetree.TTHValue
	TimeAdded time.Time
}

// HasAccess reports whether user may request this temp share: an
// unrestricted entry (User == nil) grants access to anyone, otherwise
// only the exact matching user.
func (i Info) HasAccess(user *UserID) bool {
	if i.User == nil {
		return true
	}
	if user == nil {
		return false
	}
	return *i.User == *user
}

// Manager is the TTH-keyed multimap of temp shares, guarded by a single
// RWMutex.
//
// Grounded on the original source's TempShareManager
// (TempShareManager.cpp) and, for the Go locking idiom, on the
// teacher's pkg/registry.Registry (one RWMutex, RLock reads, Lock
// writes).
type Manager struct {
	mu      sync.RWMutex
	byToken map[Token]Info
	byTTH   map[sharetree.TTHValue][]Token
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		byToken: make(map[Token]Info),
		byTTH:   make(map[sharetree.TTHValue][]Token),
	}
}

// AddTempShare adds a new temp share for tth, unless an entry already
// accessible to user exists for that TTH — in which case the existing
// entry is returned and added reports false.
func (m *Manager) AddTempShare(tth sharetree.TTHValue, name, path string, size int64, user *UserID) (info Info, added bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tok := range m.byTTH[tth] {
		existing := m.byToken[tok]
		if existing.HasAccess(user) {
			return existing, false
		}
	}

	item := Info{
		Token:     Token(uuid.NewString()),
		User:      user,
		Name:      name,
		Path:      path,
		Size:      size,
		TTH:       tth,
		TimeAdded: time.Now(),
	}

	m.byToken[item.Token] = item
	m.byTTH[tth] = append(m.byTTH[tth], item.Token)

	return item, true
}

// IsTempShared reports whether tth has a temp-share entry accessible to
// user, returning its token if so.
func (m *Manager) IsTempShared(tth sharetree.TTHValue, user *UserID) (Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tok := range m.byTTH[tth] {
		if m.byToken[tok].HasAccess(user) {
			return tok, true
		}
	}
	return "", false
}

// GetTempShares returns every temp-share entry registered for tth.
func (m *Manager) GetTempShares(tth sharetree.TTHValue) []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toks := m.byTTH[tth]
	out := make([]Info, 0, len(toks))
	for _, tok := range toks {
		out = append(out, m.byToken[tok])
	}
	return out
}

// GetAllTempShares returns every temp-share entry currently registered.
func (m *Manager) GetAllTempShares() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.byToken))
	for _, info := range m.byToken {
		out = append(out, info)
	}
	return out
}

// RemoveTempShare removes the entry with the given token, returning it
// and true if it existed.
func (m *Manager) RemoveTempShare(token Token) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.byToken[token]
	if !ok {
		return Info{}, false
	}

	delete(m.byToken, token)

	toks := m.byTTH[info.TTH]
	for i, tok := range toks {
		if tok == token {
			m.byTTH[info.TTH] = append(toks[:i], toks[i+1:]...)
			break
		}
	}
	if len(m.byTTH[info.TTH]) == 0 {
		delete(m.byTTH, info.TTH)
	}

	return info, true
}
