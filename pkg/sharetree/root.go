package sharetree

import (
	"strings"
	"time"
)

// RefreshState describes where a share root stands in the refresh
// lifecycle.
type RefreshState uint8

const (
	// RefreshStateNormal means no refresh is queued or running.
	RefreshStateNormal RefreshState = iota
	// RefreshStatePending means a refresh has been requested but not
	// started yet.
	RefreshStatePending
	// RefreshStateRunning means a refresh is currently enumerating disk.
	RefreshStateRunning
)

// ShareRoot is the root of one shared filesystem path: the attachment
// point between a real directory tree and the virtual share namespace.
// Multiple ShareRoots may carry the same virtual name (merged at
// filelist-emission time, never in the tree itself).
//
// Grounded on the original source's ShareRoot class
// (share/ShareDirectory.h/.cpp): same field set, translated from
// GETSET-macro accessors to plain exported fields guarded by the owning
// ShareTree's RWMutex (no internal synchronization here, matching the
// teacher's pkg/registry.Registry convention of a single outer lock
// rather than per-object locks).
type ShareRoot struct {
	Path             string
	PathLower        string
	VirtualName      DualString
	RootProfiles     ProfileTokenSet
	Incoming         bool
	RefreshState     RefreshState
	RefreshTaskToken string // empty means "no pending task"
	LastRefreshTime  time.Time
	CacheDirty       bool
}

// NewShareRoot constructs a ShareRoot for the given absolute path.
func NewShareRoot(path, virtualName string, profiles ProfileTokenSet, incoming bool, lastRefreshTime time.Time) *ShareRoot {
	return &ShareRoot{
		Path:            path,
		PathLower:       strings.ToLower(path),
		VirtualName:     NewDualString(virtualName),
		RootProfiles:    profiles,
		Incoming:        incoming,
		LastRefreshTime: lastRefreshTime,
	}
}

// HasProfile reports whether any token in profiles is one of the root's
// profiles. A nil/empty profiles set never matches (the "unrestricted"
// case used by local/own-list access is ShareDirectory.HasProfile with a
// nil token).
func (r *ShareRoot) HasProfile(profiles ProfileTokenSet) bool {
	return r.RootProfiles.AnyIn(profiles)
}

// HasProfileToken reports whether profile is one of the root's profiles.
func (r *ShareRoot) HasProfileToken(profile ProfileToken) bool {
	return r.RootProfiles.Contains(profile)
}

// AddProfile adds profile to the root's profile set.
func (r *ShareRoot) AddProfile(profile ProfileToken) {
	r.RootProfiles.Add(profile)
}

// RemoveProfile removes profile from the root's profile set, reporting
// whether the root now belongs to no profile at all (callers typically
// tear down a root once this returns true).
func (r *ShareRoot) RemoveProfile(profile ProfileToken) bool {
	return r.RootProfiles.Remove(profile)
}

// CacheXMLPath returns the filename the share-cache persistence layer
// uses for this root, derived from its real path so it is stable across
// restarts and unique per root.
func (r *ShareRoot) CacheXMLPath(cacheDir string) string {
	return cacheDir + "/ShareCache_" + sanitizeFileName(r.Path) + ".xml"
}

func sanitizeFileName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
