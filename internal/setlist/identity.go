package setlist

import (
	"strings"

	"setlist-service/internal/model"
)

// Identity is what the engine knows about a song when it looks for its
// counterpart in the other view.
type Identity struct {
	RemoteID string
	Title    string
	Artist   string
}

func songIdentity(s model.Song) Identity {
	return Identity{RemoteID: s.RemoteID, Title: s.Title, Artist: s.Artist}
}

func entryIdentity(e model.SetlistEntry) Identity {
	return Identity{RemoteID: e.RemoteID, Title: e.BaseTitle, Artist: e.Artist}
}

// Matcher decides whether candidate is the same song as source.
type Matcher interface {
	Match(source, candidate Identity) bool
}

// WeakIdentityMatcher prefers the remote id. A candidate without one falls
// back to (title, artist) equality, compared after trimming.
type WeakIdentityMatcher struct{}

func (WeakIdentityMatcher) Match(source, candidate Identity) bool {
	if source.RemoteID != "" && candidate.RemoteID != "" {
		return candidate.RemoteID == source.RemoteID
	}
	return weakEqual(source, candidate)
}

func weakEqual(a, b Identity) bool {
	return strings.TrimSpace(a.Title) == strings.TrimSpace(b.Title) &&
		strings.TrimSpace(a.Artist) == strings.TrimSpace(b.Artist)
}
