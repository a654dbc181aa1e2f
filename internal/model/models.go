package model

import (
	"strings"
	"time"
)

// Source tells where a library song came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Song is a record in the song library. Order is its position in the
// library and is kept in sync with the slice index on every persist.
type Song struct {
	Title       string `json:"title"`
	DurationSec int    `json:"durationSec"`
	URL         string `json:"url"`
	SheetURL    string `json:"sheetUrl"`
	Artist      string `json:"artist"`
	Source      Source `json:"source,omitempty"`
	RemoteID    string `json:"remoteId,omitempty"`
	Order       int    `json:"order"`
}

// SetlistEntry is a song placed into a setlist. Its position is its index;
// BaseTitle is the canonical title and never carries display numbering.
type SetlistEntry struct {
	BaseTitle   string `json:"title"`
	DurationSec int    `json:"durationSec"`
	URL         string `json:"url"`
	SheetURL    string `json:"sheetUrl"`
	Artist      string `json:"artist"`
	RemoteID    string `json:"remoteId,omitempty"`
}

// EntryFromSong copies a library song into a new setlist entry.
func EntryFromSong(s Song) SetlistEntry {
	return SetlistEntry{
		BaseTitle:   s.Title,
		DurationSec: s.DurationSec,
		URL:         s.URL,
		SheetURL:    s.SheetURL,
		Artist:      s.Artist,
		RemoteID:    s.RemoteID,
	}
}

// CloneEntries returns a copy of items so that two live events never share
// a backing array.
func CloneEntries(items []SetlistEntry) []SetlistEntry {
	out := make([]SetlistEntry, len(items))
	copy(out, items)
	return out
}

// LiveEvent is a planned performance: metadata plus an ordered setlist.
// ID stays empty until the first save.
type LiveEvent struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Date        string         `json:"date"`
	SlotMinutes int            `json:"slotMinutes"`
	Artist      string         `json:"artist"`
	Items       []SetlistEntry `json:"items"`
	IsDraft     bool           `json:"isDraft,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}

// LiveInfo is the editable metadata of a live event.
type LiveInfo struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	SlotMinutes int    `json:"slotMinutes"`
}

// Artist is keyed by Name. CreatedAt is epoch seconds when known.
type Artist struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CreatedAt *int64 `json:"createdAt,omitempty"`
}

// DefaultSlotMinutes is used when no slot has been set.
const DefaultSlotMinutes = 30

// DraftArtist is the artist key used for drafts saved without an artist.
const DraftArtist = "default"

// DraftID returns the deterministic id of an artist's draft slot.
func DraftID(artist string) string {
	a := strings.TrimSpace(artist)
	if a == "" {
		a = DraftArtist
	}
	return "draft__" + a
}
