// Package snapshot persists the working state of one session (current
// artist, live metadata, library and setlist) as a single JSON record.
package snapshot

import (
	"encoding/json"
	"errors"

	"setlist-service/internal/model"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("snapshot: not found")

// Snapshot is the persisted record. Fields missing from older records
// decode to their defaults: SlotMinutes to 30, lists to empty.
type Snapshot struct {
	CurrentArtist string               `json:"currentArtist"`
	LiveTitle     string               `json:"liveTitle"`
	LiveDate      string               `json:"liveDate"`
	SlotMinutes   int                  `json:"slotMinutes"`
	Library       []model.Song         `json:"library"`
	Setlist       []model.SetlistEntry `json:"setlist"`
	CurrentLiveID string               `json:"currentLiveId"`
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var raw struct {
		plain
		SlotMinutes       *int   `json:"slotMinutes"`
		SelectedSetlistID string `json:"selectedSetlistId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Snapshot(raw.plain)
	s.SlotMinutes = model.DefaultSlotMinutes
	if raw.SlotMinutes != nil {
		s.SlotMinutes = *raw.SlotMinutes
	}
	if s.CurrentLiveID == "" {
		s.CurrentLiveID = raw.SelectedSetlistID
	}
	if s.Library == nil {
		s.Library = []model.Song{}
	}
	if s.Setlist == nil {
		s.Setlist = []model.SetlistEntry{}
	}
	return nil
}

// Store saves and loads one snapshot. Save must replace the previous record
// as a whole or not at all.
type Store interface {
	Save(s Snapshot) error
	Load() (Snapshot, error)
}
