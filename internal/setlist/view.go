package setlist

import (
	"github.com/samber/lo"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
	"setlist-service/internal/render"
)

type HistoryEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// State is everything a client needs to draw the session.
type State struct {
	SignedIn      bool              `json:"signedIn"`
	Artists       []string          `json:"artists"`
	CurrentArtist string            `json:"currentArtist"`
	History       []HistoryEntry    `json:"history"`
	CurrentLiveID string            `json:"currentLiveId"`
	Live          model.LiveInfo    `json:"live"`
	Library       []render.Node     `json:"library"`
	Setlist       []render.Node     `json:"setlist"`
	Totals        render.TotalsView `json:"totals"`
	LibraryDirty  bool              `json:"libraryDirty"`
	SetlistDirty  bool              `json:"setlistDirty"`
	Preview       bool              `json:"preview"`
}

// HistoryLabel is how a live event is listed: "(date) title".
func HistoryLabel(ev model.LiveEvent) string {
	return "(" + ev.Date + ") " + duration.AutoLiveTitle(ev.Title, ev.Date)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := lo.FilterMap(e.s.events, func(ev *model.LiveEvent, _ int) (HistoryEntry, bool) {
		if ev.ID == "" || (e.s.current != "" && ev.Artist != e.s.current) {
			return HistoryEntry{}, false
		}
		return HistoryEntry{ID: ev.ID, Label: HistoryLabel(*ev)}, true
	})

	return State{
		SignedIn:      e.signedIn(),
		Artists:       append([]string{}, e.s.artists...),
		CurrentArtist: e.s.current,
		History:       history,
		CurrentLiveID: e.s.liveID,
		Live:          e.s.live,
		Library:       render.Library(e.songs()),
		Setlist:       render.Setlist(e.s.setlist, e.s.preview != nil),
		Totals:        render.Totals(e.s.totals),
		LibraryDirty:  e.s.libraryDirty,
		SetlistDirty:  e.s.setlistDirty,
		Preview:       e.s.preview != nil,
	}
}
