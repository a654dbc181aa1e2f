// Package render turns library songs and setlist entries into view nodes.
// Nodes are always derived from the model, never read back into it, so an
// affordance exists exactly when its backing field is populated.
package render

import (
	"fmt"

	"github.com/samber/lo"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
)

type Action string

const (
	ActionLink     Action = "link"
	ActionSheet    Action = "sheet"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionAdd      Action = "add-to-setlist"
	ActionDuration Action = "duration"
)

const (
	metaCustom    = "Custom"
	metaRemote    = "Remote"
	metaURLSuffix = " / URLあり"
)

// Node is one rendered row.
type Node struct {
	Position    int      `json:"position"`
	Label       string   `json:"label,omitempty"`
	Title       string   `json:"title"`
	Meta        string   `json:"meta"`
	Duration    string   `json:"duration"`
	DurationSec int      `json:"durationSec"`
	Artist      string   `json:"artist,omitempty"`
	URL         string   `json:"url,omitempty"`
	SheetURL    string   `json:"sheetUrl,omitempty"`
	Actions     []Action `json:"actions"`
}

// Has reports whether the node offers action a.
func (n Node) Has(a Action) bool {
	return lo.Contains(n.Actions, a)
}

// PositionLabel is the display number of a setlist slot: M-01, M-02, ...
func PositionLabel(index int) string {
	return fmt.Sprintf("M-%02d", index+1)
}

func meta(source model.Source, url string) string {
	m := metaCustom
	if source == model.SourceRemote {
		m = metaRemote
	}
	if url != "" {
		m += metaURLSuffix
	}
	return m
}

func links(url, sheet string) []Action {
	var out []Action
	if url != "" {
		out = append(out, ActionLink)
	}
	if sheet != "" {
		out = append(out, ActionSheet)
	}
	return out
}

// LibraryNode renders an editable library row.
func LibraryNode(index int, s model.Song) Node {
	url := duration.NormalizeURL(s.URL)
	sheet := duration.NormalizeURL(s.SheetURL)
	actions := append(links(url, sheet), ActionEdit, ActionDelete, ActionAdd)
	return Node{
		Position:    index,
		Title:       s.Title,
		Meta:        meta(s.Source, url),
		Duration:    duration.Format(s.DurationSec),
		DurationSec: s.DurationSec,
		Artist:      s.Artist,
		URL:         url,
		SheetURL:    sheet,
		Actions:     actions,
	}
}

// SetlistNode renders a setlist row. Setlist rows only allow a duration
// override and removal; a read-only row (share preview) allows neither.
func SetlistNode(index int, e model.SetlistEntry, readOnly bool) Node {
	url := duration.NormalizeURL(e.URL)
	sheet := duration.NormalizeURL(e.SheetURL)
	actions := links(url, sheet)
	if !readOnly {
		actions = append(actions, ActionDuration, ActionDelete)
	}
	return Node{
		Position:    index,
		Label:       PositionLabel(index),
		Title:       e.BaseTitle,
		Meta:        meta(model.SourceLocal, url),
		Duration:    duration.Format(e.DurationSec),
		DurationSec: e.DurationSec,
		Artist:      e.Artist,
		URL:         url,
		SheetURL:    sheet,
		Actions:     actions,
	}
}

// Library renders the whole library in order.
func Library(songs []model.Song) []Node {
	return lo.Map(songs, func(s model.Song, i int) Node { return LibraryNode(i, s) })
}

// Setlist renders the whole setlist, numbering rows by position.
func Setlist(items []model.SetlistEntry, readOnly bool) []Node {
	return lo.Map(items, func(e model.SetlistEntry, i int) Node { return SetlistNode(i, e, readOnly) })
}

// TotalsView is the rendered form of model.Totals.
type TotalsView struct {
	Total     string       `json:"total"`
	Slot      string       `json:"slot"`
	Remaining string       `json:"remaining"`
	Label     string       `json:"label"`
	Status    model.Status `json:"status"`
}

// Totals renders totals; the remaining label flips to "over" past the slot.
func Totals(t model.Totals) TotalsView {
	label := "remaining"
	if t.RemainingSec < 0 {
		label = "over"
	}
	return TotalsView{
		Total:     duration.Format(t.TotalSec),
		Slot:      duration.Format(t.SlotSec),
		Remaining: duration.FormatSigned(t.RemainingSec),
		Label:     label,
		Status:    t.Status,
	}
}
