package setlist

import (
	"setlist-service/internal/duration"
	"setlist-service/internal/model"
	"setlist-service/internal/share"
)

// OpenShared shows a shared setlist read-only. The state it covers is
// kept and comes back when the preview is left.
func (e *Engine) OpenShared(token string) error {
	p, err := share.Decode(token)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview == nil {
		e.s.preview = &previewBackup{
			live:         e.s.live,
			setlist:      e.s.setlist,
			liveID:       e.s.liveID,
			setlistDirty: e.s.setlistDirty,
		}
	}
	e.s.live = model.LiveInfo{Title: p.Title, Date: p.Date, SlotMinutes: p.SlotMinutes}
	e.s.setlist = model.CloneEntries(p.Items)
	e.s.liveID = ""
	e.recompute()
	return nil
}

func (e *Engine) exitPreview() {
	p := e.s.preview
	if p == nil {
		return
	}
	e.s.preview = nil
	e.s.live = p.live
	e.s.setlist = p.setlist
	e.s.liveID = p.liveID
	e.s.setlistDirty = p.setlistDirty
	e.recompute()
}

// ShareToken encodes the setlist on screen.
func (e *Engine) ShareToken() (string, error) {
	e.mu.Lock()
	ev := e.working()
	e.mu.Unlock()

	// Links are public; remote document ids stay private.
	for i := range ev.Items {
		ev.Items[i].RemoteID = ""
	}
	return share.Encode(share.Payload{
		Title:       duration.AutoLiveTitle(ev.Title, ev.Date),
		Date:        ev.Date,
		SlotMinutes: ev.SlotMinutes,
		Artist:      ev.Artist,
		Items:       ev.Items,
	})
}
