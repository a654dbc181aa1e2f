package setlist

import (
	"context"

	"go.uber.org/zap"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
)

func (e *Engine) entryAt(index int) (*model.SetlistEntry, error) {
	if e.s.preview != nil {
		return nil, ErrPreviewReadOnly
	}
	if index < 0 || index >= len(e.s.setlist) {
		return nil, ErrIndexOutOfRange
	}
	return &e.s.setlist[index], nil
}

// AddToSetlist copies library song libIndex into the setlist at position,
// or at the end when position is out of range.
func (e *Engine) AddToSetlist(libIndex, position int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	song, err := e.songAt(libIndex)
	if err != nil {
		return err
	}
	entry := model.EntryFromSong(*song)
	if position < 0 || position >= len(e.s.setlist) {
		e.s.setlist = append(e.s.setlist, entry)
	} else {
		e.s.setlist = append(e.s.setlist[:position], append([]model.SetlistEntry{entry}, e.s.setlist[position:]...)...)
	}
	e.s.setlistDirty = true
	e.recompute()
	e.persist()
	return nil
}

// EditSetlistEntry edits an entry and carries the change to every matching
// library song.
func (e *Engine) EditSetlistEntry(ctx context.Context, index int, in SongEdit) error {
	title, sec, err := in.validate()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	it, err := e.entryAt(index)
	if err != nil {
		return err
	}
	prior := entryIdentity(*it)
	it.BaseTitle = title
	it.DurationSec = sec
	it.URL = duration.NormalizeURL(in.URL)
	it.SheetURL = duration.NormalizeURL(in.SheetURL)
	e.s.setlistDirty = true
	e.recompute()

	changed := e.propagateToLibrary(prior, *it)
	if len(changed) > 0 {
		e.s.libraryDirty = true
	}
	e.persist()

	if !e.signedIn() {
		return nil
	}
	e.callRemote(func(r Remote) {
		for _, s := range changed {
			if s.RemoteID == "" {
				continue
			}
			if err := r.UpdateSong(ctx, s.RemoteID, s); err != nil {
				e.log.Error("update song failed", zap.String("id", s.RemoteID), zap.Error(err))
			}
		}
	})
	return nil
}

// OverrideEntryDuration changes one entry's duration without touching the
// library.
func (e *Engine) OverrideEntryDuration(index int, text string) error {
	sec, ok := duration.ParseStrict(text)
	if !ok || sec <= 0 {
		return invalid("duration", "時間は m:ss 形式で入力してください")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	it, err := e.entryAt(index)
	if err != nil {
		return err
	}
	it.DurationSec = sec
	e.s.setlistDirty = true
	e.recompute()
	e.persist()
	return nil
}

func (e *Engine) RemoveSetlistEntry(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.entryAt(index); err != nil {
		return err
	}
	e.s.setlist = append(e.s.setlist[:index], e.s.setlist[index+1:]...)
	e.s.setlistDirty = true
	e.recompute()
	e.persist()
	return nil
}

func (e *Engine) MoveSetlistEntry(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	items, err := move(e.s.setlist, from, to)
	if err != nil {
		return err
	}
	e.s.setlist = items
	e.s.setlistDirty = true
	e.recompute()
	e.persist()
	return nil
}

// ClearSetlist empties the setlist. Clearing a shared preview leaves
// preview mode and returns to the previous setlist.
func (e *Engine) ClearSetlist() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		e.exitPreview()
		return
	}
	if len(e.s.setlist) > 0 {
		e.s.setlistDirty = true
	}
	e.s.setlist = []model.SetlistEntry{}
	e.recompute()
	e.persist()
}

func (e *Engine) SetSlotMinutes(minutes int) error {
	if minutes < 0 {
		return invalid("slotMinutes", "持ち時間は0以上で入力してください")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	e.s.live.SlotMinutes = minutes
	e.s.setlistDirty = true
	e.recompute()
	e.persist()
	return nil
}
