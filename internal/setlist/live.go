package setlist

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
	"setlist-service/internal/remote"
)

func validateInfo(info model.LiveInfo, requireTitle bool) (model.LiveInfo, error) {
	info.Title = strings.TrimSpace(info.Title)
	info.Date = strings.TrimSpace(info.Date)
	if requireTitle && info.Title == "" {
		return info, invalid("title", "ライブ名を入力してください")
	}
	if info.SlotMinutes < 0 {
		return info, invalid("slotMinutes", "持ち時間は0以上で入力してください")
	}
	return info, nil
}

// working is the live event currently on screen.
func (e *Engine) working() model.LiveEvent {
	return model.LiveEvent{
		ID:          e.s.liveID,
		Title:       e.s.live.Title,
		Date:        e.s.live.Date,
		SlotMinutes: e.s.live.SlotMinutes,
		Artist:      e.s.current,
		Items:       model.CloneEntries(e.s.setlist),
	}
}

// Working returns a copy of the live event currently on screen.
func (e *Engine) Working() model.LiveEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.working()
}

// CreateLiveEvent stores the current setlist as a new live event and
// selects it. Without a remote id the event gets a local one.
func (e *Engine) CreateLiveEvent(ctx context.Context, info model.LiveInfo) error {
	info, err := validateInfo(info, false)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	return e.createLiveEvent(ctx, info)
}

func (e *Engine) createLiveEvent(ctx context.Context, info model.LiveInfo) error {
	now := e.now()
	e.s.live = info
	ev := &model.LiveEvent{
		Title:       duration.AutoLiveTitle(info.Title, info.Date),
		Date:        info.Date,
		SlotMinutes: info.SlotMinutes,
		Artist:      e.s.current,
		Items:       model.CloneEntries(e.s.setlist),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.s.events = append([]*model.LiveEvent{ev}, e.s.events...)
	e.rebuildArtists()
	e.recompute()
	e.persist()

	var id string
	var err error
	if e.signedIn() {
		payload := *ev
		payload.Items = model.CloneEntries(ev.Items)
		e.callRemote(func(r Remote) { id, err = r.SaveLiveEvent(ctx, payload) })
		if err != nil {
			e.log.Error("save live event failed", zap.Error(err))
		}
	}
	if id == "" {
		id = localIDPrefix + strconv.FormatInt(now.UnixNano(), 10)
	}
	ev.ID = id
	if lo.Contains(e.s.events, ev) {
		e.s.liveID = id
		if err == nil && !isLocalID(id) {
			e.s.setlistDirty = false
		}
	}
	e.persist()

	if err != nil {
		return &RemoteError{Op: "save live event", Err: err}
	}
	return nil
}

// EditLiveInfo updates the metadata of the selected live event.
func (e *Engine) EditLiveInfo(ctx context.Context, info model.LiveInfo) error {
	info, err := validateInfo(info, true)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	if e.s.liveID == "" {
		return ErrNoLiveEvent
	}
	e.s.live = info
	e.s.setlistDirty = true
	e.recompute()
	return e.updateLiveEvent(ctx)
}

// SaveLiveEvent writes the setlist on screen into the selected live event,
// creating one when none is selected.
func (e *Engine) SaveLiveEvent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.preview != nil {
		return ErrPreviewReadOnly
	}
	if e.s.liveID == "" {
		return e.createLiveEvent(ctx, e.s.live)
	}
	return e.updateLiveEvent(ctx)
}

func (e *Engine) updateLiveEvent(ctx context.Context) error {
	payload := e.working()
	payload.UpdatedAt = e.now()
	if ev := e.findEvent(payload.ID); ev != nil {
		ev.Title = duration.AutoLiveTitle(payload.Title, payload.Date)
		ev.Date = payload.Date
		ev.SlotMinutes = payload.SlotMinutes
		ev.Artist = payload.Artist
		ev.Items = model.CloneEntries(payload.Items)
		ev.UpdatedAt = payload.UpdatedAt
	}
	e.rebuildArtists()
	e.persist()

	if isLocalID(payload.ID) {
		return nil
	}
	if !e.signedIn() {
		return &RemoteError{Op: "update live event", Err: remote.ErrUnauthenticated}
	}

	payload.Title = duration.AutoLiveTitle(payload.Title, payload.Date)
	var err error
	e.callRemote(func(r Remote) { err = r.UpdateLiveEvent(ctx, payload.ID, payload) })
	if err != nil {
		e.log.Error("update live event failed", zap.String("id", payload.ID), zap.Error(err))
		return &RemoteError{Op: "update live event", Err: err}
	}
	if e.s.liveID == payload.ID {
		e.s.setlistDirty = false
	}
	return nil
}

// LoadLiveEvent selects a cached live event, switching artist when the
// event belongs to another one. An empty id clears the selection.
func (e *Engine) LoadLiveEvent(ctx context.Context, id string, confirm Confirm) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" {
		if err := e.confirmDiscard(confirm); err != nil {
			return err
		}
		e.resetSetlist()
		e.persist()
		return nil
	}

	ev := e.findEvent(id)
	if ev == nil {
		return ErrNoLiveEvent
	}
	if err := e.confirmDiscard(confirm); err != nil {
		return err
	}
	target := *ev
	target.Items = model.CloneEntries(ev.Items)

	if target.Artist != e.s.current {
		e.selectArtist(ctx, target.Artist)
	}
	e.applyLiveEvent(target)
	e.persist()
	return nil
}

// DeleteLiveEvent removes a live event from the cache and the remote
// store. Deleting the selected event falls back to the artist's newest.
func (e *Engine) DeleteLiveEvent(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := e.findEvent(id)
	if ev == nil {
		return ErrNoLiveEvent
	}
	e.s.events = lo.Without(e.s.events, ev)
	if e.s.liveID == id {
		e.resetSetlist()
		e.autoSelectLiveEvent()
	}
	e.rebuildArtists()
	e.persist()

	if !e.signedIn() || isLocalID(id) {
		return nil
	}
	var err error
	e.callRemote(func(r Remote) { err = r.DeleteLiveEvent(ctx, id) })
	if err != nil {
		e.log.Error("delete live event failed", zap.String("id", id), zap.Error(err))
		return &RemoteError{Op: "delete live event", Err: err}
	}
	return nil
}

// SaveResult reports what SaveAll wrote.
type SaveResult struct {
	Songs      int  `json:"songs"`
	DraftSaved bool `json:"draftSaved"`
}

// SaveAll writes the whole library for the current artist and, when the
// setlist is not empty, the artist's draft.
func (e *Engine) SaveAll(ctx context.Context) (SaveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res SaveResult
	artist := e.s.current
	if artist == "" {
		return res, ErrNoArtist
	}
	if !e.signedIn() {
		return res, remote.ErrUnauthenticated
	}
	if len(e.s.library) == 0 {
		return res, ErrEmptyLibrary
	}

	refs := append([]*model.Song(nil), e.s.library...)
	songs := make([]model.Song, len(refs))
	for i, s := range refs {
		songs[i] = *s
		songs[i].Order = i
		if strings.TrimSpace(songs[i].Artist) == "" {
			songs[i].Artist = artist
		}
	}
	var draft *model.LiveEvent
	if len(e.s.setlist) > 0 && e.s.preview == nil {
		ev := e.working()
		ev.ID = ""
		draft = &ev
	}
	e.persist()

	var ids []string
	var err error
	e.callRemote(func(r Remote) { ids, err = r.SaveLibrarySnapshot(ctx, songs) })
	if err != nil {
		e.log.Error("save library failed", zap.String("artist", artist), zap.Error(err))
		return res, &RemoteError{Op: "save library", Err: err}
	}
	for i, s := range refs {
		if i >= len(ids) || !e.hasSong(s) {
			continue
		}
		s.RemoteID = ids[i]
		s.Source = model.SourceRemote
		s.Artist = songs[i].Artist
	}
	e.s.libraryDirty = false
	res.Songs = len(ids)

	if draft != nil {
		e.callRemote(func(r Remote) { _, err = r.SaveDraftLiveEvent(ctx, *draft) })
		if err != nil {
			e.log.Error("save draft failed", zap.String("artist", artist), zap.Error(err))
			e.persist()
			return res, &RemoteError{Op: "save draft", Err: err}
		}
		res.DraftSaved = true
		e.s.draftArtist = artist
		if e.s.current == artist {
			e.s.setlistDirty = false
		}
	}
	e.persist()
	return res, nil
}

// LoadDraft applies the artist's saved draft to the setlist. Unless force
// is set it runs at most once per artist and never over a setlist restored
// from the local snapshot for the same artist.
func (e *Engine) LoadDraft(ctx context.Context, force bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadDraft(ctx, force)
}

func (e *Engine) loadDraft(ctx context.Context, force bool) (bool, error) {
	artist := e.s.current
	if !e.signedIn() {
		return false, remote.ErrUnauthenticated
	}
	if !force {
		if e.s.draftArtist == artist {
			return false, nil
		}
		if e.s.restored && e.s.restoredArtist == artist && len(e.s.setlist) > 0 {
			e.s.draftArtist = artist
			return false, nil
		}
	}

	var draft *model.LiveEvent
	var err error
	e.callRemote(func(r Remote) { draft, err = r.LoadDraftLiveEvent(ctx, artist) })
	if err != nil {
		e.log.Error("load draft failed", zap.String("artist", artist), zap.Error(err))
		return false, &RemoteError{Op: "load draft", Err: err}
	}
	e.s.draftArtist = artist
	if draft == nil || len(draft.Items) == 0 || e.s.current != artist || e.s.preview != nil {
		return false, nil
	}

	e.s.liveID = ""
	e.s.live = model.LiveInfo{Title: draft.Title, Date: draft.Date, SlotMinutes: draft.SlotMinutes}
	e.s.setlist = model.CloneEntries(draft.Items)
	e.s.setlistDirty = false
	e.recompute()
	e.persist()
	return true, nil
}
