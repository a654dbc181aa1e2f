package setlist

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"setlist-service/internal/model"
)

// rebuildArtists recomputes the known-artist set as the union of registered
// artists and artists referenced by cached live events.
func (e *Engine) rebuildArtists() {
	names := lo.Keys(e.s.artistIDs)
	for _, ev := range e.s.events {
		names = append(names, ev.Artist)
	}
	names = lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.TrimSpace(n)
		return n, n != ""
	}))
	e.coll.SortStrings(names)
	e.s.artists = names

	if e.s.current != "" && !lo.Contains(names, e.s.current) {
		e.s.current = ""
	}
	e.collapseIfNoArtists()
}

// defaultArtist prefers the most recently created artist, then the last
// one added in this session, then the last in collation order.
func (e *Engine) defaultArtist() string {
	best, bestAt := "", int64(-1)
	for _, name := range e.s.artists {
		if at, ok := e.s.artistCreated[name]; ok && at > bestAt {
			best, bestAt = name, at
		}
	}
	if best != "" {
		return best
	}
	if lo.Contains(e.s.artists, e.s.lastAdded) {
		return e.s.lastAdded
	}
	return e.s.artists[len(e.s.artists)-1]
}

func (e *Engine) ensureDefaultArtist(ctx context.Context) {
	if e.s.current != "" || len(e.s.artists) == 0 {
		return
	}
	e.selectArtist(ctx, e.defaultArtist())
}

// selectArtist switches the session to name: the live selection is reset,
// the library is reloaded for the artist, the setlist is cleared and the
// artist's newest live event is selected when one is cached.
func (e *Engine) selectArtist(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	e.s.current = name
	e.resetSetlist()
	e.persist()

	switch {
	case name == "":
		e.s.library = []*model.Song{}
	case e.signedIn():
		var songs []model.Song
		var err error
		e.callRemote(func(r Remote) { songs, err = r.ListSongs(ctx, name) })
		if e.s.current != name {
			return
		}
		if err != nil {
			e.log.Error("list songs failed", zap.String("artist", name), zap.Error(err))
			break
		}
		e.s.library = lo.Map(songs, func(s model.Song, _ int) *model.Song { return &s })
		e.s.libraryDirty = false
	}

	e.autoSelectLiveEvent()
	e.recompute()
	e.persist()
}

// SelectArtist switches the current artist, asking confirm first when
// there are unsaved changes.
func (e *Engine) SelectArtist(ctx context.Context, name string, confirm Confirm) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.confirmDiscard(confirm); err != nil {
		return err
	}
	e.selectArtist(ctx, name)
	return nil
}

// AddArtist registers name and selects it. A name that is already known is
// only selected.
func (e *Engine) AddArtist(ctx context.Context, name string, confirm Confirm) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "アーティスト名を入力してください")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.confirmDiscard(confirm); err != nil {
		return err
	}
	if _, ok := e.s.artistIDs[name]; ok {
		e.selectArtist(ctx, name)
		return nil
	}

	var id string
	var err error
	if e.signedIn() {
		e.callRemote(func(r Remote) { id, err = r.SaveArtist(ctx, name) })
		if err != nil {
			e.log.Error("save artist failed", zap.String("artist", name), zap.Error(err))
		}
	}

	e.s.artistIDs[name] = id
	e.s.artistCreated[name] = e.now().Unix()
	e.s.lastAdded = name
	e.rebuildArtists()
	e.selectArtist(ctx, name)

	if err != nil {
		return &RemoteError{Op: "save artist", Err: err}
	}
	return nil
}

// DeleteArtist removes the current artist together with its songs and
// live events, locally first and then remotely.
func (e *Engine) DeleteArtist(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := e.s.current
	if name == "" {
		return ErrNoArtist
	}
	artistID := e.s.artistIDs[name]

	related := lo.Filter(e.s.events, func(ev *model.LiveEvent, _ int) bool { return ev.Artist == name })
	liveIDs := lo.FilterMap(related, func(ev *model.LiveEvent, _ int) (string, bool) {
		return ev.ID, ev.ID != "" && !isLocalID(ev.ID)
	})

	e.s.events = lo.Without(e.s.events, related...)
	e.s.library = lo.Reject(e.s.library, func(s *model.Song, _ int) bool {
		return strings.TrimSpace(s.Artist) == name
	})
	delete(e.s.artistIDs, name)
	delete(e.s.artistCreated, name)
	if e.s.lastAdded == name {
		e.s.lastAdded = ""
	}
	if e.s.draftArtist == name {
		e.s.draftArtist = ""
	}
	e.rebuildArtists()
	e.selectArtist(ctx, "")

	if !e.signedIn() {
		return nil
	}

	var errs []error
	e.callRemote(func(r Remote) {
		for _, id := range liveIDs {
			if err := r.DeleteLiveEvent(ctx, id); err != nil {
				errs = append(errs, err)
			}
		}
		if artistID != "" {
			if err := r.DeleteArtist(ctx, artistID); err != nil {
				errs = append(errs, err)
			}
		}
		if _, err := r.DeleteSongsByArtist(ctx, name); err != nil {
			errs = append(errs, err)
		}
	})
	for _, err := range errs {
		e.log.Error("delete artist cascade failed", zap.String("artist", name), zap.Error(err))
	}
	if len(errs) > 0 {
		return &RemoteError{Op: "delete artist", Err: errs[0]}
	}
	return nil
}

// RefreshArtists reloads registered artists from the remote store.
func (e *Engine) RefreshArtists(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.refreshArtists(ctx)
	e.ensureDefaultArtist(ctx)
	e.persist()
}

// RefreshLiveEvents reloads the live event cache from the remote store.
func (e *Engine) RefreshLiveEvents(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.refreshLiveEvents(ctx)
	e.ensureDefaultArtist(ctx)
	e.persist()
}

// refreshArtists replaces remotely known artists. Artists that never
// reached the remote store are kept.
func (e *Engine) refreshArtists(ctx context.Context) {
	if !e.signedIn() {
		e.rebuildArtists()
		return
	}

	var list []model.Artist
	var err error
	e.callRemote(func(r Remote) { list, err = r.ListArtists(ctx) })
	if err != nil {
		e.log.Error("list artists failed", zap.Error(err))
		e.rebuildArtists()
		return
	}

	ids := lo.PickBy(e.s.artistIDs, func(_ string, id string) bool { return id == "" })
	created := map[string]int64{}
	for _, a := range list {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		ids[name] = a.ID
		if a.CreatedAt != nil {
			created[name] = *a.CreatedAt
		}
	}
	for name, id := range ids {
		if at, ok := e.s.artistCreated[name]; ok && id == "" {
			created[name] = at
		}
	}
	e.s.artistIDs = ids
	e.s.artistCreated = created
	e.rebuildArtists()
}

// refreshLiveEvents replaces the cache with the remote list. Events that
// only exist locally stay in front.
func (e *Engine) refreshLiveEvents(ctx context.Context) {
	if !e.signedIn() {
		e.rebuildArtists()
		return
	}

	var list []model.LiveEvent
	var err error
	e.callRemote(func(r Remote) { list, err = r.ListLiveEvents(ctx) })
	if err != nil {
		e.log.Error("list live events failed", zap.Error(err))
		e.rebuildArtists()
		return
	}

	events := lo.Filter(e.s.events, func(ev *model.LiveEvent, _ int) bool {
		return ev.ID == "" || isLocalID(ev.ID)
	})
	for _, ev := range list {
		if ev.IsDraft {
			continue
		}
		events = append(events, &ev)
	}
	e.s.events = events
	e.rebuildArtists()
}
