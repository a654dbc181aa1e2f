package setlist

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"setlist-service/internal/model"
)

// SignIn binds the session to uid, replaces the library with the remote
// copy and reloads artists, live events and the current artist's draft.
func (e *Engine) SignIn(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return invalid("uid", "ユーザーIDがありません")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.s.userID = uid
	e.remote = e.newRemote(uid)
	e.s.draftArtist = ""

	artist := e.s.current
	var songs []model.Song
	var err error
	e.callRemote(func(r Remote) { songs, err = r.ListSongs(ctx, artist) })
	switch {
	case e.s.userID != uid || e.s.current != artist:
	case err != nil:
		e.log.Error("list songs failed", zap.String("uid", uid), zap.Error(err))
	default:
		e.s.library = lo.Map(songs, func(s model.Song, _ int) *model.Song { return &s })
		e.s.libraryDirty = false
	}

	e.refreshArtists(ctx)
	e.refreshLiveEvents(ctx)
	e.ensureDefaultArtist(ctx)
	if e.s.current != "" {
		if _, err := e.loadDraft(ctx, false); err != nil {
			e.log.Warn("draft not loaded", zap.Error(err))
		}
	}
	e.recompute()
	e.persist()
	return nil
}

// SignOut forgets everything that came from the remote store.
func (e *Engine) SignOut() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.s.userID = ""
	e.remote = e.newRemote("")
	e.s.library = []*model.Song{}
	e.s.events = nil
	e.s.artistIDs = map[string]string{}
	e.s.artistCreated = map[string]int64{}
	e.s.lastAdded = ""
	e.s.draftArtist = ""
	e.s.restored = false
	e.s.restoredArtist = ""
	e.rebuildArtists()
	e.recompute()
	e.persist()
}

func (e *Engine) SignedIn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signedIn()
}

func (e *Engine) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.userID
}
