// Package setlist owns one planning session: the song library, the active
// setlist and the cached live events, kept consistent with each other, with
// the local snapshot and with the remote store.
package setlist

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"setlist-service/internal/model"
	"setlist-service/internal/remote"
	"setlist-service/internal/snapshot"
)

// Remote is the per-user view of the remote store.
type Remote interface {
	SaveSong(ctx context.Context, song model.Song) (string, error)
	UpdateSong(ctx context.Context, id string, song model.Song) error
	DeleteSong(ctx context.Context, id string) error
	ListSongs(ctx context.Context, artist string) ([]model.Song, error)
	SaveLibrarySnapshot(ctx context.Context, songs []model.Song) ([]string, error)
	DeleteSongsByArtist(ctx context.Context, artist string) (int, error)
	SaveArtist(ctx context.Context, name string) (string, error)
	ListArtists(ctx context.Context) ([]model.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
	SaveLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error)
	UpdateLiveEvent(ctx context.Context, id string, ev model.LiveEvent) error
	ListLiveEvents(ctx context.Context) ([]model.LiveEvent, error)
	DeleteLiveEvent(ctx context.Context, id string) error
	SaveDraftLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error)
	LoadDraftLiveEvent(ctx context.Context, artist string) (*model.LiveEvent, error)
}

// RemoteFactory scopes the remote store to a user id.
type RemoteFactory func(uid string) Remote

// ForStore adapts a remote.Store into a RemoteFactory.
func ForStore(store remote.Store) RemoteFactory {
	return func(uid string) Remote { return remote.ForUser(store, uid) }
}

// Confirm is asked before unsaved changes are thrown away.
type Confirm func() bool

var (
	Discard Confirm = func() bool { return true }
	Keep    Confirm = func() bool { return false }
)

// localIDPrefix marks live events that were never accepted by the remote
// store.
const localIDPrefix = "local-"

func isLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

type previewBackup struct {
	live         model.LiveInfo
	setlist      []model.SetlistEntry
	liveID       string
	setlistDirty bool
}

type session struct {
	userID string

	artists       []string
	artistIDs     map[string]string
	artistCreated map[string]int64
	lastAdded     string
	current       string

	liveID  string
	live    model.LiveInfo
	library []*model.Song
	setlist []model.SetlistEntry
	events  []*model.LiveEvent
	totals  model.Totals

	libraryDirty bool
	setlistDirty bool

	preview *previewBackup

	restored       bool
	restoredArtist string
	draftArtist    string
	collapsing     bool
}

func newSession() session {
	return session{
		artists:       []string{},
		artistIDs:     map[string]string{},
		artistCreated: map[string]int64{},
		live:          model.LiveInfo{SlotMinutes: model.DefaultSlotMinutes},
		library:       []*model.Song{},
		setlist:       []model.SetlistEntry{},
	}
}

// Engine serializes local mutations with a mutex that is released for the
// duration of every remote call.
type Engine struct {
	mu sync.Mutex
	s  session

	snap      snapshot.Store
	newRemote RemoteFactory
	remote    Remote
	match     Matcher
	coll      *collate.Collator
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithMatcher(m Matcher) Option {
	return func(e *Engine) { e.match = m }
}

// WithLocale sets the collation used for artist names.
func WithLocale(tag string) Option {
	return func(e *Engine) {
		t, err := language.Parse(tag)
		if err != nil {
			e.log.Warn("unknown collation locale", zap.String("locale", tag), zap.Error(err))
			return
		}
		e.coll = collate.New(t)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(snap snapshot.Store, newRemote RemoteFactory, opts ...Option) *Engine {
	e := &Engine{
		s:         newSession(),
		snap:      snap,
		newRemote: newRemote,
		match:     WeakIdentityMatcher{},
		coll:      collate.New(language.Japanese),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.remote = newRemote("")
	return e
}

// callRemote runs f with the session unlocked. Callers must re-check any
// state they captured before the call.
func (e *Engine) callRemote(f func(r Remote)) {
	r := e.remote
	e.mu.Unlock()
	defer e.mu.Lock()
	f(r)
}

func (e *Engine) signedIn() bool {
	return e.s.userID != ""
}

func (e *Engine) recompute() {
	e.s.totals = model.ComputeTotals(e.s.setlist, e.s.live.SlotMinutes)
}

// persist writes the authoritative state. A shared preview is never
// written; the state it replaced is.
func (e *Engine) persist() {
	for i, s := range e.s.library {
		s.Order = i
	}
	snap := snapshot.Snapshot{
		CurrentArtist: e.s.current,
		LiveTitle:     e.s.live.Title,
		LiveDate:      e.s.live.Date,
		SlotMinutes:   e.s.live.SlotMinutes,
		Library:       e.songs(),
		Setlist:       model.CloneEntries(e.s.setlist),
		CurrentLiveID: e.s.liveID,
	}
	if p := e.s.preview; p != nil {
		snap.LiveTitle = p.live.Title
		snap.LiveDate = p.live.Date
		snap.SlotMinutes = p.live.SlotMinutes
		snap.Setlist = model.CloneEntries(p.setlist)
		snap.CurrentLiveID = p.liveID
	}
	if err := e.snap.Save(snap); err != nil {
		e.log.Warn("snapshot save failed", zap.Error(err))
	}
}

func (e *Engine) songs() []model.Song {
	return lo.Map(e.s.library, func(s *model.Song, _ int) model.Song { return *s })
}

func (e *Engine) hasSong(song *model.Song) bool {
	return lo.Contains(e.s.library, song)
}

func (e *Engine) findEvent(id string) *model.LiveEvent {
	ev, _ := lo.Find(e.s.events, func(ev *model.LiveEvent) bool { return ev.ID == id })
	return ev
}

func (e *Engine) confirmDiscard(confirm Confirm) error {
	if !e.s.libraryDirty && !e.s.setlistDirty {
		return nil
	}
	if confirm == nil || !confirm() {
		return ErrDiscardDeclined
	}
	return nil
}

// Restore loads the local snapshot. A missing or unreadable snapshot
// leaves the session empty.
func (e *Engine) Restore() {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.snap.Load()
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			e.log.Warn("snapshot load failed", zap.Error(err))
		}
		e.collapseIfNoArtists()
		return
	}

	if a := strings.TrimSpace(snap.CurrentArtist); a != "" {
		if _, ok := e.s.artistIDs[a]; !ok {
			e.s.artistIDs[a] = ""
		}
		e.s.current = a
		e.rebuildArtists()
	}

	e.s.live = model.LiveInfo{Title: snap.LiveTitle, Date: snap.LiveDate, SlotMinutes: snap.SlotMinutes}

	lib := make([]model.Song, len(snap.Library))
	copy(lib, snap.Library)
	sort.SliceStable(lib, func(i, j int) bool { return lib[i].Order < lib[j].Order })
	e.s.library = lo.Map(lib, func(s model.Song, _ int) *model.Song { return &s })

	e.s.setlist = model.CloneEntries(snap.Setlist)
	if snap.CurrentLiveID == "" && len(e.s.library) == 0 && len(e.s.setlist) > 0 {
		e.log.Info("dropping setlist restored without library or live event", zap.Int("items", len(e.s.setlist)))
		e.s.setlist = []model.SetlistEntry{}
	}
	e.s.liveID = snap.CurrentLiveID
	e.s.libraryDirty = false
	e.s.setlistDirty = false
	e.s.restored = true
	e.s.restoredArtist = e.s.current

	e.recompute()
	e.collapseIfNoArtists()
	e.persist()
}

// collapseIfNoArtists clears the working state when no artist is known.
func (e *Engine) collapseIfNoArtists() bool {
	if len(e.s.artists) > 0 || e.s.collapsing {
		return false
	}
	if len(e.s.library) == 0 && len(e.s.setlist) == 0 && e.s.current == "" && e.s.liveID == "" {
		return false
	}

	e.s.collapsing = true
	defer func() { e.s.collapsing = false }()

	e.s.current = ""
	e.s.preview = nil
	e.s.library = []*model.Song{}
	e.resetSetlist()
	e.persist()
	return true
}

// resetSetlist drops the live selection and the active setlist.
func (e *Engine) resetSetlist() {
	e.s.preview = nil
	e.s.liveID = ""
	e.s.live = model.LiveInfo{SlotMinutes: model.DefaultSlotMinutes}
	e.s.setlist = []model.SetlistEntry{}
	e.s.libraryDirty = false
	e.s.setlistDirty = false
	e.recompute()
}

func (e *Engine) applyLiveEvent(ev model.LiveEvent) {
	e.s.preview = nil
	e.s.liveID = ev.ID
	e.s.live = model.LiveInfo{Title: ev.Title, Date: ev.Date, SlotMinutes: ev.SlotMinutes}
	e.s.setlist = model.CloneEntries(ev.Items)
	e.s.setlistDirty = false
	e.recompute()
}

func (e *Engine) autoSelectLiveEvent() {
	ev, ok := lo.Find(e.s.events, func(ev *model.LiveEvent) bool {
		return ev.ID != "" && ev.Artist == e.s.current
	})
	if ok {
		e.applyLiveEvent(*ev)
	}
}
