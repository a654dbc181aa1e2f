// Package api exposes setlist sessions over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"setlist-service/internal/auth"
	"setlist-service/internal/realtime"
)

// Publisher announces that a session changed.
type Publisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

type Options struct {
	ShareBaseURL string
	Publisher    Publisher
	WebSocket    http.HandlerFunc
	Logger       *zap.Logger
}

type Server struct {
	sessions  *Sessions
	pub       Publisher
	ws        http.HandlerFunc
	shareBase string
	log       *zap.Logger
}

func NewServer(sessions *Sessions, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sessions:  sessions,
		pub:       opts.Publisher,
		ws:        opts.WebSocket,
		shareBase: opts.ShareBaseURL,
		log:       log.Named("api"),
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	if s.ws != nil {
		r.Get("/ws", s.ws)
	}

	r.Post("/auth/signin", s.handleSignIn)
	r.Post("/auth/signout", s.handleSignOut)
	r.Post("/refresh", s.handleRefresh)

	r.Post("/artists", s.handleAddArtist)
	r.Put("/artists/current", s.handleSelectArtist)
	r.Delete("/artists/current", s.handleDeleteArtist)

	r.Post("/library/songs", s.handleAddSong)
	r.Patch("/library/songs/{index}", s.handleEditSong)
	r.Delete("/library/songs/{index}", s.handleDeleteSong)
	r.Post("/library/move", s.handleMoveSong)
	r.Post("/library/save", s.handleSaveAll)

	r.Post("/setlist/entries", s.handleAddEntry)
	r.Patch("/setlist/entries/{index}", s.handleEditEntry)
	r.Put("/setlist/entries/{index}/duration", s.handleEntryDuration)
	r.Delete("/setlist/entries/{index}", s.handleRemoveEntry)
	r.Post("/setlist/move", s.handleMoveEntry)
	r.Delete("/setlist", s.handleClearSetlist)
	r.Put("/setlist/slot", s.handleSlot)

	r.Post("/lives", s.handleCreateLive)
	r.Patch("/lives/current", s.handleEditLive)
	r.Post("/lives/current/save", s.handleSaveLive)
	r.Put("/lives/current", s.handleLoadLive)
	r.Delete("/lives/{id}", s.handleDeleteLive)
	r.Post("/drafts/load", s.handleLoadDraft)

	r.Get("/share", s.handleOpenShared)
	r.Get("/share/link", s.handleShareLink)
	r.Get("/share/qr", s.handleShareQR)
	r.Get("/export", s.handleExport)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "setlist-service",
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	eng, _, ok := s.session(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: eng.State()})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if auth.UserID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, nil)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, false)
	if !ok {
		return
	}
	eng.SignOut()
	s.respond(w, r, eng, id, nil)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	eng.RefreshArtists(r.Context())
	eng.RefreshLiveEvents(r.Context())
	s.respond(w, r, eng, id, nil)
}

func (s *Server) publish(ctx context.Context, session string) {
	if s.pub == nil {
		return
	}
	ev := realtime.Event{Type: "setlist.updated", Session: session, UserID: auth.UserID(ctx)}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event", zap.String("session", session), zap.Error(err))
	}
}
