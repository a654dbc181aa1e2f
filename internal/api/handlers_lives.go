package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"setlist-service/internal/model"
)

type liveInfoRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	SlotMinutes *int   `json:"slotMinutes"`
}

func (b liveInfoRequest) info() model.LiveInfo {
	slot := model.DefaultSlotMinutes
	if b.SlotMinutes != nil {
		slot = *b.SlotMinutes
	}
	return model.LiveInfo{Title: b.Title, Date: b.Date, SlotMinutes: slot}
}

func (s *Server) handleCreateLive(w http.ResponseWriter, r *http.Request) {
	var body liveInfoRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.CreateLiveEvent(r.Context(), body.info()))
}

func (s *Server) handleEditLive(w http.ResponseWriter, r *http.Request) {
	var body liveInfoRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.EditLiveInfo(r.Context(), body.info()))
}

func (s *Server) handleSaveLive(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.SaveLiveEvent(r.Context()))
}

func (s *Server) handleLoadLive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      string `json:"id"`
		Discard bool   `json:"discard"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.LoadLiveEvent(r.Context(), body.ID, confirm(body.Discard)))
}

func (s *Server) handleDeleteLive(w http.ResponseWriter, r *http.Request) {
	liveID := chi.URLParam(r, "id")
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.DeleteLiveEvent(r.Context(), liveID))
}

func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Force bool `json:"force"`
	}
	if !decodeJSON(w, r, &body, true) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	_, err := eng.LoadDraft(r.Context(), body.Force)
	s.respond(w, r, eng, id, err)
}
