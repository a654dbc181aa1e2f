package api

import (
	"net/http"
)

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LibraryIndex int  `json:"libraryIndex"`
		Position     *int `json:"position"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	pos := -1
	if body.Position != nil {
		pos = *body.Position
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.AddToSetlist(body.LibraryIndex, pos))
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body songEditRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.EditSetlistEntry(r.Context(), index, body.edit()))
}

func (s *Server) handleEntryDuration(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Duration string `json:"duration"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.OverrideEntryDuration(index, body.Duration))
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.RemoveSetlistEntry(index))
}

func (s *Server) handleMoveEntry(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.MoveSetlistEntry(body.From, body.To))
}

func (s *Server) handleClearSetlist(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	eng.ClearSetlist()
	s.respond(w, r, eng, id, nil)
}

func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minutes int `json:"minutes"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.SetSlotMinutes(body.Minutes))
}
