package api

import "net/http"

type artistRequest struct {
	Name    string `json:"name"`
	Discard bool   `json:"discard"`
}

func (s *Server) handleAddArtist(w http.ResponseWriter, r *http.Request) {
	var body artistRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.AddArtist(r.Context(), body.Name, confirm(body.Discard)))
}

func (s *Server) handleSelectArtist(w http.ResponseWriter, r *http.Request) {
	var body artistRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.SelectArtist(r.Context(), body.Name, confirm(body.Discard)))
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.DeleteArtist(r.Context()))
}
