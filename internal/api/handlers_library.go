package api

import (
	"net/http"

	"setlist-service/internal/setlist"
)

type songEditRequest struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
	SheetURL string `json:"sheetUrl"`
}

func (b songEditRequest) edit() setlist.SongEdit {
	return setlist.SongEdit{Title: b.Title, Duration: b.Duration, URL: b.URL, SheetURL: b.SheetURL}
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string `json:"title"`
		Minutes  int    `json:"minutes"`
		Seconds  int    `json:"seconds"`
		Duration string `json:"duration"`
		URL      string `json:"url"`
		SheetURL string `json:"sheetUrl"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	err := eng.AddSong(r.Context(), setlist.NewSong{
		Title:    body.Title,
		Minutes:  body.Minutes,
		Seconds:  body.Seconds,
		Duration: body.Duration,
		URL:      body.URL,
		SheetURL: body.SheetURL,
	})
	s.respond(w, r, eng, id, err)
}

func (s *Server) handleEditSong(w http.ResponseWriter, r *http.Request) {
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
	s.respond(w, r, eng, id, eng.EditLibrarySong(r.Context(), index, body.edit()))
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.DeleteLibrarySong(r.Context(), index))
}

func (s *Server) handleMoveSong(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if !decodeJSON(w, r, &body, false) {
		return
	}
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.MoveLibrarySong(body.From, body.To))
}

func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	res, err := eng.SaveAll(r.Context())
	s.respondSaved(w, r, eng, id, &res, err)
}
