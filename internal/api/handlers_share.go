package api

import (
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"setlist-service/internal/export"
	"setlist-service/internal/share"
)

// handleOpenShared shows the setlist carried by ?s= read-only.
func (s *Server) handleOpenShared(w http.ResponseWriter, r *http.Request) {
	eng, id, ok := s.session(w, r, true)
	if !ok {
		return
	}
	s.respond(w, r, eng, id, eng.OpenShared(r.URL.Query().Get(share.QueryParam)))
}

func (s *Server) shareLink(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	eng, _, ok := s.session(w, r, true)
	if !ok {
		return "", "", false
	}
	token, err := eng.ShareToken()
	if err != nil {
		s.writeEngineError(w, err)
		return "", "", false
	}
	link, err := share.Link(s.shareBase, token)
	if err != nil {
		s.log.Error("share link", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "share link unavailable")
		return "", "", false
	}
	return token, link, true
}

func (s *Server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	token, link, ok := s.shareLink(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "url": link})
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	_, link, ok := s.shareLink(w, r)
	if !ok {
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := share.QRCode(link, size)
	if err != nil {
		s.log.Error("share qr", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "qr unavailable")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	eng, _, ok := s.session(w, r, true)
	if !ok {
		return
	}
	ev := eng.Working()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(ev),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Sheet(ev)))
}
