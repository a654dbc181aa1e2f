package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"setlist-service/internal/remote"
	"setlist-service/internal/setlist"
	"setlist-service/internal/share"
)

type stateResponse struct {
	setlist.State
	Alert string              `json:"alert,omitempty"`
	Saved *setlist.SaveResult `json:"saved,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the body into v. An empty body is accepted when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		writeError(w, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return i, true
}

func confirm(discard bool) setlist.Confirm {
	if discard {
		return setlist.Discard
	}
	return setlist.Keep
}

// respond publishes the change and returns the session state. A remote
// failure after a local change is reported as an alert next to the state.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, eng *setlist.Engine, session string, err error) {
	s.respondSaved(w, r, eng, session, nil, err)
}

func (s *Server) respondSaved(w http.ResponseWriter, r *http.Request, eng *setlist.Engine, session string, saved *setlist.SaveResult, err error) {
	var alert string
	if err != nil {
		var rerr *setlist.RemoteError
		if !errors.As(err, &rerr) {
			s.writeEngineError(w, err)
			return
		}
		alert = rerr.Error()
	}
	s.publish(r.Context(), session)
	writeJSON(w, http.StatusOK, stateResponse{State: eng.State(), Alert: alert, Saved: saved})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var verr *setlist.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Msg, "field": verr.Field})
	case errors.Is(err, setlist.ErrIndexOutOfRange), errors.Is(err, setlist.ErrNoLiveEvent):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, setlist.ErrNoArtist),
		errors.Is(err, setlist.ErrPreviewReadOnly),
		errors.Is(err, setlist.ErrDiscardDeclined):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, setlist.ErrEmptyLibrary),
		errors.Is(err, share.ErrInvalidToken),
		errors.Is(err, share.ErrEmptySetlist):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, remote.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "ログインしてください")
	default:
		s.log.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// WriteError writes the {"error": msg} body used by every handler.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeError(w, status, msg)
}
