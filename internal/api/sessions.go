package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"setlist-service/internal/auth"
	"setlist-service/internal/realtime"
	"setlist-service/internal/remote"
	"setlist-service/internal/setlist"
	"setlist-service/internal/snapshot"
)

// SessionHeader names the planning session a request works on.
const SessionHeader = realtime.SessionHeader

var (
	errTokenRequired = errors.New("this session is signed in, send its token")
	errOtherOwner    = errors.New("this session belongs to another user")
)

// EngineFactory builds the engine for a new session id.
type EngineFactory func(id string) *setlist.Engine

// FileEngineFactory keeps each session's snapshot in dir/<id>.json.
func FileEngineFactory(dir string, store remote.Store, log *zap.Logger, locale string) EngineFactory {
	return func(id string) *setlist.Engine {
		snap := snapshot.NewFileStore(filepath.Join(dir, id+".json"))
		return setlist.New(snap, setlist.ForStore(store),
			setlist.WithLogger(log.Named("setlist").With(zap.String("session", id))),
			setlist.WithLocale(locale),
		)
	}
}

// Sessions holds one engine per session id, restored on first use. A
// session is bound to the first user that signs it in; after that only
// requests carrying that user's token may use it.
type Sessions struct {
	mu         sync.Mutex
	engines    map[string]*setlist.Engine
	owners     map[string]string
	ownersPath string
	newEngine  EngineFactory
}

func NewSessions(f EngineFactory) *Sessions {
	return &Sessions{
		engines:   make(map[string]*setlist.Engine),
		owners:    make(map[string]string),
		newEngine: f,
	}
}

func (s *Sessions) Get(id string) *setlist.Engine {
	id = realtime.SessionID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	eng, ok := s.engines[id]
	if !ok {
		eng = s.newEngine(id)
		eng.Restore()
		s.engines[id] = eng
	}
	return eng
}

// claim checks uid against the session owner and binds an unowned session
// to a non-empty uid.
func (s *Sessions) claim(id, uid string) error {
	id = realtime.SessionID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.owners[id]
	switch {
	case owner == "" && uid != "":
		s.owners[id] = uid
		if err := s.saveOwners(); err != nil {
			delete(s.owners, id)
			return err
		}
	case owner == "":
	case uid == "":
		return errTokenRequired
	case uid != owner:
		return errOtherOwner
	}
	return nil
}

// OwnersFile is the owners index inside a sessions dir. Session ids cannot
// contain a dot, so it never collides with a snapshot file.
const OwnersFile = ".owners.json"

// PersistOwners loads session owners from path and writes every new
// binding back to it, so a restart does not release signed-in sessions.
func (s *Sessions) PersistOwners(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("session owners: %w", err)
	default:
		if err := json.Unmarshal(data, &s.owners); err != nil {
			return fmt.Errorf("session owners: decode %s: %w", path, err)
		}
	}
	s.ownersPath = path
	return nil
}

func (s *Sessions) saveOwners() error {
	if s.ownersPath == "" {
		return nil
	}
	data, err := json.Marshal(s.owners)
	if err != nil {
		return fmt.Errorf("session owners: encode: %w", err)
	}
	tmp := s.ownersPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session owners: write: %w", err)
	}
	if err := os.Rename(tmp, s.ownersPath); err != nil {
		return fmt.Errorf("session owners: rename: %w", err)
	}
	return nil
}

// session resolves the request's engine and writes an error response when
// the caller may not use it. With signIn set, the owner is signed in when
// the engine is not already.
func (s *Server) session(w http.ResponseWriter, r *http.Request, signIn bool) (*setlist.Engine, string, bool) {
	id := realtime.SessionID(r.Header.Get(SessionHeader))
	uid := auth.UserID(r.Context())

	if err := s.sessions.claim(id, uid); err != nil {
		switch {
		case errors.Is(err, errTokenRequired):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, errOtherOwner):
			s.log.Warn("session refused", zap.String("session", id), zap.String("uid", uid))
			writeError(w, http.StatusForbidden, err.Error())
		default:
			s.log.Error("claim session", zap.String("session", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return nil, id, false
	}

	eng := s.sessions.Get(id)
	if signIn && uid != "" && eng.UserID() != uid {
		if err := eng.SignIn(r.Context(), uid); err != nil {
			s.log.Warn("sign in", zap.String("session", id), zap.Error(err))
		}
	}
	return eng, id, true
}
