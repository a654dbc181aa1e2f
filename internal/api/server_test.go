package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setlist-service/internal/auth"
	"setlist-service/internal/realtime"
	"setlist-service/internal/remote"
	"setlist-service/internal/setlist"
	"setlist-service/internal/share"
	"setlist-service/internal/snapshot"
)

var testSecret = []byte("test-secret")

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *fakePublisher) Publish(_ context.Context, ev realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) sessions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Session)
	}
	return out
}

type testEnv struct {
	handler http.Handler
	pub     *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sessions := NewSessions(func(id string) *setlist.Engine {
		return setlist.New(&snapshot.MemoryStore{}, setlist.ForStore(remote.Offline{}))
	})
	pub := &fakePublisher{}
	srv := NewServer(sessions, Options{
		ShareBaseURL: "https://setlist.example/share",
		Publisher:    pub,
	})
	return &testEnv{
		handler: srv.Router(auth.Middleware(testSecret, WriteError)),
		pub:     pub,
	}
}

type call struct {
	method  string
	path    string
	body    any
	session string
	token   string
}

func (e *testEnv) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

type stateBody struct {
	setlist.State
	Alert string              `json:"alert"`
	Saved *setlist.SaveResult `json:"saved"`
	Error string              `json:"error"`
	Field string              `json:"field"`
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) stateBody {
	t.Helper()
	var out stateBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// seed adds an artist, two songs and puts both songs on the setlist.
func (e *testEnv) seed(t *testing.T, session, token string) {
	t.Helper()
	steps := []call{
		{method: http.MethodPost, path: "/artists", body: map[string]any{"name": "Foo"}},
		{method: http.MethodPost, path: "/library/songs", body: map[string]any{"title": "Opening", "minutes": 3, "seconds": 30}},
		{method: http.MethodPost, path: "/library/songs", body: map[string]any{"title": "Encore", "duration": "200"}},
		{method: http.MethodPost, path: "/setlist/entries", body: map[string]any{"libraryIndex": 0}},
		{method: http.MethodPost, path: "/setlist/entries", body: map[string]any{"libraryIndex": 1}},
	}
	for _, c := range steps {
		c.session, c.token = session, token
		w := e.do(t, c)
		require.Equal(t, http.StatusOK, w.Code, "%s %s: %s", c.method, c.path, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"setlist-service"`)
}

func TestBuildSetlist(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s1", "")

	st := decodeState(t, env.do(t, call{method: http.MethodGet, path: "/state", session: "s1"}))
	assert.Equal(t, "Foo", st.CurrentArtist)
	require.Len(t, st.Library, 2)
	require.Len(t, st.Setlist, 2)
	assert.Equal(t, "M-01", st.Setlist[0].Label)
	assert.Equal(t, "Encore", st.Setlist[1].Title)
	assert.Equal(t, "6:50", st.Totals.Total)
	assert.True(t, st.SetlistDirty)

	sessions := env.pub.sessions()
	require.Len(t, sessions, 5)
	for _, s := range sessions {
		assert.Equal(t, "s1", s)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "a", "")

	st := decodeState(t, env.do(t, call{method: http.MethodGet, path: "/state", session: "b"}))
	assert.Empty(t, st.Artists)
	assert.Empty(t, st.Setlist)

	st = decodeState(t, env.do(t, call{method: http.MethodGet, path: "/state", session: "../etc"}))
	assert.Empty(t, st.Artists, "bad ids fall back to the default session")
}

func TestEditAndMove(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s1", "")

	w := env.do(t, call{method: http.MethodPatch, path: "/setlist/entries/0", session: "s1",
		body: map[string]any{"title": "Opening!", "duration": "4:00"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decodeState(t, w)
	assert.Equal(t, "Opening!", st.Library[0].Title, "setlist edits reach the library")

	w = env.do(t, call{method: http.MethodPost, path: "/setlist/move", session: "s1",
		body: map[string]any{"from": 0, "to": 1}})
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, w)
	assert.Equal(t, "Encore", st.Setlist[0].Title)

	w = env.do(t, call{method: http.MethodPut, path: "/setlist/slot", session: "s1",
		body: map[string]any{"minutes": 5}})
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, w)
	assert.Equal(t, "over", st.Totals.Label)

	w = env.do(t, call{method: http.MethodDelete, path: "/setlist", session: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).Setlist)
}

func TestErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no artist", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodPost, path: "/library/songs",
			body: map[string]any{"title": "x", "duration": "300"}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	env.seed(t, "", "")

	t.Run("validation", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodPost, path: "/library/songs",
			body: map[string]any{"title": "x", "minutes": 0, "seconds": 0}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "duration", decodeState(t, w).Field)
	})

	t.Run("out of range", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodDelete, path: "/library/songs/9"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad index", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodDelete, path: "/setlist/entries/x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/artists", strings.NewReader("{"))
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("save signed out", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodPost, path: "/library/save"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("discard declined", func(t *testing.T) {
		w := env.do(t, call{method: http.MethodPut, path: "/artists/current", body: map[string]any{"name": ""}})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = env.do(t, call{method: http.MethodPut, path: "/artists/current", body: map[string]any{"name": "", "discard": true}})
		assert.Equal(t, http.StatusOK, w.Code)
	})

}

func TestSignedIn_RemoteFailureIsAnAlert(t *testing.T) {
	env := newTestEnv(t)
	tok, err := auth.IssueToken(testSecret, "u1", "u1@example.com", time.Hour)
	require.NoError(t, err)

	w := env.do(t, call{method: http.MethodPost, path: "/auth/signin", session: "s1", token: tok})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeState(t, w).SignedIn)

	w = env.do(t, call{method: http.MethodPost, path: "/artists", session: "s1", token: tok,
		body: map[string]any{"name": "Foo"}})
	require.Equal(t, http.StatusOK, w.Code)
	st := decodeState(t, w)
	assert.Equal(t, "Foo", st.CurrentArtist)
	assert.Contains(t, st.Alert, "save artist")

	w = env.do(t, call{method: http.MethodPost, path: "/library/songs", session: "s1", token: tok,
		body: map[string]any{"title": "Opening", "duration": "330"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, call{method: http.MethodPost, path: "/library/save", session: "s1", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, w)
	assert.Contains(t, st.Alert, "save library")
	require.NotNil(t, st.Saved)
	assert.Zero(t, st.Saved.Songs)

	w = env.do(t, call{method: http.MethodPost, path: "/auth/signout", session: "s1", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeState(t, w).SignedIn)
}

func TestSignIn_Token(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, call{method: http.MethodPost, path: "/auth/signin"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, call{method: http.MethodPost, path: "/auth/signin", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLiveEvents_Offline(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s1", "")

	w := env.do(t, call{method: http.MethodPost, path: "/lives", session: "s1",
		body: map[string]any{"title": "Spring", "date": "2024-05-01", "slotMinutes": 20}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decodeState(t, w)
	require.Len(t, st.History, 1)
	assert.True(t, strings.HasPrefix(st.CurrentLiveID, "local-"))
	assert.Equal(t, 20, st.Live.SlotMinutes)

	w = env.do(t, call{method: http.MethodPatch, path: "/lives/current", session: "s1",
		body: map[string]any{"title": "", "date": "2024-05-01"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, call{method: http.MethodDelete, path: "/lives/" + st.CurrentLiveID, session: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).History)
}

func TestShareFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, call{method: http.MethodGet, path: "/share/link", session: "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty setlist cannot be shared")

	env.seed(t, "s1", "")

	w = env.do(t, call{method: http.MethodGet, path: "/share/link", session: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	var link struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.True(t, strings.HasPrefix(link.URL, "https://setlist.example/share?s="))

	w = env.do(t, call{method: http.MethodGet, path: "/share?" + share.QueryParam + "=" + link.Token, session: "viewer"})
	require.Equal(t, http.StatusOK, w.Code)
	st := decodeState(t, w)
	assert.True(t, st.Preview)
	require.Len(t, st.Setlist, 2)

	w = env.do(t, call{method: http.MethodDelete, path: "/setlist/entries/0", session: "viewer"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, call{method: http.MethodGet, path: "/share?" + share.QueryParam + "=nope", session: "viewer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, call{method: http.MethodGet, path: "/share/qr?size=128", session: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s1", "")

	w := env.do(t, call{method: http.MethodGet, path: "/export", session: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Opening")
	assert.Contains(t, w.Body.String(), "M-02")
}

func issue(t *testing.T, uid string) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, uid, uid+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestSession_BoundToFirstUser(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := issue(t, "alice"), issue(t, "bob")

	w := env.do(t, call{method: http.MethodPost, path: "/auth/signin", token: alice})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, decodeState(t, w).SignedIn)

	w = env.do(t, call{method: http.MethodGet, path: "/state"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "anonymous caller on a signed-in session")
	assert.NotContains(t, w.Body.String(), "signedIn")

	w = env.do(t, call{method: http.MethodPost, path: "/artists", body: map[string]any{"name": "Mallory"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, call{method: http.MethodGet, path: "/state", token: bob})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, call{method: http.MethodPost, path: "/auth/signout"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, call{method: http.MethodGet, path: "/state", token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	st := decodeState(t, w)
	assert.True(t, st.SignedIn)
	assert.Empty(t, st.Artists)

	w = env.do(t, call{method: http.MethodGet, path: "/state", session: "mine"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeState(t, w).SignedIn, "other sessions stay anonymous")
}

func TestSessions_OwnersSurviveRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), OwnersFile)
	factory := func(string) *setlist.Engine {
		return setlist.New(&snapshot.MemoryStore{}, setlist.ForStore(remote.Offline{}))
	}

	first := NewSessions(factory)
	require.NoError(t, first.PersistOwners(path))
	require.NoError(t, first.claim("s1", "alice"))
	require.NoError(t, first.claim("s1", "alice"))

	second := NewSessions(factory)
	require.NoError(t, second.PersistOwners(path))
	assert.ErrorIs(t, second.claim("s1", ""), errTokenRequired)
	assert.ErrorIs(t, second.claim("s1", "bob"), errOtherOwner)
	assert.NoError(t, second.claim("s1", "alice"))
	assert.NoError(t, second.claim("s2", ""))
}
