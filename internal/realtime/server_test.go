package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setlist-service/internal/auth"
)

func dialWS(t *testing.T, h http.Handler, path string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	ws, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+path, header)
	if ws != nil {
		t.Cleanup(func() { ws.Close() })
	}
	return ws, resp, err
}

func TestServer_HandleWS_Origin(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	s := NewServer(hub, nil, "http://localhost:5173", nil)

	t.Run("allowed", func(t *testing.T) {
		header := http.Header{}
		header.Set("Origin", "http://localhost:5173")
		ws, _, err := dialWS(t, http.HandlerFunc(s.HandleWS), "/?session=s1", header)
		require.NoError(t, err)

		ev, err := readEvent(t, ws)
		require.NoError(t, err)
		assert.Equal(t, "welcome", ev.Type)
		assert.Equal(t, "s1", ev.Session)
	})

	t.Run("forbidden", func(t *testing.T) {
		header := http.Header{}
		header.Set("Origin", "http://evil.example")
		_, resp, err := dialWS(t, http.HandlerFunc(s.HandleWS), "/", header)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestServer_PublishInProcess(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	s := NewServer(hub, nil, "*", nil)

	ws, _, err := dialWS(t, http.HandlerFunc(s.HandleWS), "/?session=s1", nil)
	require.NoError(t, err)
	_, err = readEvent(t, ws)
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), Event{Type: "state", Session: "s1"}))

	ev, err := readEvent(t, ws)
	require.NoError(t, err)
	assert.Equal(t, "state", ev.Type)
	assert.NotEmpty(t, ev.At)
}

func TestServer_RedisFanOut(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub()
	go hub.Run()
	s := NewServer(hub, rdb, "*", nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.RunRedisSubscriber(ctx)

	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, Channel).Result()
		return err == nil && n[Channel] == 1
	}, time.Second, 10*time.Millisecond)

	secret := []byte("k")
	token, err := auth.IssueToken(secret, "u1", "", time.Minute)
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	h := auth.Middleware(secret, func(w http.ResponseWriter, status int, msg string) {
		http.Error(w, msg, status)
	})(http.HandlerFunc(s.HandleWS))

	ws, _, err := dialWS(t, h, "/?session=other", header)
	require.NoError(t, err)
	welcome, err := readEvent(t, ws)
	require.NoError(t, err)
	assert.Equal(t, "u1", welcome.UserID)

	require.NoError(t, s.Publish(ctx, Event{Type: "state", UserID: "u1", Session: "s1"}))

	ev, err := readEvent(t, ws)
	require.NoError(t, err)
	assert.Equal(t, "state", ev.Type)
	assert.Equal(t, "s1", ev.Session)
}

func TestServer_NoSessionJoinsDefault(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	s := NewServer(hub, nil, "*", nil)

	ws, _, err := dialWS(t, http.HandlerFunc(s.HandleWS), "/", nil)
	require.NoError(t, err)
	welcome, err := readEvent(t, ws)
	require.NoError(t, err)
	assert.Equal(t, DefaultSession, welcome.Session)

	require.NoError(t, s.Publish(context.Background(), Event{Type: "setlist.updated", Session: SessionID("")}))

	ev, err := readEvent(t, ws)
	require.NoError(t, err)
	assert.Equal(t, "setlist.updated", ev.Type)
	assert.Equal(t, DefaultSession, ev.Session)
}
