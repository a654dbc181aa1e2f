package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"setlist-service/internal/auth"
)

// Channel is the Redis pub/sub channel shared by all instances.
const Channel = "broadcast"

type Server struct {
	hub           *Hub
	rdb           *redis.Client
	allowedOrigin string
	log           *zap.Logger
	upgrader      websocket.Upgrader
}

// NewServer wires a hub to Redis. With a nil rdb events stay in-process.
func NewServer(hub *Hub, rdb *redis.Client, allowedOrigin string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		hub:           hub,
		rdb:           rdb,
		allowedOrigin: allowedOrigin,
		log:           log.Named("realtime"),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.allowedOrigin == "" || s.allowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.EqualFold(origin, s.allowedOrigin)
}

// HandleWS upgrades the request and registers a client for the caller's
// user and the session named by the "session" query parameter or the
// X-Session-Id header.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade", zap.Error(err))
		return
	}

	session := r.URL.Query().Get("session")
	if session == "" {
		session = r.Header.Get(SessionHeader)
	}
	session = SessionID(session)
	client := &Client{
		hub:     s.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  auth.UserID(r.Context()),
		session: session,
		log:     s.log,
	}
	s.hub.register <- client

	welcome := Event{Type: "welcome", Session: session, UserID: client.userID, At: now()}
	if b, err := json.Marshal(welcome); err == nil {
		client.send <- b
	}

	go client.writePump()
	go client.readPump()
}

// Publish sends ev to every instance through Redis, or straight to the
// local hub when Redis is not configured.
func (s *Server) Publish(ctx context.Context, ev Event) error {
	if ev.At == "" {
		ev.At = now()
	}
	if s.rdb == nil {
		return s.hub.Broadcast(ev)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, Channel, string(data)).Err()
}

// RunRedisSubscriber forwards Channel messages to the hub until ctx ends.
func (s *Server) RunRedisSubscriber(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	sub := s.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.log.Warn("drop malformed event", zap.Error(err))
				continue
			}
			select {
			case s.hub.broadcast <- message{event: ev, data: []byte(msg.Payload)}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
