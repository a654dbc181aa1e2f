// Package realtime fans session changes out to websocket clients, through
// Redis when several service instances share one deployment.
package realtime

import "encoding/json"

// Event tells clients that a session changed and should be reloaded.
// It is routed to the user's clients when UserID is set and to the
// session's clients otherwise.
type Event struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	UserID  string `json:"userId,omitempty"`
	At      string `json:"at"`
}

type message struct {
	event Event
	data  []byte
}

func newMessage(ev Event) (message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return message{}, err
	}
	return message{event: ev, data: data}, nil
}

func (m message) wants(c *Client) bool {
	if m.event.UserID != "" {
		return c.userID == m.event.UserID
	}
	return m.event.Session != "" && c.session == m.event.Session
}

// Hub owns the set of connected clients.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	count      chan chan int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !msg.wants(client) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					h.drop(client)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	_ = c.conn.Close()
}

// Broadcast delivers ev to the matching local clients.
func (h *Hub) Broadcast(ev Event) error {
	msg, err := newMessage(ev)
	if err != nil {
		return err
	}
	h.broadcast <- msg
	return nil
}

// Clients reports how many clients are registered.
func (h *Hub) Clients() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}
