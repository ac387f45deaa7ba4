/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time side of the API.

    It keeps a registry of connected clients and fans out every message sent
    to 'Broadcast'. Two producers feed it:
    - Forward relays the engine's news feed ("purchase completed",
      "achievement unlocked", ...) as it happens.
    - The scheduler's snapshot callback pushes the full state about once
      per second, so a client can render without polling.

    Architecture:
    - Hub: one per server, run as a goroutine bound to a context.
    - Client: one browser connection.
    - ServeWs: upgrades a GET request to a WebSocket.
*/

package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/everforgeworks/wave-idle/internal/game"
	"github.com/gorilla/websocket"
)

// Message types sent over the socket.
const (
	TypeNews     = "news"
	TypeSnapshot = "snapshot"
)

// Message defines the JSON envelope for all real-time communication.
type Message struct {
	Type    string `json:"type"`    // TypeNews or TypeSnapshot
	Payload any    `json:"payload"` // game.Notification or game.Snapshot
	Sender  string `json:"sender"`  // Always "system" for now
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound queue
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast takes pre-encoded messages. Use Publish for typed ones.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed when Run returns

	connected atomic.Int64
}

// NewHub creates a Hub. Start it with Run.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int { return int(h.connected.Load()) }

// Run is the Hub event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connected.Add(1)
			log.Println("WS: New Connection Registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client hung or disconnected.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
}

// Publish encodes msg and queues it for every client. It never blocks the caller;
// when the broadcast queue is full the message is dropped.
func (h *Hub) Publish(msg Message) {
	if msg.Sender == "" {
		msg.Sender = "system"
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("WS: Error marshaling %s: %v", msg.Type, err)
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Printf("WS: Broadcast queue full, dropped %s", msg.Type)
	}
}

// PublishSnapshot is shaped to be used as game.Schedule.OnSnapshot.
func (h *Hub) PublishSnapshot(s game.Snapshot) {
	if h.Clients() == 0 {
		return
	}
	h.Publish(Message{Type: TypeSnapshot, Payload: s})
}

// Forward relays the news feed to the sockets until ctx is cancelled.
func (h *Hub) Forward(ctx context.Context, feed *game.NewsFeed) {
	notes, cancel := feed.Subscribe(64)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notes:
			if !ok {
				return
			}
			h.Publish(Message{Type: TypeNews, Payload: n})
		}
	}
}

// upgrader allows connections from any host (CORS permissive, same as the REST side).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the HTTP connection and registers the client with the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the connection closing; the socket is outbound-only.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			return
		}
	}
}

// writePump drains the send queue into the socket. It exits when send is closed.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
