package session

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS middleware
	},
}

type wsClient struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan Event
}

// Hub fans session events out to websocket watchers. Clients are keyed by the
// session they watch; a session may have several watchers (multiple tabs).
type Hub struct {
	clients    map[string]map[*wsClient]bool
	broadcast  chan sessionEvent
	register   chan *wsClient
	unregister chan *wsClient
}

type sessionEvent struct {
	sessionID string
	event     Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*wsClient]bool),
		broadcast:  make(chan sessionEvent, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run owns the client registry. It must run in its own goroutine for the
// lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			watchers := h.clients[client.sessionID]
			if watchers == nil {
				watchers = make(map[*wsClient]bool)
				h.clients[client.sessionID] = watchers
			}
			watchers[client] = true

		case client := <-h.unregister:
			if watchers, ok := h.clients[client.sessionID]; ok {
				if watchers[client] {
					delete(watchers, client)
					close(client.send)
					if len(watchers) == 0 {
						delete(h.clients, client.sessionID)
					}
				}
			}

		case msg := <-h.broadcast:
			for client := range h.clients[msg.sessionID] {
				select {
				case client.send <- msg.event:
				default:
					// Slow watcher; drop it rather than stall the hub.
					delete(h.clients[msg.sessionID], client)
					close(client.send)
				}
			}
		}
	}
}

// Notify queues an event for a session's watchers. It never blocks; events
// for a saturated hub are dropped.
func (h *Hub) Notify(sessionID string, event Event) {
	select {
	case h.broadcast <- sessionEvent{sessionID: sessionID, event: event}:
	default:
		log.Warn().Str("session_id", sessionID).Msg("Event dropped, hub saturated")
	}
}

// ServeWS upgrades an HTTP request to a websocket watching one session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := &wsClient{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan Event, sendBuffer),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains incoming frames so pings and close frames are processed.
// Watchers never send application data.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
