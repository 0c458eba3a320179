package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"merge-tactics-server/game"
	"merge-tactics-server/wsutil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionSource is what the hub needs to read session state. Satisfied by
// the session manager.
type SessionSource interface {
	Get(id string) (*game.Session, bool)
}

// CommandRunner executes a session command on behalf of a client. Satisfied
// by the API server so socket commands share the HTTP dispatch path.
type CommandRunner interface {
	RunCommand(sessionID, action string, payload map[string]any) (game.Outcome, error)
}

type subscription struct {
	client    *Client
	sessionID string
}

// Hub maintains the set of active clients and their session subscriptions,
// and fans out state snapshots after mutations.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client

	Sessions SessionSource
	Runner   CommandRunner

	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan string

	// subscribers maps session ID to the clients watching it. Touched only
	// by the Run loop.
	subscribers map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub(sessions SessionSource, runner CommandRunner) *Hub {
	return &Hub{
		Clients:     make(map[*Client]bool),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		Sessions:    sessions,
		Runner:      runner,
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan string, 64),
	}
}

// Broadcast queues a state push to every subscriber of the session. Safe to
// call from any goroutine; drops the push if the hub is saturated.
func (h *Hub) Broadcast(sessionID string) {
	select {
	case h.broadcast <- sessionID:
	default:
		slog.Warn("broadcast queue full, state push dropped", "tag", "ws", "session", sessionID)
	}
}

// Run starts the hub's main loop. Should be run as a goroutine. When ctx is
// cancelled, Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	h.subscribers = make(map[string]map[*Client]bool)
	for {
		select {
		case <-ctx.Done():
			slog.Info("hub shutting down", "tag", "ws")
			return

		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				for _, subs := range h.subscribers {
					delete(subs, client)
				}
				close(client.Send)
				slog.Info("client disconnected", "tag", "ws", "clients", len(h.Clients))
			}

		case sub := <-h.subscribe:
			if h.subscribers[sub.sessionID] == nil {
				h.subscribers[sub.sessionID] = make(map[*Client]bool)
			}
			h.subscribers[sub.sessionID][sub.client] = true
			h.pushState(sub.sessionID, sub.client)

		case sub := <-h.unsubscribe:
			delete(h.subscribers[sub.sessionID], sub.client)

		case sessionID := <-h.broadcast:
			for client := range h.subscribers[sessionID] {
				h.pushState(sessionID, client)
			}
		}
	}
}

// pushState sends the current snapshot of a session to one client.
func (h *Hub) pushState(sessionID string, client *Client) {
	sess, ok := h.Sessions.Get(sessionID)
	if !ok {
		return
	}
	data, err := json.Marshal(StateMsg{
		Type:      "state",
		SessionID: sessionID,
		State:     sess.Snapshot(),
	})
	if err != nil {
		slog.Error("marshal state push", "tag", "ws", "err", err)
		return
	}
	wsutil.SafeSend(client.Send, data)
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
