package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/notify"
)

// Hub keeps the connected clients per user and pushes workflow
// notifications to the users they concern.
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Guards clients for the read-only accessors
	mu sync.RWMutex

	logger zerolog.Logger
}

type delivery struct {
	users  []int64
	admins bool
	data   []byte
}

// Envelope is the frame written to clients
type Envelope struct {
	Type string              `json:"type"`
	Data notify.Notification `json:"data"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliver:    make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case d := <-h.deliver:
			h.send(d)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop closes every client connection and ends Run
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("role", string(client.role)).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Info().Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.dropLocked(client)
		}
	}
}

// send writes to every recipient's connections; clients whose buffer is full
// are dropped
func (h *Hub) send(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make(map[*Client]bool)
	for _, id := range d.users {
		for client := range h.clients[id] {
			targets[client] = true
		}
	}
	if d.admins {
		for _, set := range h.clients {
			for client := range set {
				if client.role == models.RoleAdmin {
					targets[client] = true
				}
			}
		}
	}

	for client := range targets {
		select {
		case client.send <- d.data:
		default:
			h.logger.Warn().Int64("userID", client.userID).Msg("Client send buffer full, disconnecting")
			h.dropLocked(client)
		}
	}
	h.logger.Debug().Int("clientCount", len(targets)).Msg("Notification pushed")
}

// Notify implements notify.Notifier
func (h *Hub) Notify(ctx context.Context, n notify.Notification) error {
	data, err := json.Marshal(Envelope{Type: "notification", Data: n})
	if err != nil {
		return err
	}
	select {
	case h.deliver <- delivery{users: n.Recipients, admins: n.NotifyAdmins, data: data}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
