// Package live serves the latest-value view of spec.md §4.B/§9 to
// websocket viewers: a Hub fans out value updates to connected Clients
// under a configurable backpressure policy, adapted from the teacher's
// broadcast hub.
package live

import (
	"sync"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
)

// BackpressurePolicy controls what happens when a client's outbound queue
// is full.
type BackpressurePolicy int

const (
	// PolicyDrop silently discards the update for that one slow client.
	PolicyDrop BackpressurePolicy = iota
	// PolicyKick closes the slow client's connection.
	PolicyKick
)

// Update is one (id, value) change pushed to viewers.
type Update struct {
	ID uint16  `json:"id"`
	V  float64 `json:"v"`
}

// Client is one connected viewer's outbound queue.
type Client struct {
	Out       chan Update
	Closed    chan struct{}
	closeOnce sync.Once
}

// Close signals the client is closed; idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Closed) })
}

// Hub fans out Updates to every registered Client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	OutBufSize int
	Policy     BackpressurePolicy
}

// NewHub returns an empty Hub with a default outbound buffer size.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), OutBufSize: 64}
}

// Add registers a client.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetLiveClients(n)
	logging.L().Info("live_client_connected", "clients", n)
}

// Remove unregisters a client; safe to call more than once.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if existed {
		c.Close()
		metrics.SetLiveClients(n)
		logging.L().Info("live_client_disconnected", "clients", n)
	}
}

// Broadcast sends an update to every client, honoring the backpressure
// policy on a full queue.
func (h *Hub) Broadcast(u Update) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.Out <- u:
		default:
			if h.Policy == PolicyKick {
				c.Close()
			} else {
				metrics.IncLiveDropped()
			}
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient allocates a Client sized from the hub's configured buffer.
func (h *Hub) NewClient() *Client {
	return &Client{Out: make(chan Update, h.OutBufSize), Closed: make(chan struct{})}
}
