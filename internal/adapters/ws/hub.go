// Package ws fans validated verdicts out to WebSocket subscribers so
// review tooling can watch matches as they are scored.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
	"github.com/arbiterhq/arbiter/pkg/logger"
)

// broadcastBuffer bounds pending events; the stream is best-effort and
// drops when subscribers fall behind.
const broadcastBuffer = 1024

// VerdictEvent is the wire shape pushed to live subscribers.
type VerdictEvent struct {
	MatchID   string    `json:"match_id"`
	PlayerID  string    `json:"player_id"`
	Score     float64   `json:"score"`
	Rating    string    `json:"rating"`
	IsValid   bool      `json:"is_valid"`
	Issues    int       `json:"issues"`
	Warnings  int       `json:"warnings"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts verdicts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	broadcast  chan VerdictEvent
	register   chan *Client
	unregister chan *Client

	logger logger.Logger
}

// NewHub creates a hub; call Run to start its loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan VerdictEvent, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.Get().Named("ws-hub"),
	}
}

// Run processes registrations and broadcasts until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug(ctx, "ws client connected", logger.String("clientID", c.id))
		case c := <-h.unregister:
			h.drop(c)
			h.logger.Debug(ctx, "ws client disconnected", logger.String("clientID", c.id))
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish implements the worker's Publisher contract: it converts a
// verdict into its wire shape and broadcasts it, dropping the event if
// the buffer is full.
func (h *Hub) Publish(ctx context.Context, rec model.MatchRecord, res verdict.Result) {
	event := VerdictEvent{
		MatchID:   rec.MatchID,
		PlayerID:  rec.PlayerID,
		Score:     res.Score,
		Rating:    verdict.Rating(res.Score),
		IsValid:   res.IsValid,
		Issues:    len(res.Issues),
		Warnings:  len(res.Warnings),
		Timestamp: res.Timestamp,
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn(ctx, "broadcast buffer full, dropping verdict event",
			logger.String("matchID", rec.MatchID))
	}
}

func (h *Hub) fanOut(event VerdictEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- event:
		default:
			// Slow consumer; drop it rather than block the hub.
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
