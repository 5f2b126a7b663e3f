package api

import (
	"log/slog"
	"sync"

	"github.com/lysyi3m/rss-reader/app/state"
)

const clientBuffer = 64

type notification struct {
	field state.Field
	snap  state.Snapshot
}

// Hub fans store notifications out to connected event streams
type Hub struct {
	mu          sync.Mutex
	clients     map[chan notification]struct{}
	closed      bool
	unsubscribe func()
}

func NewHub(store *state.Store) *Hub {
	h := &Hub{clients: make(map[chan notification]struct{})}
	h.unsubscribe = store.Subscribe(h.publish)
	return h
}

// Join registers a client. The returned channel is closed by Leave or Close.
func (h *Hub) Join() (chan notification, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}
	ch := make(chan notification, clientBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *Hub) Leave(ch chan notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close detaches the hub from the store and ends every stream
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		close(ch)
	}
	h.clients = nil
}

// publish runs inside the store's dispatch and must not block
func (h *Hub) publish(field state.Field, snap state.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- notification{field: field, snap: snap}:
		default:
			slog.Warn("Event stream is lagging, dropping update", "field", string(field))
		}
	}
}
