// internal/api/sse.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techdisc-bridge/internal/techdisc"
)

const (
	// subscriberBuffer is per-subscriber; a subscriber that falls this far
	// behind starts losing throws rather than blocking the poll loop.
	subscriberBuffer = 16

	heartbeatInterval = 15 * time.Second
)

// Hub fans newly observed throws out to SSE subscribers.
// It satisfies coordinator.Publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan *techdisc.Throw
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan *techdisc.Throw)}
}

// Publish delivers a throw to every subscriber. Never blocks: slow
// subscribers drop events.
func (h *Hub) Publish(t *techdisc.Throw) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel and a
// cancel func. The channel is closed on cancel.
func (h *Hub) Subscribe() (<-chan *techdisc.Throw, func()) {
	id := uuid.NewString()
	ch := make(chan *techdisc.Throw, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// handleEvents streams each new throw as one SSE data event, with comment
// heartbeats to keep idle connections alive.
func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case t, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(t)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: throw\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
