package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pathloom/pkg/suggest"
)

// KeepAlive is the interval between SSE comment lines on idle streams.
var KeepAlive = 30 * time.Second

// DeliverTimeout bounds how long Deliver waits for room in a full
// broadcast queue before dropping the delivery.
var DeliverTimeout = 2 * time.Second

type client struct {
	id       string
	dispatch string // only this dispatch, if set
	events   chan []byte
}

type message struct {
	dispatch string
	data     []byte
}

// Hub broadcasts deliveries to connected SSE clients. A slow client misses
// events rather than holding up the dispatcher, so the stream is a
// notification channel: the outcome of record is GET /v1/dispatches/{id}.
type Hub struct {
	logger *log.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}

	register   chan *client
	unregister chan *client
	broadcast  chan message
	done       chan struct{}
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
// Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client connected", "client", c.id, "total", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client disconnected", "client", c.id, "total", n)

		case m := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c.dispatch != "" && c.dispatch != m.dispatch {
					continue
				}
				select {
				case c.events <- m.data:
				default:
					h.logger.Warn("sse client is slow, skipping event", "client", c.id)
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.events)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Deliver implements suggest.Sink. When the broadcast queue is full it waits
// up to DeliverTimeout, then drops the event.
func (h *Hub) Deliver(d suggest.Delivery) {
	data, err := json.Marshal(d)
	if err != nil {
		h.logger.Error("marshal delivery", "dispatch", d.HandleID, "err", err)
		return
	}
	msg := message{
		dispatch: d.HandleID,
		data:     []byte(fmt.Sprintf("event: delivery\nid: %s\ndata: %s\n\n", d.HandleID, data)),
	}
	select {
	case h.broadcast <- msg:
		return
	default:
	}

	timer := time.NewTimer(DeliverTimeout)
	defer timer.Stop()
	select {
	case h.broadcast <- msg:
	case <-h.done:
	case <-timer.C:
		h.logger.Warn("broadcast queue full, dropping delivery", "dispatch", d.HandleID, "state", d.Outcome.State)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP streams deliveries. ?dispatch=<id> narrows the stream to one
// dispatch.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	c := &client{
		id:       uuid.NewString(),
		dispatch: r.URL.Query().Get("dispatch"),
		events:   make(chan []byte, 64),
	}

	select {
	case h.register <- c:
	case <-h.done:
		http.Error(w, "event hub stopped", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
