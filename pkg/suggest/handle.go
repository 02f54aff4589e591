package suggest

import (
	"context"
	"time"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// Handle refers to one dispatch. Its state is owned by the Dispatcher.
type Handle struct {
	id       string
	provider string
	hub      entity.Entity
	created  time.Time
	d        *Dispatcher

	// Guarded by d.mu.
	state    State
	outcome  Outcome
	finished time.Time
	cancel   context.CancelFunc

	delivered chan struct{}
}

// ID returns the dispatch identifier (a UUID).
func (h *Handle) ID() string { return h.id }

// Provider returns the provider name.
func (h *Handle) Provider() string { return h.provider }

// Hub returns the hub the dispatch was started for.
func (h *Handle) Hub() entity.Entity { return h.hub }

// Created returns when the dispatch was requested.
func (h *Handle) Created() time.Time { return h.created }

// State returns the current state. A handle can read Cancelled before the
// sink has received the Cancelled outcome.
func (h *Handle) State() State {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	return h.state
}

// Outcome returns the terminal outcome once the handle is terminal.
func (h *Handle) Outcome() (Outcome, bool) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	return h.outcome, h.state.Terminal()
}

// Cancel cancels the dispatch. See [Dispatcher.Cancel].
func (h *Handle) Cancel() bool {
	return h.d.Cancel(h)
}

// Delivered is closed once the sink has received the outcome.
func (h *Handle) Delivered() <-chan struct{} {
	return h.delivered
}

// Wait blocks until the outcome has been delivered or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.delivered:
		o, _ := h.Outcome()
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Snapshot is a serialisable view of a handle.
type Snapshot struct {
	ID       string        `json:"id"`
	Provider string        `json:"provider"`
	Hub      entity.Entity `json:"hub"`
	State    State         `json:"state"`
	Created  time.Time     `json:"created"`
	Outcome  *Outcome      `json:"outcome,omitempty"`
}

// Snapshot returns the current view of h.
func (h *Handle) Snapshot() Snapshot {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	s := Snapshot{
		ID:       h.id,
		Provider: h.provider,
		Hub:      h.hub,
		State:    h.state,
		Created:  h.created,
	}
	if h.state.Terminal() {
		o := h.outcome
		s.Outcome = &o
	}
	return s
}
