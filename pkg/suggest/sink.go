package suggest

import (
	"github.com/matzehuels/pathloom/pkg/entity"
)

// Delivery is what a Sink receives when a dispatch reaches its outcome.
type Delivery struct {
	HandleID string        `json:"handle_id"`
	Provider string        `json:"provider"`
	Hub      entity.Entity `json:"hub"`
	Outcome  Outcome       `json:"outcome"`
}

// Sink consumes outcomes. Deliver is always called from the dispatcher's
// delivery goroutine, one call at a time. It may call back into the
// dispatcher but should not block for long: later deliveries wait for it.
type Sink interface {
	Deliver(Delivery)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Delivery)

// Deliver calls f(d).
func (f SinkFunc) Deliver(d Delivery) { f(d) }

// Fanout delivers to each sink in order.
type Fanout []Sink

// Deliver implements Sink.
func (f Fanout) Deliver(d Delivery) {
	for _, s := range f {
		s.Deliver(d)
	}
}
