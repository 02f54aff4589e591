package suggest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/observability"
)

// Defaults for [Options].
const (
	DefaultMaxConcurrent   = 8
	DefaultProviderTimeout = 2 * time.Minute
	DefaultRetention       = 10 * time.Minute
)

// Options configures a Dispatcher.
type Options struct {
	// MaxConcurrent bounds how many providers run at once. Further
	// dispatches are Running but wait for a slot.
	MaxConcurrent int

	// ProviderTimeout bounds a single Suggest call. Exceeding it fails the
	// dispatch with TIMEOUT.
	ProviderTimeout time.Duration

	// Retention is how long terminal handles stay retrievable by ID.
	Retention time.Duration

	Logger *log.Logger
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.ProviderTimeout <= 0 {
		o.ProviderTimeout = DefaultProviderTimeout
	}
	if o.Retention <= 0 {
		o.Retention = DefaultRetention
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// event is queued for the delivery goroutine. Decided events carry an
// outcome already recorded on the handle. Undecided events are provider
// results that only take effect if the handle is still Running.
type event struct {
	h       *Handle
	outcome Outcome
	decided bool
}

// Dispatcher runs providers in the background and delivers their outcomes
// to a Sink from one goroutine.
type Dispatcher struct {
	registry *Registry
	sink     Sink
	opts     Options
	logger   *log.Logger
	sem      *semaphore.Weighted

	mu      sync.Mutex
	handles map[string]*Handle
	slots   map[string]*Handle
	queue   []event
	closed  bool
	drained bool

	wake     chan struct{}
	tasks    sync.WaitGroup
	loopDone chan struct{}
}

// NewDispatcher starts a dispatcher over reg. A nil sink discards outcomes.
// Close must be called to stop the delivery goroutine.
func NewDispatcher(reg *Registry, sink Sink, opts Options) *Dispatcher {
	opts = opts.WithDefaults()
	if sink == nil {
		sink = SinkFunc(func(Delivery) {})
	}
	d := &Dispatcher{
		registry: reg,
		sink:     sink,
		opts:     opts,
		logger:   opts.Logger,
		sem:      semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		handles:  make(map[string]*Handle),
		slots:    make(map[string]*Handle),
		wake:     make(chan struct{}, 1),
		loopDone: make(chan struct{}),
	}
	go d.loop()
	return d
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// slotKey identifies one provider and hub pair. Hubs without an
// identifier are told apart by label.
func slotKey(provider string, hub entity.Entity) string {
	if !hub.HasID() {
		return provider + "|" + hub.Key() + "|" + hub.Label
	}
	return provider + "|" + hub.Key()
}

// hubName describes a hub in error messages.
func hubName(hub entity.Entity) string {
	if !hub.HasID() {
		return fmt.Sprintf("%s %q", hub.Key(), hub.Label)
	}
	return hub.Key()
}

// Dispatch starts provider name for hub and returns without waiting for
// the upstream.
//
// An unknown provider yields NOT_FOUND and an invalid hub INVALID_INPUT,
// both without a handle. A provider that does not apply yields a Failed
// handle together with the NOT_APPLICABLE error; that outcome is also
// delivered to the sink. A dispatch already running for the same provider
// and hub yields BUSY.
//
// The task runs under a detached copy of ctx, so values carry over but
// cancelling ctx does not cancel the dispatch. Use [Dispatcher.Cancel] for
// that.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, hub entity.Entity) (*Handle, error) {
	p, ok := d.registry.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown provider %q", name)
	}
	if err := hub.Validate(); err != nil {
		return nil, err
	}
	applicable := d.registry.Applies(name, hub)

	h := &Handle{
		id:        uuid.NewString(),
		provider:  name,
		hub:       hub,
		created:   time.Now(),
		d:         d,
		delivered: make(chan struct{}),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errors.New(errors.ErrCodeInternal, "dispatcher is closed")
	}

	if !applicable {
		err := errors.New(errors.ErrCodeNotApplicable, "provider %q does not apply to %s %s", name, hub.Kind, hub.Key())
		d.handles[h.id] = h
		d.finishLocked(h, Failed(err))
		d.enqueueLocked(event{h: h, outcome: h.outcome, decided: true})
		d.mu.Unlock()
		return h, err
	}

	key := slotKey(name, hub)
	if cur, busy := d.slots[key]; busy {
		d.mu.Unlock()
		return nil, errors.New(errors.ErrCodeBusy, "provider %q is already running for %s (dispatch %s)", name, hubName(hub), cur.id)
	}

	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.state = StateRunning
	h.cancel = cancel
	d.handles[h.id] = h
	d.slots[key] = h
	d.tasks.Add(1)
	d.mu.Unlock()

	go d.run(taskCtx, cancel, h, p)
	return h, nil
}

// Cancel moves a Running dispatch to Cancelled, cancels its context and
// queues the Cancelled outcome. A result the provider already produced but
// that has not been delivered is discarded. Cancel returns false, and does
// nothing, if the handle is already terminal.
func (d *Dispatcher) Cancel(h *Handle) bool {
	if h == nil || h.d != d {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked(h)
}

// CancelID cancels the dispatch with the given ID.
func (d *Dispatcher) CancelID(id string) (bool, error) {
	h, ok := d.Get(id)
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown dispatch %q", id)
	}
	return d.Cancel(h), nil
}

// Get returns the handle with the given ID.
func (d *Dispatcher) Get(id string) (*Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.handles[id]
	return h, ok
}

// Handles returns the retained handles, oldest first.
func (d *Dispatcher) Handles() []*Handle {
	d.mu.Lock()
	out := make([]*Handle, 0, len(d.handles))
	for _, h := range d.handles {
		out = append(out, h)
	}
	d.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].created.Before(out[j].created) })
	return out
}

// Close cancels every running dispatch, waits for background tasks and
// for pending outcomes to be delivered, then stops the delivery goroutine.
// It must not be called from inside Sink.Deliver.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.loopDone
		return nil
	}
	d.closed = true
	for _, h := range d.handles {
		d.cancelLocked(h)
	}
	d.mu.Unlock()

	d.tasks.Wait()

	d.mu.Lock()
	d.drained = true
	d.signal()
	d.mu.Unlock()

	<-d.loopDone
	return nil
}

func (d *Dispatcher) cancelLocked(h *Handle) bool {
	if h.state != StateRunning {
		return false
	}
	d.finishLocked(h, Cancelled())
	h.cancel()
	d.enqueueLocked(event{h: h, outcome: h.outcome, decided: true})
	return true
}

// finishLocked records a terminal outcome and frees the slot.
func (d *Dispatcher) finishLocked(h *Handle, o Outcome) {
	h.state = o.State
	h.outcome = o
	h.finished = time.Now()
	key := slotKey(h.provider, h.hub)
	if d.slots[key] == h {
		delete(d.slots, key)
	}
}

func (d *Dispatcher) run(ctx context.Context, cancel context.CancelFunc, h *Handle, p Provider) {
	defer d.tasks.Done()
	defer cancel()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		// Only cancellation can fail Acquire; the loop discards this.
		d.post(event{h: h, outcome: Failed(errors.Classify(err))})
		return
	}
	defer d.sem.Release(1)

	observability.Dispatch().OnDispatchStart(ctx, h.provider, h.hub.Key())
	d.logger.Debug("dispatch started", "provider", h.provider, "hub", h.hub.Key(), "id", h.id)

	d.post(event{h: h, outcome: d.invoke(ctx, h, p)})
}

func (d *Dispatcher) invoke(ctx context.Context, h *Handle, p Provider) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = Failed(errors.New(errors.ErrCodeInternal, "provider %q panicked: %v", h.provider, r))
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, d.opts.ProviderTimeout)
	defer cancel()

	drafts, err := p.Suggest(callCtx, h.hub)
	if err != nil {
		if ctx.Err() == nil && stderrors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, errors.ErrCodeTimeout) {
			return Failed(errors.Wrap(errors.ErrCodeTimeout, err, "provider %q exceeded %s", h.provider, d.opts.ProviderTimeout))
		}
		return Failed(errors.Classify(err))
	}
	return Completed(BuildFragment(h.hub, drafts, AttributionOf(p)))
}

func (d *Dispatcher) post(ev event) {
	d.mu.Lock()
	d.enqueueLocked(ev)
	d.mu.Unlock()
}

func (d *Dispatcher) enqueueLocked(ev event) {
	d.queue = append(d.queue, ev)
	d.signal()
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// loop is the delivery goroutine.
func (d *Dispatcher) loop() {
	defer close(d.loopDone)
	for range d.wake {
		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				d.queue = nil
				stop := d.drained
				d.mu.Unlock()
				if stop {
					return
				}
				break
			}
			ev := d.queue[0]
			d.queue = d.queue[1:]
			del, ok := d.settleLocked(ev)
			d.mu.Unlock()

			if ok {
				d.deliver(ev.h, del)
			}
		}
	}
}

// settleLocked applies an event and reports whether it produces a delivery.
func (d *Dispatcher) settleLocked(ev event) (Delivery, bool) {
	h := ev.h
	if !ev.decided {
		if h.state != StateRunning {
			d.logger.Debug("discarding late result", "provider", h.provider, "hub", h.hub.Key(), "id", h.id)
			return Delivery{}, false
		}
		d.finishLocked(h, ev.outcome)
	}
	return Delivery{HandleID: h.id, Provider: h.provider, Hub: h.hub, Outcome: h.outcome}, true
}

func (d *Dispatcher) deliver(h *Handle, del Delivery) {
	defer close(h.delivered)
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("sink panicked", "provider", del.Provider, "id", del.HandleID, "panic", r)
		}
	}()

	duration := time.Since(h.created).Round(time.Millisecond)
	o := del.Outcome
	switch o.State {
	case StateCompleted:
		d.logger.Info("suggestion completed", "provider", del.Provider, "hub", del.Hub.Key(), "spokes", len(o.Fragment.Spokes), "duration", duration)
	case StateFailed:
		d.logger.Warn("suggestion failed", "provider", del.Provider, "hub", del.Hub.Key(), "code", o.Code(), "err", errors.UserMessage(o.Err), "duration", duration)
	case StateCancelled:
		d.logger.Info("suggestion cancelled", "provider", del.Provider, "hub", del.Hub.Key(), "duration", duration)
	}
	observability.Dispatch().OnDispatchComplete(context.Background(), del.Provider, del.Hub.Key(), o.State.String(), duration)

	d.prune()
	d.sink.Deliver(del)
}

// prune forgets terminal handles older than the retention window.
func (d *Dispatcher) prune() {
	cutoff := time.Now().Add(-d.opts.Retention)
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, h := range d.handles {
		if h.state.Terminal() && h.finished.Before(cutoff) {
			delete(d.handles, id)
		}
	}
}
