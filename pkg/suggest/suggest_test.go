package suggest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// fakeProvider is a configurable Provider for tests.
type fakeProvider struct {
	can         func(entity.Entity) bool
	suggest     func(context.Context, entity.Entity) ([]entity.SpokeDraft, error)
	attribution string
	calls       atomic.Int32
}

func (p *fakeProvider) CanSuggest(hub entity.Entity) bool {
	if p.can == nil {
		return true
	}
	return p.can(hub)
}

func (p *fakeProvider) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	p.calls.Add(1)
	if p.suggest == nil {
		return nil, nil
	}
	return p.suggest(ctx, hub)
}

func (p *fakeProvider) Attribution() string { return p.attribution }

func notMetabolite(hub entity.Entity) bool { return hub.Kind != entity.Metabolite }

func drafts(labels ...string) []entity.SpokeDraft {
	out := make([]entity.SpokeDraft, len(labels))
	for i, l := range labels {
		out[i] = entity.SpokeDraft{ID: l, DataSource: entity.EnzymeCode, Kind: entity.Protein, Label: l}
	}
	return out
}

// recordingSink collects deliveries.
type recordingSink struct {
	mu    sync.Mutex
	got   []Delivery
	ch    chan Delivery
	block chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan Delivery, 64)}
}

func (s *recordingSink) Deliver(d Delivery) {
	if s.block != nil {
		<-s.block
		s.block = nil
	}
	s.mu.Lock()
	s.got = append(s.got, d)
	s.mu.Unlock()
	s.ch <- d
}

func (s *recordingSink) all() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Delivery(nil), s.got...)
}

func (s *recordingSink) next(t *testing.T) Delivery {
	t.Helper()
	select {
	case d := <-s.ch:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func (s *recordingSink) forHandle(id string) []Delivery {
	var out []Delivery
	for _, d := range s.all() {
		if d.HandleID == id {
			out = append(out, d)
		}
	}
	return out
}

var (
	geneHub = entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Kind: entity.GeneProduct, Label: "ALDH1A2"}
	chemHub = entity.Entity{ID: "187440", DataSource: entity.ChemSpider, Kind: entity.Metabolite}
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}
