package providers

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/integrations/hmdb"
	"github.com/matzehuels/pathloom/pkg/integrations/interactions"
)

// HMDBAttribution credits the Human Metabolome Database.
const HMDBAttribution = "HMDB (http://www.hmdb.ca)"

// HMDBStore is the subset of *hmdb.Store the provider uses.
type HMDBStore interface {
	Neighbours(ctx context.Context, id string) ([]hmdb.Neighbour, error)
}

// HMDB suggests metabolites adjacent to the hub in the HMDB metabolic
// network.
type HMDB struct {
	base
	store HMDBStore
}

// NewHMDB creates the provider.
func NewHMDB(s HMDBStore, opts Options) *HMDB {
	return &HMDB{base: newBase("HMDB network", HMDBAttribution, opts), store: s}
}

// CanSuggest excludes gene products.
func (p *HMDB) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.GeneProduct)
}

// Suggest looks up network neighbours.
func (p *HMDB) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	id, err := p.resolve(ctx, hub, entity.HMDB)
	if err != nil {
		return nil, err
	}

	neighbours, err := p.store.Neighbours(ctx, id)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, n := range neighbours {
		d.add(entity.SpokeDraft{ID: n.ID, DataSource: entity.HMDB, Kind: entity.Metabolite, Label: labelOr(n.Name, n.ID)})
	}
	return d.list(), nil
}

// Interactions suggests partners from a locally curated interaction source,
// queried in the hub's own namespace.
type Interactions struct {
	base
	source interactions.Source
}

// NewInteractions creates the provider. upstream and attribution name the
// backing store.
func NewInteractions(s interactions.Source, upstream, attribution string, opts Options) *Interactions {
	return &Interactions{base: newBase(upstream, attribution, opts), source: s}
}

// CanSuggest accepts every hub.
func (p *Interactions) CanSuggest(entity.Entity) bool { return true }

// Suggest looks up the hub's partners.
func (p *Interactions) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if !hub.HasID() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s has no identifier to look up", hub.Key())
	}

	partners, err := p.source.Partners(ctx, string(hub.DataSource), hub.ID)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, pt := range partners {
		ds, _ := entity.ParseDataSource(pt.DataSource)
		kind, _ := entity.ParseKind(pt.Kind)
		id := pt.ID
		if id == "" {
			id = entity.Unassigned
		}
		d.add(entity.SpokeDraft{ID: id, DataSource: ds, Kind: kind, Label: pt.Label})
	}
	return d.list(), nil
}

// StubLabels are the placeholder spokes of the [Stub] provider.
var StubLabels = []string{"a", "b", "c", "d", "e"}

// Stub returns five placeholder spokes for any hub mappable to HMDB. It
// exercises the full dispatch and layout path without an upstream.
type Stub struct {
	base
}

// NewStub creates the provider.
func NewStub(opts Options) *Stub {
	return &Stub{base: newBase("stub", "", opts)}
}

// CanSuggest excludes gene products.
func (p *Stub) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.GeneProduct)
}

// Suggest returns [StubLabels] as label-only spokes.
func (p *Stub) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	if _, err := p.resolve(ctx, hub, entity.HMDB); err != nil {
		return nil, err
	}
	out := make([]entity.SpokeDraft, len(StubLabels))
	for i, l := range StubLabels {
		out[i] = entity.LabelOnly(l, entity.Other, entity.Unknown)
	}
	return out, nil
}
