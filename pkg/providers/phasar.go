package providers

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/integrations/kegg"
	"github.com/matzehuels/pathloom/pkg/integrations/phasar"
)

// PhasarAttribution credits Phasar on fragments.
const PhasarAttribution = "Phasar (http://www.phasar.cs.ru.nl/)"

// PhasarClient is the subset of *phasar.Client the provider uses.
type PhasarClient interface {
	Suggestions(ctx context.Context, ec string, refresh bool) ([]phasar.Identifier, error)
}

// Phasar suggests enzymes and compounds co-mentioned with an enzyme in the
// literature. Labels come from KEGG when a KEGG client is available.
type Phasar struct {
	base
	client PhasarClient
	kegg   KEGGClient
}

// NewPhasar creates the provider. titles may be nil, in which case spokes
// are labelled with their identifiers.
func NewPhasar(c PhasarClient, titles KEGGClient, opts Options) *Phasar {
	return &Phasar{base: newBase("Phasar", PhasarAttribution, opts), client: c, kegg: titles}
}

// CanSuggest excludes hubs drawn as enzymes.
func (p *Phasar) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.Enzyme)
}

// Suggest queries Phasar by EC number.
func (p *Phasar) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	ec, err := p.resolve(ctx, hub, entity.EnzymeCode)
	if err != nil {
		return nil, err
	}

	ids, err := p.client.Suggestions(ctx, ec, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	spokes := make([]entity.SpokeDraft, 0, len(ids))
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		switch id.Type {
		case phasar.TypeEnzyme:
			num := id.EnzymeNumber()
			spokes = append(spokes, entity.SpokeDraft{ID: num, DataSource: entity.EnzymeCode, Kind: entity.GeneProduct})
			entries = append(entries, "ec:"+num)
		case phasar.TypeCompound:
			spokes = append(spokes, entity.SpokeDraft{ID: id.Name, DataSource: entity.KEGGCompound, Kind: entity.Metabolite})
			entries = append(entries, "cpd:"+id.Name)
		}
	}

	titles := map[string]string{}
	if p.kegg != nil && len(entries) > 0 {
		titles, err = p.kegg.List(ctx, entries, p.opts.Refresh)
		if err != nil {
			return nil, p.fail(ctx, err)
		}
	}

	var d drafts
	for i, s := range spokes {
		s.Label = labelOr(kegg.Name(titles[entries[i]]), s.ID)
		d.add(s)
	}
	return d.list(), nil
}
