package providers

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/integrations/openphacts"
)

// OpenPHACTSClient is the subset of *openphacts.Client the provider uses.
type OpenPHACTSClient interface {
	CompoundTargets(ctx context.Context, compoundURI string, refresh bool) ([]openphacts.Target, error)
}

// CompoundTargets suggests the protein targets of a ChemSpider compound from
// Open PHACTS pharmacology data. Only targets with a UniProt match become
// spokes.
type CompoundTargets struct {
	base
	client OpenPHACTSClient
}

// NewCompoundTargets creates the provider.
func NewCompoundTargets(c OpenPHACTSClient, opts Options) *CompoundTargets {
	return &CompoundTargets{base: newBase("Open PHACTS", OpenPHACTSAttribution, opts), client: c}
}

// CanSuggest excludes gene products.
func (p *CompoundTargets) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.GeneProduct)
}

// Suggest fetches the compound's pharmacology.
func (p *CompoundTargets) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	id, err := p.resolve(ctx, hub, entity.ChemSpider)
	if err != nil {
		return nil, err
	}

	targets, err := p.client.CompoundTargets(ctx, openphacts.ChemSpiderPrefix+id, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, t := range targets {
		for _, m := range t.Matches {
			acc := m.UniProtID()
			if acc == "" {
				continue
			}
			d.add(entity.SpokeDraft{
				ID:         acc,
				DataSource: entity.UniProt,
				Kind:       entity.Protein,
				Label:      labelOr(m.Mnemonic, labelOr(t.Title, acc)),
			})
		}
	}
	return d.list(), nil
}
