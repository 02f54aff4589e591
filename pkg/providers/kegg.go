package providers

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/integrations/kegg"
)

// KEGGAttribution credits KEGG on fragments.
const KEGGAttribution = "KEGG (http://www.genome.jp/kegg/)"

// KEGGClient is the subset of *kegg.Client the KEGG providers use.
type KEGGClient interface {
	Conv(ctx context.Context, target, source string, refresh bool) ([]kegg.Link, error)
	Link(ctx context.Context, target, source string, refresh bool) ([]kegg.Link, error)
	List(ctx context.Context, entries []string, refresh bool) (map[string]string, error)
}

// KEGGEnzymesByGene suggests the enzymes (EC numbers) a gene encodes.
type KEGGEnzymesByGene struct {
	base
	client KEGGClient
}

// NewKEGGEnzymesByGene creates the provider.
func NewKEGGEnzymesByGene(c KEGGClient, opts Options) *KEGGEnzymesByGene {
	return &KEGGEnzymesByGene{base: newBase("KEGG", KEGGAttribution, opts), client: c}
}

// CanSuggest excludes metabolites.
func (p *KEGGEnzymesByGene) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.Metabolite)
}

// Suggest converts the Entrez Gene id into KEGG genes of the hub's
// organism and follows their enzyme links.
func (p *KEGGEnzymesByGene) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	geneID, err := p.resolve(ctx, hub, entity.EntrezGene)
	if err != nil {
		return nil, err
	}
	org, ok := kegg.OrganismCode(hub.OrganismOrDefault())
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "KEGG has no organism code for %q", hub.OrganismOrDefault())
	}

	genes, err := p.client.Conv(ctx, org, "ncbi-geneid:"+geneID, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	if len(genes) == 0 {
		return nil, errors.New(errors.ErrCodeUnsupported, "no KEGG gene for Entrez Gene %s", geneID)
	}

	var enzymes []string
	seen := make(map[string]bool)
	for _, g := range genes {
		links, err := p.client.Link(ctx, "enzyme", g.To, p.opts.Refresh)
		if err != nil {
			return nil, p.fail(ctx, err)
		}
		for _, l := range links {
			if !seen[l.To] {
				seen[l.To] = true
				enzymes = append(enzymes, l.To)
			}
		}
	}

	titles, err := keggTitles(ctx, p.base, p.client, enzymes)
	if err != nil {
		return nil, err
	}

	var d drafts
	for _, ec := range enzymes {
		d.add(entity.SpokeDraft{
			ID:         kegg.StripPrefix(ec),
			DataSource: entity.EnzymeCode,
			Kind:       entity.GeneProduct,
			Label:      labelOr(kegg.Name(titles[ec]), kegg.StripPrefix(ec)),
		})
	}
	return d.list(), nil
}

// KEGGGenesByEnzyme suggests the genes of the hub's organism that encode an
// enzyme.
type KEGGGenesByEnzyme struct {
	base
	client KEGGClient
}

// NewKEGGGenesByEnzyme creates the provider.
func NewKEGGGenesByEnzyme(c KEGGClient, opts Options) *KEGGGenesByEnzyme {
	return &KEGGGenesByEnzyme{base: newBase("KEGG", KEGGAttribution, opts), client: c}
}

// CanSuggest excludes metabolites.
func (p *KEGGGenesByEnzyme) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.Metabolite)
}

// Suggest links the EC number to organism genes, labelled by gene symbol.
func (p *KEGGGenesByEnzyme) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	ec, err := p.resolve(ctx, hub, entity.EnzymeCode)
	if err != nil {
		return nil, err
	}
	org, ok := kegg.OrganismCode(hub.OrganismOrDefault())
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "KEGG has no organism code for %q", hub.OrganismOrDefault())
	}

	links, err := p.client.Link(ctx, org, "ec:"+ec, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	genes := make([]string, 0, len(links))
	for _, l := range links {
		genes = append(genes, l.To)
	}

	titles, err := keggTitles(ctx, p.base, p.client, genes)
	if err != nil {
		return nil, err
	}

	var d drafts
	for _, g := range genes {
		d.add(entity.SpokeDraft{
			ID:         g,
			DataSource: entity.KEGGGenes,
			Kind:       entity.GeneProduct,
			Label:      labelOr(kegg.Symbol(titles[g]), g),
		})
	}
	return d.list(), nil
}

// KEGGEnzymesByCompound suggests the enzymes acting on a compound.
type KEGGEnzymesByCompound struct {
	base
	client KEGGClient
}

// NewKEGGEnzymesByCompound creates the provider.
func NewKEGGEnzymesByCompound(c KEGGClient, opts Options) *KEGGEnzymesByCompound {
	return &KEGGEnzymesByCompound{base: newBase("KEGG", KEGGAttribution, opts), client: c}
}

// CanSuggest excludes gene products.
func (p *KEGGEnzymesByCompound) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.GeneProduct)
}

// Suggest links the KEGG compound to enzymes.
func (p *KEGGEnzymesByCompound) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	cpd, err := p.resolve(ctx, hub, entity.KEGGCompound)
	if err != nil {
		return nil, err
	}

	links, err := p.client.Link(ctx, "enzyme", "cpd:"+cpd, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	enzymes := make([]string, 0, len(links))
	for _, l := range links {
		enzymes = append(enzymes, l.To)
	}

	titles, err := keggTitles(ctx, p.base, p.client, enzymes)
	if err != nil {
		return nil, err
	}

	var d drafts
	for _, ec := range enzymes {
		d.add(entity.SpokeDraft{
			ID:         kegg.StripPrefix(ec),
			DataSource: entity.EnzymeCode,
			Kind:       entity.Protein,
			Label:      labelOr(kegg.Name(titles[ec]), kegg.StripPrefix(ec)),
		})
	}
	return d.list(), nil
}

func keggTitles(ctx context.Context, b base, c KEGGClient, entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return map[string]string{}, nil
	}
	titles, err := c.List(ctx, entries, b.opts.Refresh)
	if err != nil {
		return nil, b.fail(ctx, err)
	}
	return titles, nil
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
