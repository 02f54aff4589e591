package providers

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/integrations/bind"
)

// BINDAttribution credits BIND on fragments.
const BINDAttribution = "BIND (http://www.bind.ca)"

// BINDClient is the subset of *bind.Client the provider uses.
type BINDClient interface {
	IDSearch(ctx context.Context, id, format string, refresh bool) ([]bind.Record, error)
}

// bindFormats names the BIND identifier format of each namespace it
// accepts directly. BIND calls Entrez Gene identifiers "genbank" and
// GenBank GIs "gi".
var bindFormats = map[entity.DataSource]string{
	entity.GenBank:      "gi",
	entity.UniProt:      "uniprot",
	entity.EMBL:         "embl",
	entity.Ensembl:      "ensembl",
	entity.EntrezGene:   "genbank",
	entity.FlyBase:      "flybase",
	entity.GeneOntology: "GO",
	entity.InterPro:     "interpro",
	entity.IPI:          "ipi",
	entity.MGI:          "MGI",
	entity.OMIM:         "omim",
	entity.PDB:          "pdb",
	entity.Pfam:         "pfam",
	entity.RefSeq:       "refseq",
	entity.RGD:          "rgd",
	entity.SGD:          "sgd",
	entity.UniGene:      "unigene",
	entity.WormBase:     "wormbase",
	entity.ZFIN:         "zfin",
}

// BINDFormat returns the BIND identifier format for a namespace.
func BINDFormat(ds entity.DataSource) (string, bool) {
	f, ok := bindFormats[ds]
	return f, ok
}

// BIND suggests the interaction partners of a gene or protein recorded in
// the BIND interaction database. Spokes are GenBank gene products.
type BIND struct {
	base
	client BINDClient
}

// NewBIND creates the provider.
func NewBIND(c BINDClient, opts Options) *BIND {
	return &BIND{base: newBase("BIND", BINDAttribution, opts), client: c}
}

// CanSuggest excludes metabolites.
func (p *BIND) CanSuggest(hub entity.Entity) bool {
	return notKind(hub, entity.Metabolite)
}

// Suggest queries BIND with the hub identifier when BIND knows its
// namespace, and with the mapped Entrez Gene identifier otherwise.
func (p *BIND) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	id, format, err := p.query(ctx, hub)
	if err != nil {
		return nil, err
	}

	recs, err := p.client.IDSearch(ctx, id, format, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, r := range recs {
		d.add(entity.SpokeDraft{
			ID:         r.GI,
			DataSource: entity.GenBank,
			Kind:       entity.GeneProduct,
			Label:      labelOr(r.Label, r.GI),
		})
	}
	return d.list(), nil
}

func (p *BIND) query(ctx context.Context, hub entity.Entity) (id, format string, err error) {
	if f, ok := BINDFormat(hub.DataSource); ok && hub.HasID() {
		return hub.ID, f, nil
	}
	id, err = p.resolve(ctx, hub, entity.EntrezGene)
	if err != nil {
		return "", "", err
	}
	return id, bindFormats[entity.EntrezGene], nil
}
