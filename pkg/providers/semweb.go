package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/integrations/sparql"
)

// Attributions of the SPARQL-backed providers.
const (
	STITCHAttribution     = "OPENDATA"
	OpenPHACTSAttribution = "OpenPhacts (http://www.openphacts.org)"
)

// ConceptWikiLimit caps the ConceptWiki result set.
const ConceptWikiLimit = 10

// SPARQLClient is the subset of *sparql.Client the providers use.
type SPARQLClient interface {
	Select(ctx context.Context, query string, refresh bool) (*sparql.Results, error)
}

// STITCH suggests compounds interacting with the hub in the STITCH linked
// data set. The hub must map to ChEBI; the query itself matches the label.
type STITCH struct {
	base
	client SPARQLClient
}

// NewSTITCH creates the provider.
func NewSTITCH(c SPARQLClient, opts Options) *STITCH {
	return &STITCH{base: newBase("STITCH", STITCHAttribution, opts), client: c}
}

// CanSuggest accepts every hub.
func (p *STITCH) CanSuggest(entity.Entity) bool { return true }

func stitchQuery(label string) string {
	return `PREFIX stitch: <http://www4.wiwiss.fu-berlin.de/stitch/resource/stitch/>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT DISTINCT ?o ?oLabel WHERE {
  ?s stitch:interactsWith ?o .
  ?s rdfs:label ` + sparql.Literal(label) + ` .
  ?o rdfs:label ?oLabel
}`
}

// Suggest queries STITCH for interaction partners.
func (p *STITCH) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if _, err := p.resolve(ctx, hub, entity.ChEBI); err != nil {
		return nil, err
	}
	if strings.TrimSpace(hub.Label) == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "STITCH matches by label and %s has none", hub.Key())
	}

	res, err := p.client.Select(ctx, stitchQuery(hub.Label), p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, row := range res.Rows() {
		if row["o"] == "" {
			continue
		}
		d.add(entity.SpokeDraft{
			ID:         row["o"],
			DataSource: entity.ChEBI,
			Kind:       entity.Metabolite,
			Label:      labelOr(row["oLabel"], row["o"]),
		})
	}
	return d.list(), nil
}

// ConceptWiki suggests concepts related to the hub in ConceptWiki. Related
// concepts are identified by their titles only.
type ConceptWiki struct {
	base
	client SPARQLClient
}

// NewConceptWiki creates the provider.
func NewConceptWiki(c SPARQLClient, opts Options) *ConceptWiki {
	return &ConceptWiki{base: newBase("ConceptWiki", OpenPHACTSAttribution, opts), client: c}
}

// CanSuggest accepts every hub.
func (p *ConceptWiki) CanSuggest(entity.Entity) bool { return true }

func conceptWikiQuery(id string) string {
	return fmt.Sprintf(`PREFIX dcterms: <http://purl.org/dc/terms/>
SELECT DISTINCT ?ptitle ?otitle WHERE {
  ?s dcterms:identifier %s .
  ?s ?p ?o .
  ?p dcterms:title ?ptitle .
  ?o dcterms:title ?otitle .
} LIMIT %d`, sparql.Literal(id), ConceptWikiLimit)
}

// Suggest queries ConceptWiki by the hub's concept identifier.
func (p *ConceptWiki) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	id, err := p.resolve(ctx, hub, entity.Other)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Select(ctx, conceptWikiQuery(id), p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, row := range res.Rows() {
		title := row["otitle"]
		if title == "" {
			continue
		}
		d.add(entity.SpokeDraft{ID: title, DataSource: entity.Other, Kind: entity.Metabolite, Label: title})
	}
	return d.list(), nil
}

// CompoundGenes suggests genes interacting with a KEGG compound according to
// the chem2bio2rdf data set.
type CompoundGenes struct {
	base
	client SPARQLClient
}

// NewCompoundGenes creates the provider.
func NewCompoundGenes(c SPARQLClient, opts Options) *CompoundGenes {
	return &CompoundGenes{base: newBase("chem2bio2rdf", OpenPHACTSAttribution, opts), client: c}
}

// CanSuggest accepts every hub.
func (p *CompoundGenes) CanSuggest(entity.Entity) bool { return true }

func compoundGenesQuery(cpd string) string {
	return `PREFIX kegg: <http://chem2bio2rdf.org/kegg/resource/>
SELECT DISTINCT ?gene WHERE {
  ?interaction a kegg:kegg_interaction .
  ?interaction kegg:compound_id ` + sparql.IRI("http://chem2bio2rdf.org/kegg/resource/kegg_ligand/"+cpd) + ` .
  ?interaction <http://www.w3.org/2000/01/rdf-schema#label> ?geneLabel .
  ?interaction kegg:CID_GENE ?gene
}`
}

// Suggest queries chem2bio2rdf by KEGG compound id.
func (p *CompoundGenes) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	cpd, err := p.resolve(ctx, hub, entity.KEGGCompound)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Select(ctx, compoundGenesQuery(cpd), p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, row := range res.Rows() {
		gene := lastSegment(row["gene"])
		if gene == "" {
			continue
		}
		d.add(entity.SpokeDraft{ID: gene, DataSource: entity.KEGGGenes, Kind: entity.GeneProduct, Label: gene})
	}
	return d.list(), nil
}

// lastSegment returns the part of a URI after the last slash or hash.
func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/#")
	if i := strings.LastIndexAny(uri, "/#"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
