package providers

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/idmap"
	"github.com/matzehuels/pathloom/pkg/integrations"
	"github.com/matzehuels/pathloom/pkg/integrations/bind"
	"github.com/matzehuels/pathloom/pkg/integrations/hmdb"
	"github.com/matzehuels/pathloom/pkg/integrations/interactions"
	"github.com/matzehuels/pathloom/pkg/integrations/kegg"
	"github.com/matzehuels/pathloom/pkg/integrations/openphacts"
	"github.com/matzehuels/pathloom/pkg/integrations/phasar"
	"github.com/matzehuels/pathloom/pkg/integrations/sparql"
	"github.com/matzehuels/pathloom/pkg/integrations/wikipathways"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

var (
	geneHub     = entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Kind: entity.GeneProduct, Label: "ALDH1A2"}
	chemHub     = entity.Entity{ID: "187440", DataSource: entity.ChemSpider, Kind: entity.Metabolite, Label: "retinoic acid"}
	enzymeHub   = entity.Entity{ID: "1.2.1.36", DataSource: entity.EnzymeCode, Kind: entity.Protein, Label: "retinal dehydrogenase"}
	compoundHub = entity.Entity{ID: "C00376", DataSource: entity.KEGGCompound, Kind: entity.Metabolite, Label: "Retinal"}
	hmdbHub     = entity.Entity{ID: "HMDB00031", DataSource: entity.HMDB, Kind: entity.Metabolite, Label: "Ureidopropionic acid"}
)

// calls counts upstream requests made by the fakes.
type calls struct{ n atomic.Int32 }

func (c *calls) hit()       { c.n.Add(1) }
func (c *calls) count() int { return int(c.n.Load()) }

type fakeKEGG struct {
	calls
	conv  map[string][]kegg.Link
	link  map[string][]kegg.Link
	title map[string]string
	err   error
}

func (f *fakeKEGG) Conv(_ context.Context, target, source string, _ bool) ([]kegg.Link, error) {
	f.hit()
	return f.conv[target+"/"+source], f.err
}

func (f *fakeKEGG) Link(_ context.Context, target, source string, _ bool) ([]kegg.Link, error) {
	f.hit()
	return f.link[target+"/"+source], f.err
}

func (f *fakeKEGG) List(_ context.Context, entries []string, _ bool) (map[string]string, error) {
	f.hit()
	out := map[string]string{}
	for _, e := range entries {
		if t, ok := f.title[e]; ok {
			out[e] = t
		}
	}
	return out, f.err
}

type fakeWP struct {
	calls
	participants []wikipathways.Participant
	query        string
}

func (f *fakeWP) FindInteractions(_ context.Context, query string, _ bool) ([]wikipathways.Participant, error) {
	f.hit()
	f.query = query
	return f.participants, nil
}

type fakePhasar struct {
	calls
	ids []phasar.Identifier
}

func (f *fakePhasar) Suggestions(context.Context, string, bool) ([]phasar.Identifier, error) {
	f.hit()
	return f.ids, nil
}

type fakeBIND struct {
	calls
	recs []bind.Record
	args [][2]string
}

func (f *fakeBIND) IDSearch(_ context.Context, id, format string, _ bool) ([]bind.Record, error) {
	f.hit()
	f.args = append(f.args, [2]string{id, format})
	return f.recs, nil
}

type fakeSPARQL struct {
	calls
	rows  []map[string]string
	query string
}

func (f *fakeSPARQL) Select(_ context.Context, query string, _ bool) (*sparql.Results, error) {
	f.hit()
	f.query = query
	var res sparql.Results
	for _, row := range f.rows {
		b := map[string]sparql.Term{}
		for k, v := range row {
			b[k] = sparql.Term{Type: "literal", Value: v}
		}
		res.Results.Bindings = append(res.Results.Bindings, b)
	}
	return &res, nil
}

type fakeOpenPHACTS struct {
	calls
	targets []openphacts.Target
	uri     string
}

func (f *fakeOpenPHACTS) CompoundTargets(_ context.Context, uri string, _ bool) ([]openphacts.Target, error) {
	f.hit()
	f.uri = uri
	return f.targets, nil
}

type fakeHMDB struct {
	calls
	neighbours []hmdb.Neighbour
}

func (f *fakeHMDB) Neighbours(context.Context, string) ([]hmdb.Neighbour, error) {
	f.hit()
	return f.neighbours, nil
}

// mapping returns a resolver knowing hub's id in the given namespaces.
func mapping(hub entity.Entity, targets map[entity.DataSource]string) idmap.Resolver {
	s := idmap.NewStatic()
	for ds, id := range targets {
		s.Add("", hub.DataSource, hub.ID, ds, id)
	}
	return idmap.Chain{idmap.Identity{}, s}
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Fatalf("error = %v, want code %s", err, code)
	}
}

func TestKEGGEnzymesByGene(t *testing.T) {
	f := &fakeKEGG{
		conv: map[string][]kegg.Link{"hsa/ncbi-geneid:8854": {{From: "ncbi-geneid:8854", To: "hsa:8854"}}},
		link: map[string][]kegg.Link{"enzyme/hsa:8854": {
			{From: "hsa:8854", To: "ec:1.2.1.36"},
			{From: "hsa:8854", To: "ec:1.2.1.36"},
			{From: "hsa:8854", To: "ec:1.2.1.3"},
		}},
		title: map[string]string{"ec:1.2.1.36": "retinal dehydrogenase; RALDH"},
	}
	p := NewKEGGEnzymesByGene(f, Options{})

	got, err := p.Suggest(context.Background(), geneHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	want := []entity.SpokeDraft{
		{ID: "1.2.1.36", DataSource: entity.EnzymeCode, Kind: entity.GeneProduct, Label: "retinal dehydrogenase"},
		{ID: "1.2.1.3", DataSource: entity.EnzymeCode, Kind: entity.GeneProduct, Label: "1.2.1.3"},
	}
	if len(got) != len(want) {
		t.Fatalf("Suggest() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spoke %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if p.Attribution() != KEGGAttribution {
		t.Errorf("Attribution() = %q", p.Attribution())
	}
}

func TestKEGGEnzymesByGeneNoKEGGGene(t *testing.T) {
	p := NewKEGGEnzymesByGene(&fakeKEGG{}, Options{})
	_, err := p.Suggest(context.Background(), geneHub)
	wantCode(t, err, errors.ErrCodeUnsupported)
}

func TestKEGGEnzymesByGeneUnknownOrganism(t *testing.T) {
	f := &fakeKEGG{}
	hub := geneHub
	hub.Organism = "Pan troglodytes"
	_, err := NewKEGGEnzymesByGene(f, Options{}).Suggest(context.Background(), hub)
	wantCode(t, err, errors.ErrCodeUnsupported)
	if f.count() != 0 {
		t.Errorf("upstream calls = %d, want 0", f.count())
	}
}

func TestKEGGGenesByEnzyme(t *testing.T) {
	f := &fakeKEGG{
		link:  map[string][]kegg.Link{"hsa/ec:1.2.1.36": {{From: "ec:1.2.1.36", To: "hsa:8854"}, {From: "ec:1.2.1.36", To: "hsa:216"}}},
		title: map[string]string{"hsa:8854": "ALDH1A2, RALDH2; aldehyde dehydrogenase 1 family member A2"},
	}
	got, err := NewKEGGGenesByEnzyme(f, Options{}).Suggest(context.Background(), enzymeHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Suggest() = %+v", got)
	}
	if got[0].ID != "hsa:8854" || got[0].Label != "ALDH1A2" || got[0].DataSource != entity.KEGGGenes {
		t.Errorf("spoke 0 = %+v", got[0])
	}
	if got[1].Label != "hsa:216" {
		t.Errorf("missing title should fall back to the id, got %q", got[1].Label)
	}
}

func TestKEGGEnzymesByCompound(t *testing.T) {
	f := &fakeKEGG{
		link:  map[string][]kegg.Link{"enzyme/cpd:C00376": {{From: "cpd:C00376", To: "ec:1.2.1.36"}}},
		title: map[string]string{"ec:1.2.1.36": "retinal dehydrogenase"},
	}
	got, err := NewKEGGEnzymesByCompound(f, Options{}).Suggest(context.Background(), compoundHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0].Kind != entity.Protein || got[0].ID != "1.2.1.36" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestKEGGEmptyLinks(t *testing.T) {
	f := &fakeKEGG{}
	got, err := NewKEGGEnzymesByCompound(f, Options{}).Suggest(context.Background(), compoundHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Suggest() = %#v, want empty non-nil", got)
	}
	if f.count() != 1 {
		t.Errorf("calls = %d, want only the link request", f.count())
	}
}

func TestWikiPathways(t *testing.T) {
	f := &fakeWP{participants: []wikipathways.Participant{
		{Role: "left", Name: "retinal"},
		{Role: "right", Name: "aldh1a2"},
		{Role: "left", Name: "ALDH1A2"},
		{Role: "right", Name: "retinoic acid"},
		{Role: "left", Name: "retinal"},
	}}
	got, err := NewWikiPathways(f, Options{}).Suggest(context.Background(), geneHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if f.query != "ALDH1A2" {
		t.Errorf("query = %q", f.query)
	}
	if len(got) != 2 || got[0].Label != "retinal" || got[1].Label != "retinoic acid" {
		t.Fatalf("Suggest() = %+v", got)
	}
	if got[0].ID != entity.Unassigned || got[0].Kind != entity.Unknown {
		t.Errorf("label-only spoke = %+v", got[0])
	}
}

func TestWikiPathwaysNoLabel(t *testing.T) {
	f := &fakeWP{}
	hub := geneHub
	hub.Label = " "
	_, err := NewWikiPathways(f, Options{}).Suggest(context.Background(), hub)
	wantCode(t, err, errors.ErrCodeUnsupported)
	if f.count() != 0 {
		t.Error("no upstream call expected")
	}
}

func TestPhasar(t *testing.T) {
	f := &fakePhasar{ids: []phasar.Identifier{
		{Name: "EC.1.1.1.105", Type: phasar.TypeEnzyme},
		{Name: "C00376", Type: phasar.TypeCompound},
	}}
	titles := &fakeKEGG{title: map[string]string{
		"ec:1.1.1.105": "retinol dehydrogenase; RDH",
		"cpd:C00376":   "Retinal; all-trans-Retinal",
	}}

	got, err := NewPhasar(f, titles, Options{}).Suggest(context.Background(), enzymeHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	want := []entity.SpokeDraft{
		{ID: "1.1.1.105", DataSource: entity.EnzymeCode, Kind: entity.GeneProduct, Label: "retinol dehydrogenase"},
		{ID: "C00376", DataSource: entity.KEGGCompound, Kind: entity.Metabolite, Label: "Retinal"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spoke %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	got, err = NewPhasar(f, nil, Options{}).Suggest(context.Background(), enzymeHub)
	if err != nil {
		t.Fatalf("Suggest without KEGG: %v", err)
	}
	if got[0].Label != "1.1.1.105" {
		t.Errorf("label without KEGG = %q, want id", got[0].Label)
	}
}

func TestBIND(t *testing.T) {
	recs := []bind.Record{
		{GI: "4504111", Label: "GRB2"},
		{GI: "4505867", Label: "PLCG1"},
		{GI: "4505867", Label: "PLCG1"},
		{GI: "4557757"},
	}
	uniprot := entity.Entity{ID: "O43561", DataSource: entity.UniProt, Kind: entity.Protein, Label: "LAT"}
	kinase := entity.Entity{ID: "LAT_HUMAN", DataSource: entity.Other, Kind: entity.Protein, Label: "LAT"}

	tests := []struct {
		name     string
		hub      entity.Entity
		resolver idmap.Resolver
		wantArgs [2]string
	}{
		{"entrez gene", geneHub, nil, [2]string{"8854", "genbank"}},
		{"uniprot", uniprot, nil, [2]string{"O43561", "uniprot"}},
		{"mapped to entrez gene", kinase, mapping(kinase, map[entity.DataSource]string{entity.EntrezGene: "27040"}), [2]string{"27040", "genbank"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeBIND{recs: recs}
			got, err := NewBIND(f, Options{Resolver: tt.resolver}).Suggest(context.Background(), tt.hub)
			if err != nil {
				t.Fatal(err)
			}
			if len(f.args) != 1 || f.args[0] != tt.wantArgs {
				t.Errorf("IDSearch args = %v, want %v", f.args, tt.wantArgs)
			}
			if len(got) != 3 {
				t.Fatalf("Suggest() = %v, want 3 spokes", got)
			}
			for _, s := range got {
				if s.DataSource != entity.GenBank || s.Kind != entity.GeneProduct {
					t.Errorf("spoke %+v, want GenBank GeneProduct", s)
				}
			}
			if got[0].Label != "GRB2" || got[2].Label != "4557757" {
				t.Errorf("labels = %q, %q", got[0].Label, got[2].Label)
			}
		})
	}
}

func TestBINDFormat(t *testing.T) {
	tests := []struct {
		ds   entity.DataSource
		want string
		ok   bool
	}{
		{entity.GenBank, "gi", true},
		{entity.EntrezGene, "genbank", true},
		{entity.GeneOntology, "GO", true},
		{entity.MGI, "MGI", true},
		{entity.ZFIN, "zfin", true},
		{entity.ChEBI, "", false},
	}
	for _, tt := range tests {
		got, ok := BINDFormat(tt.ds)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BINDFormat(%s) = %q, %v; want %q, %v", tt.ds, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSTITCH(t *testing.T) {
	f := &fakeSPARQL{rows: []map[string]string{
		{"o": "http://stitch/CID1", "oLabel": "retinal"},
		{"o": "http://stitch/CID1", "oLabel": "retinal"},
		{"oLabel": "no id"},
	}}
	resolver := mapping(chemHub, map[entity.DataSource]string{entity.ChEBI: "15367"})

	got, err := NewSTITCH(f, Options{Resolver: resolver}).Suggest(context.Background(), chemHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !strings.Contains(f.query, `rdfs:label "retinoic acid"`) {
		t.Errorf("query does not match on label:\n%s", f.query)
	}
	if len(got) != 1 || got[0].DataSource != entity.ChEBI || got[0].Label != "retinal" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestConceptWiki(t *testing.T) {
	f := &fakeSPARQL{rows: []map[string]string{{"ptitle": "related", "otitle": "vitamin A"}}}
	hub := entity.Entity{ID: "cw-123", DataSource: entity.Other, Kind: entity.Metabolite, Label: "retinol"}

	got, err := NewConceptWiki(f, Options{}).Suggest(context.Background(), hub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !strings.Contains(f.query, `dcterms:identifier "cw-123"`) || !strings.Contains(f.query, "LIMIT 10") {
		t.Errorf("query = %s", f.query)
	}
	if len(got) != 1 || got[0].ID != "vitamin A" || got[0].Label != "vitamin A" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestCompoundGenes(t *testing.T) {
	f := &fakeSPARQL{rows: []map[string]string{{"gene": "http://chem2bio2rdf.org/kegg/resource/gene/ALDH1A2"}}}
	got, err := NewCompoundGenes(f, Options{}).Suggest(context.Background(), compoundHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !strings.Contains(f.query, "<http://chem2bio2rdf.org/kegg/resource/kegg_ligand/C00376>") {
		t.Errorf("query = %s", f.query)
	}
	if len(got) != 1 || got[0].ID != "ALDH1A2" || got[0].DataSource != entity.KEGGGenes {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestCompoundTargets(t *testing.T) {
	f := &fakeOpenPHACTS{targets: []openphacts.Target{
		{URI: "t1", Title: "Retinal dehydrogenase 1", Matches: []openphacts.Match{
			{URI: openphacts.UniProtPrefix + "P00352", Mnemonic: "AL1A1_HUMAN"},
			{URI: "http://www.conceptwiki.org/concept/x"},
		}},
		{URI: "t2", Title: "Retinal dehydrogenase 2", Matches: []openphacts.Match{
			{URI: openphacts.UniProtPrefix + "O94788"},
			{URI: openphacts.UniProtPrefix + "P00352"},
		}},
	}}

	got, err := NewCompoundTargets(f, Options{}).Suggest(context.Background(), chemHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if f.uri != "http://rdf.chemspider.com/187440" {
		t.Errorf("uri = %q", f.uri)
	}
	want := []entity.SpokeDraft{
		{ID: "P00352", DataSource: entity.UniProt, Kind: entity.Protein, Label: "AL1A1_HUMAN"},
		{ID: "O94788", DataSource: entity.UniProt, Kind: entity.Protein, Label: "Retinal dehydrogenase 2"},
	}
	if len(got) != len(want) {
		t.Fatalf("Suggest() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spoke %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHMDB(t *testing.T) {
	f := &fakeHMDB{neighbours: []hmdb.Neighbour{{ID: "HMDB00026", Name: "Ureidoisobutyric acid"}, {ID: "HMDB00056"}}}
	got, err := NewHMDB(f, Options{}).Suggest(context.Background(), hmdbHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 || got[1].Label != "HMDB00056" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func mustAdd(t *testing.T, s *interactions.Store, in interactions.Interaction) {
	t.Helper()
	if err := s.Add(context.Background(), in); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func TestLocalInteractions(t *testing.T) {
	store, err := interactions.OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	mustAdd(t, store, interactions.Interaction{
		A: interactions.Partner{ID: "8854", DataSource: "EntrezGene", Kind: "GeneProduct", Label: "ALDH1A2"},
		B: interactions.Partner{ID: "15367", DataSource: "ChEBI", Kind: "Metabolite", Label: "retinoic acid"},
	})
	mustAdd(t, store, interactions.Interaction{
		A: interactions.Partner{ID: "x", DataSource: "Somewhere", Kind: "Gizmo", Label: "odd"},
		B: interactions.Partner{ID: "8854", DataSource: "EntrezGene", Kind: "GeneProduct", Label: "ALDH1A2"},
	})

	got, err := NewInteractions(store, "interaction database", "local", Options{}).Suggest(ctx, geneHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Suggest() = %+v", got)
	}
	if got[0].DataSource != entity.ChEBI || got[0].Kind != entity.Metabolite {
		t.Errorf("spoke 0 = %+v", got[0])
	}
	if got[1].DataSource != entity.Other || got[1].Kind != entity.Unknown {
		t.Errorf("unknown namespace and kind should map to Other/Unknown, got %+v", got[1])
	}
}

func TestStub(t *testing.T) {
	got, err := NewStub(Options{}).Suggest(context.Background(), hmdbHub)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 5 || got[0].Label != "a" || got[4].Label != "e" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestUnsupportedWithoutUpstreamCall(t *testing.T) {
	// geneHub maps to nothing but its own namespace.
	kf, pf, sf, of, hf := &fakeKEGG{}, &fakePhasar{}, &fakeSPARQL{}, &fakeOpenPHACTS{}, &fakeHMDB{}
	bf := &fakeBIND{}
	tests := []struct {
		name     string
		provider suggest.Provider
		hub      entity.Entity
	}{
		{"kegg-genes-by-enzyme", NewKEGGGenesByEnzyme(kf, Options{}), geneHub},
		{"kegg-enzymes-by-compound", NewKEGGEnzymesByCompound(kf, Options{}), enzymeHub},
		{"kegg-enzymes-by-gene", NewKEGGEnzymesByGene(kf, Options{}), chemHub},
		{"phasar", NewPhasar(pf, kf, Options{}), geneHub},
		{"stitch", NewSTITCH(sf, Options{}), geneHub},
		{"conceptwiki", NewConceptWiki(sf, Options{}), geneHub},
		{"openphacts-compound-genes", NewCompoundGenes(sf, Options{}), geneHub},
		{"openphacts-compound-targets", NewCompoundTargets(of, Options{}), enzymeHub},
		{"hmdb", NewHMDB(hf, Options{}), chemHub},
		{"stub", NewStub(Options{}), chemHub},
		{"bind", NewBIND(bf, Options{}), entity.Entity{ID: "CHEBI:15367", DataSource: entity.ChEBI, Kind: entity.Protein}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.provider.Suggest(context.Background(), tt.hub)
			wantCode(t, err, errors.ErrCodeUnsupported)
		})
	}
	for name, n := range map[string]int{"kegg": kf.count(), "phasar": pf.count(), "sparql": sf.count(), "openphacts": of.count(), "hmdb": hf.count(), "bind": bf.count()} {
		if n != 0 {
			t.Errorf("%s upstream called %d times", name, n)
		}
	}
}

func TestCanSuggest(t *testing.T) {
	tests := []struct {
		provider suggest.Provider
		hub      entity.Entity
		want     bool
	}{
		{NewKEGGEnzymesByGene(nil, Options{}), geneHub, true},
		{NewKEGGEnzymesByGene(nil, Options{}), chemHub, false},
		{NewKEGGGenesByEnzyme(nil, Options{}), chemHub, false},
		{NewKEGGEnzymesByCompound(nil, Options{}), geneHub, false},
		{NewKEGGEnzymesByCompound(nil, Options{}), chemHub, true},
		{NewPhasar(nil, nil, Options{}), entity.Entity{ID: "1", DataSource: entity.EnzymeCode, Kind: entity.Enzyme}, false},
		{NewPhasar(nil, nil, Options{}), enzymeHub, true},
		{NewCompoundTargets(nil, Options{}), geneHub, false},
		{NewHMDB(nil, Options{}), geneHub, false},
		{NewStub(Options{}), geneHub, false},
		{NewWikiPathways(nil, Options{}), chemHub, true},
		{NewSTITCH(nil, Options{}), geneHub, true},
		{NewBIND(nil, Options{}), geneHub, true},
		{NewBIND(nil, Options{}), chemHub, false},
	}
	for i, tt := range tests {
		if got := tt.provider.CanSuggest(tt.hub); got != tt.want {
			t.Errorf("case %d (%T): CanSuggest(%s) = %v, want %v", i, tt.provider, tt.hub.Kind, got, tt.want)
		}
	}
}

func TestUpstreamFailureClassified(t *testing.T) {
	f := &fakeKEGG{err: fmt.Errorf("%w: status 503", integrations.ErrNetwork)}
	_, err := NewKEGGEnzymesByCompound(f, Options{}).Suggest(context.Background(), compoundHub)
	wantCode(t, err, errors.ErrCodeUpstreamUnavailable)

	f = &fakeKEGG{err: fmt.Errorf("%w: bad row", integrations.ErrMalformed)}
	_, err = NewKEGGEnzymesByCompound(f, Options{}).Suggest(context.Background(), compoundHub)
	wantCode(t, err, errors.ErrCodeMalformedResponse)
}

type slowHMDB struct{}

func (slowHMDB) Neighbours(ctx context.Context, _ string) ([]hmdb.Neighbour, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("server selection: %s", ctx.Err().Error())
}

func TestProviderTimeout(t *testing.T) {
	p := NewHMDB(slowHMDB{}, Options{Timeout: 20 * time.Millisecond})
	_, err := p.Suggest(context.Background(), hmdbHub)
	wantCode(t, err, errors.ErrCodeTimeout)
}

func TestProviderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := NewHMDB(slowHMDB{}, Options{}).Suggest(ctx, hmdbHub)
	wantCode(t, err, errors.ErrCodeCancelled)
}

func TestRegister(t *testing.T) {
	reg := suggest.NewRegistry()
	err := Register(reg, Deps{
		KEGG:         &fakeKEGG{},
		WikiPathways: &fakeWP{},
		BIND:         &fakeBIND{},
		Phasar:       &fakePhasar{},
		STITCH:       &fakeSPARQL{},
		ConceptWiki:  &fakeSPARQL{},
		Chem2Bio2RDF: &fakeSPARQL{},
		OpenPHACTS:   &fakeOpenPHACTS{},
		HMDB:         &fakeHMDB{},
		Interactions: interactions.NewGraph(nil),
		Graph:        interactions.NewGraph(nil),
		Stub:         true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	want := []string{
		NameKEGGEnzymesByGene, NameKEGGGenesByEnzyme, NameKEGGEnzymesByCompound,
		NameWikiPathways, NameBIND, NamePhasar, NameSTITCH, NameConceptWiki,
		NameCompoundGenes, NameCompoundTargets, NameHMDB,
		NameLocalInteractions, NameGraphInteractions, NameStub,
	}
	names := reg.Names()
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, names[i], want[i])
		}
	}

	// Registering again collides.
	if err := Register(reg, Deps{Stub: true}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate Register() error = %v", err)
	}
}

func TestRegisterNothingConfigured(t *testing.T) {
	reg := suggest.NewRegistry()
	if err := Register(reg, Deps{}); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestDispatchThroughRegistry(t *testing.T) {
	reg := suggest.NewRegistry()
	f := &fakeKEGG{
		conv:  map[string][]kegg.Link{"hsa/ncbi-geneid:8854": {{To: "hsa:8854"}}},
		link:  map[string][]kegg.Link{"enzyme/hsa:8854": {{To: "ec:1"}, {To: "ec:2"}, {To: "ec:3"}}},
		title: map[string]string{},
	}
	if err := Register(reg, Deps{KEGG: f}); err != nil {
		t.Fatal(err)
	}

	got := make(chan suggest.Delivery, 1)
	d := suggest.NewDispatcher(reg, suggest.SinkFunc(func(del suggest.Delivery) { got <- del }), suggest.Options{})
	defer d.Close()

	if _, err := d.Dispatch(context.Background(), NameKEGGEnzymesByGene, geneHub); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	var del suggest.Delivery
	select {
	case del = <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery")
	}
	if del.Outcome.State != suggest.StateCompleted {
		t.Fatalf("state = %v, err = %v", del.Outcome.State, del.Outcome.Err)
	}
	frag := del.Outcome.Fragment
	if frag.Hub.Attribution != KEGGAttribution {
		t.Errorf("hub attribution = %q", frag.Hub.Attribution)
	}
	if len(frag.Spokes) != 3 {
		t.Fatalf("spokes = %d", len(frag.Spokes))
	}
	for i, s := range frag.Spokes {
		angle := math.Atan2(s.Y-frag.Hub.Y, s.X-frag.Hub.X)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		want := 2 * math.Pi * float64(i) / 3
		if math.Abs(angle-want) > 1e-9 {
			t.Errorf("spoke %d angle = %v, want %v", i, angle, want)
		}
	}
}
