package providers

import (
	"github.com/matzehuels/pathloom/pkg/integrations/interactions"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// Provider names.
const (
	NameKEGGEnzymesByGene     = "kegg-enzymes-by-gene"
	NameKEGGGenesByEnzyme     = "kegg-genes-by-enzyme"
	NameKEGGEnzymesByCompound = "kegg-enzymes-by-compound"
	NameWikiPathways          = "wikipathways"
	NameBIND                  = "bind"
	NamePhasar                = "phasar"
	NameSTITCH                = "stitch"
	NameConceptWiki           = "conceptwiki"
	NameCompoundGenes         = "openphacts-compound-genes"
	NameCompoundTargets       = "openphacts-compound-targets"
	NameHMDB                  = "hmdb"
	NameLocalInteractions     = "local-interactions"
	NameGraphInteractions     = "graph-interactions"
	NameStub                  = "stub"
)

// Menu groups.
const (
	GroupKEGG         = "KEGG"
	GroupWikiPathways = "WikiPathways"
	GroupBIND         = "BIND"
	GroupTextMining   = "Text mining"
	GroupSemanticWeb  = "Semantic web"
	GroupOpenPHACTS   = "Open PHACTS"
	GroupLocal        = "Local"
)

// Deps holds the upstream clients. A nil field leaves the providers that
// need it unregistered.
type Deps struct {
	Options

	KEGG         KEGGClient
	WikiPathways WikiPathwaysClient
	BIND         BINDClient
	Phasar       PhasarClient
	STITCH       SPARQLClient
	ConceptWiki  SPARQLClient
	Chem2Bio2RDF SPARQLClient
	OpenPHACTS   OpenPHACTSClient
	HMDB         HMDBStore
	Interactions interactions.Source
	Graph        interactions.Source

	// Stub installs the placeholder provider.
	Stub bool
}

// Register installs every provider whose dependencies are present, in menu
// order.
func Register(reg *suggest.Registry, d Deps) error {
	type entry struct {
		name, group string
		p           suggest.Provider
	}
	var entries []entry

	if d.KEGG != nil {
		entries = append(entries,
			entry{NameKEGGEnzymesByGene, GroupKEGG, NewKEGGEnzymesByGene(d.KEGG, d.Options)},
			entry{NameKEGGGenesByEnzyme, GroupKEGG, NewKEGGGenesByEnzyme(d.KEGG, d.Options)},
			entry{NameKEGGEnzymesByCompound, GroupKEGG, NewKEGGEnzymesByCompound(d.KEGG, d.Options)},
		)
	}
	if d.WikiPathways != nil {
		entries = append(entries, entry{NameWikiPathways, GroupWikiPathways, NewWikiPathways(d.WikiPathways, d.Options)})
	}
	if d.BIND != nil {
		entries = append(entries, entry{NameBIND, GroupBIND, NewBIND(d.BIND, d.Options)})
	}
	if d.Phasar != nil {
		entries = append(entries, entry{NamePhasar, GroupTextMining, NewPhasar(d.Phasar, d.KEGG, d.Options)})
	}
	if d.STITCH != nil {
		entries = append(entries, entry{NameSTITCH, GroupSemanticWeb, NewSTITCH(d.STITCH, d.Options)})
	}
	if d.ConceptWiki != nil {
		entries = append(entries, entry{NameConceptWiki, GroupSemanticWeb, NewConceptWiki(d.ConceptWiki, d.Options)})
	}
	if d.Chem2Bio2RDF != nil {
		entries = append(entries, entry{NameCompoundGenes, GroupOpenPHACTS, NewCompoundGenes(d.Chem2Bio2RDF, d.Options)})
	}
	if d.OpenPHACTS != nil {
		entries = append(entries, entry{NameCompoundTargets, GroupOpenPHACTS, NewCompoundTargets(d.OpenPHACTS, d.Options)})
	}
	if d.HMDB != nil {
		entries = append(entries, entry{NameHMDB, GroupLocal, NewHMDB(d.HMDB, d.Options)})
	}
	if d.Interactions != nil {
		entries = append(entries, entry{NameLocalInteractions, GroupLocal,
			NewInteractions(d.Interactions, "interaction database", "Local interaction database", d.Options)})
	}
	if d.Graph != nil {
		entries = append(entries, entry{NameGraphInteractions, GroupLocal,
			NewInteractions(d.Graph, "Neo4j", "Neo4j interaction graph", d.Options)})
	}
	if d.Stub {
		entries = append(entries, entry{NameStub, GroupLocal, NewStub(d.Options)})
	}

	for _, e := range entries {
		if err := reg.Register(e.name, e.group, e.p); err != nil {
			return err
		}
	}
	return nil
}
