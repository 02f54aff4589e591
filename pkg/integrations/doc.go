// Package integrations provides the clients for the upstream data sources
// that suggestion providers query.
//
// Each upstream has its own subpackage:
//
//   - [kegg]: KEGG REST (identifier conversion, links, entry titles)
//   - [bridgedb]: BridgeDb identifier cross-references
//   - [wikipathways]: WikiPathways interaction search (XML)
//   - [phasar]: Phasar text-mining connections (XML)
//   - [sparql]: SPARQL 1.1 protocol endpoints (STITCH, ConceptWiki, chem2bio2rdf)
//   - [openphacts]: Open PHACTS pharmacology API (JSON)
//   - [interactions]: local SQLite and Neo4j interaction stores
//   - [hmdb]: HMDB metabolic network in MongoDB
//
// # Client Pattern
//
// HTTP clients embed the shared [Client], which adds response caching,
// retry of transient failures and request instrumentation:
//
//	c := kegg.NewClient(backend, 24*time.Hour)
//	pairs, err := c.Conv(ctx, "hsa", "ncbi-geneid:8854", false) // false = use cache
//
// Clients return plain Go errors wrapping [ErrNotFound], [ErrNetwork] or
// [ErrMalformed]. Providers turn them into coded errors with [Classify].
//
// [kegg]: github.com/matzehuels/pathloom/pkg/integrations/kegg
// [bridgedb]: github.com/matzehuels/pathloom/pkg/integrations/bridgedb
// [wikipathways]: github.com/matzehuels/pathloom/pkg/integrations/wikipathways
// [phasar]: github.com/matzehuels/pathloom/pkg/integrations/phasar
// [sparql]: github.com/matzehuels/pathloom/pkg/integrations/sparql
// [openphacts]: github.com/matzehuels/pathloom/pkg/integrations/openphacts
// [interactions]: github.com/matzehuels/pathloom/pkg/integrations/interactions
// [hmdb]: github.com/matzehuels/pathloom/pkg/integrations/hmdb
package integrations
