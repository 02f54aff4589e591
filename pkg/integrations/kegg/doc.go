// Package kegg provides a client for the KEGG REST API.
//
// Three operations cover what the KEGG providers need:
//
//   - [Client.Conv] converts between KEGG and outside identifiers
//     (ncbi-geneid:8854 to hsa:8854)
//   - [Client.Link] follows cross-references between KEGG databases
//     (genes to enzymes, enzymes to genes, compounds to enzymes)
//   - [Client.List] fetches entry titles used as spoke labels
//
// Responses are tab-separated text. Empty results are not errors.
package kegg
