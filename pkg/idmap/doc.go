// Package idmap translates entity identifiers between namespaces.
//
// Providers need the hub's identifier in the namespace their upstream
// understands: KEGG wants Entrez Gene ids, Phasar wants EC numbers, STITCH
// wants ChEBI. A [Resolver] answers "what is this entity's id in target?":
//
//	id, ok, err := resolver.Resolve(ctx, hub, entity.EnzymeCode)
//	if err != nil { ... }  // mapping service failed
//	if !ok { ... }         // no mapping: the provider reports UNSUPPORTED
//
// Implementations:
//
//   - [Identity]: the hub is already in the target namespace
//   - [Static]: a curated TOML mapping file
//   - [BridgeDb]: the BridgeDb web service, cached
//   - [Chain]: tries resolvers in order, first hit wins
package idmap
