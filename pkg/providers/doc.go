// Package providers implements the bundled suggestion providers.
//
// Every provider follows the same steps:
//
//  1. translate the hub into the upstream's namespace through an
//     [idmap.Resolver]; no mapping fails with UNSUPPORTED before any
//     upstream call
//  2. query the upstream under its own time bound ([DefaultTimeout])
//  3. map the response into spoke drafts, deduplicated, in upstream order
//
// Upstream failures are classified into UPSTREAM_UNAVAILABLE,
// MALFORMED_RESPONSE, TIMEOUT or CANCELLED.
//
// Providers depend on narrow client interfaces so they can be exercised
// without network access. [Register] installs every provider whose
// upstream is configured.
//
// [idmap.Resolver]: github.com/matzehuels/pathloom/pkg/idmap.Resolver
package providers
