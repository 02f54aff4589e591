// Package httputil provides the HTTP plumbing shared by upstream clients.
//
// [NewClient] builds an *http.Client whose transport reports every request
// to the registered [observability.HTTPHooks] and stamps a User-Agent, so
// that KEGG, SPARQL endpoints and BridgeDb see who is calling.
//
// Retry lives in the cache package next to the response cache, since a
// cached fetch is the unit that gets retried.
package httputil
