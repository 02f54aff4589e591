// Package cache provides the response cache used by upstream clients.
//
// Suggestions themselves are never stored: they are transient results that
// live only as long as a dispatch. What is cached are decoded upstream
// responses (KEGG listings, SPARQL result sets, BridgeDb cross-references)
// so that repeated suggestions for the same hub do not hit remote services.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for CLI usage
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are produced by a [Keyer] so that every backend sees the same layout:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.HTTPKey("kegg", "conv/ncbi-geneid:8854")
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey returns the key for a decoded upstream response.
	HTTPKey(namespace, key string) string

	// XrefKey returns the key for an identifier cross-reference lookup.
	XrefKey(organism, source, id, target string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a Keyer without prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// XrefKey hashes the lookup tuple so that identifiers containing separators
// cannot collide.
func (DefaultKeyer) XrefKey(organism, source, id, target string) string {
	return hashKey("xref", organism, source, id, target)
}
