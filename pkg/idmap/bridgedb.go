package idmap

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/integrations/bridgedb"
)

// XrefClient looks up cross-references. *bridgedb.Client implements it.
type XrefClient interface {
	Xrefs(ctx context.Context, organism, sourceCode, id, targetCode string, refresh bool) ([]bridgedb.Xref, error)
}

// BridgeDb resolves through the BridgeDb web service. Resolved ids,
// including misses, are cached under [cache.Keyer.XrefKey].
type BridgeDb struct {
	client XrefClient
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
}

// NewBridgeDb creates a resolver over client. backend may be nil.
func NewBridgeDb(client XrefClient, backend cache.Cache, ttl time.Duration) *BridgeDb {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &BridgeDb{client: client, cache: backend, keyer: cache.NewDefaultKeyer(), ttl: ttl}
}

// WithKeyer replaces the keyer used for cached mappings.
func (b *BridgeDb) WithKeyer(k cache.Keyer) *BridgeDb {
	b.keyer = k
	return b
}

type cachedXref struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

// Resolve implements [Resolver]. Namespaces without a BridgeDb system code
// never resolve.
func (b *BridgeDb) Resolve(ctx context.Context, e entity.Entity, target entity.DataSource) (string, bool, error) {
	src, tgt := e.DataSource.SystemCode(), target.SystemCode()
	if src == "" || tgt == "" || !e.HasID() {
		return "", false, nil
	}

	org := e.OrganismOrDefault()
	key := b.keyer.XrefKey(org, src, e.ID, tgt)
	if data, ok, _ := b.cache.Get(ctx, key); ok {
		var c cachedXref
		if json.Unmarshal(data, &c) == nil {
			return c.ID, c.OK, nil
		}
	}

	xrefs, err := b.client.Xrefs(ctx, org, src, e.ID, tgt, false)
	if err != nil {
		return "", false, err
	}

	var c cachedXref
	if len(xrefs) > 0 {
		c = cachedXref{ID: xrefs[0].ID, OK: true}
	}
	if data, err := json.Marshal(c); err == nil {
		_ = b.cache.Set(ctx, key, data, b.ttl)
	}
	return c.ID, c.OK, nil
}
