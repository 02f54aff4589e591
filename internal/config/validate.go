package config

import (
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if _, err := charmlog.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		add("log.level: unknown level %q", c.Log.Level)
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			add("cache.dir: required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			add("cache.redis_addr: required for the redis backend")
		}
	case CacheNone:
	default:
		add("cache.backend: must be %s, %s or %s, got %q", CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl: must not be negative")
	}

	if c.Dispatch.MaxConcurrent < 1 {
		add("dispatch.max_concurrent: must be at least 1")
	}
	if c.Dispatch.ProviderTimeout <= 0 {
		add("dispatch.provider_timeout: must be positive")
	}
	if c.Dispatch.Retention <= 0 {
		add("dispatch.retention: must be positive")
	}

	urls := []struct{ name, value string }{
		{"idmap.bridgedb_url", c.IDMap.BridgeDbURL},
		{"upstreams.kegg", c.Upstreams.KEGG},
		{"upstreams.wikipathways", c.Upstreams.WikiPathways},
		{"upstreams.phasar", c.Upstreams.Phasar},
		{"upstreams.bind", c.Upstreams.BIND},
		{"upstreams.stitch_endpoint", c.Upstreams.STITCHEndpoint},
		{"upstreams.conceptwiki_endpoint", c.Upstreams.ConceptWikiEndpoint},
		{"upstreams.chem2bio2rdf_endpoint", c.Upstreams.Chem2Bio2RDFEndpoint},
		{"upstreams.openphacts", c.Upstreams.OpenPHACTS},
	}
	for _, u := range urls {
		if u.value == "" {
			continue
		}
		if err := errors.ValidateURL(u.value); err != nil {
			add("%s: %s", u.name, errors.UserMessage(err))
		}
	}

	if c.Databases.Neo4jURI != "" && c.Databases.Neo4jUser == "" {
		add("databases.neo4j_user: required with neo4j_uri")
	}
	if c.Databases.MongoURI != "" && (c.Databases.MongoDatabase == "" || c.Databases.MongoCollection == "") {
		add("databases.mongo_database and mongo_collection: required with mongo_uri")
	}

	seen := make(map[string]bool)
	for i, g := range c.Gates {
		name := strings.TrimSpace(g.Provider)
		switch {
		case name == "":
			add("gate[%d].provider: required", i)
		case seen[name]:
			add("gate[%d]: provider %q already has a gate", i, name)
		}
		seen[name] = true
		if _, err := suggest.NewExprGate(g.Expr); err != nil {
			add("gate[%d].expr: %v", i, err)
		}
	}

	if c.Server.Addr == "" {
		add("server.addr: required")
	}

	return result.ErrorOrNil()
}

// CompiledGates returns the gate overrides keyed by provider name. Call
// after Validate.
func (c *Config) CompiledGates() (map[string]suggest.Gate, error) {
	out := make(map[string]suggest.Gate, len(c.Gates))
	for _, g := range c.Gates {
		gate, err := suggest.NewExprGate(g.Expr)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(g.Provider)] = gate
	}
	return out, nil
}
