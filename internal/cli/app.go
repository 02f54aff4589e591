package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/pathloom/internal/config"
	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/idmap"
	"github.com/matzehuels/pathloom/pkg/integrations"
	"github.com/matzehuels/pathloom/pkg/integrations/bind"
	"github.com/matzehuels/pathloom/pkg/integrations/bridgedb"
	"github.com/matzehuels/pathloom/pkg/integrations/hmdb"
	"github.com/matzehuels/pathloom/pkg/integrations/interactions"
	"github.com/matzehuels/pathloom/pkg/integrations/kegg"
	"github.com/matzehuels/pathloom/pkg/integrations/openphacts"
	"github.com/matzehuels/pathloom/pkg/integrations/phasar"
	"github.com/matzehuels/pathloom/pkg/integrations/sparql"
	"github.com/matzehuels/pathloom/pkg/integrations/wikipathways"
	"github.com/matzehuels/pathloom/pkg/providers"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// app is everything a command needs to dispatch: the loaded config, the
// cache backend and a populated registry. Close releases the connections
// opened while building it.
type app struct {
	cfg      *config.Config
	cache    cache.Cache
	keyer    cache.Keyer
	registry *suggest.Registry
	logger   *log.Logger

	closers []func(context.Context) error
}

// openApp loads the configuration and builds the provider registry.
// refresh bypasses cached upstream responses for this run.
func (c *CLI) openApp(ctx context.Context, refresh bool) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	installLogHooks(c.Logger)

	a := &app{cfg: cfg, logger: c.Logger, registry: suggest.NewRegistry()}
	if err := a.build(ctx, refresh); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	c.Logger.Debug("providers registered", "count", a.registry.Len())
	return a, nil
}

func (a *app) build(ctx context.Context, refresh bool) error {
	backend, err := openCache(ctx, a.cfg.Cache)
	if err != nil {
		return err
	}
	a.cache = backend
	if p := a.cfg.Cache.KeyPrefix; p != "" {
		a.keyer = cache.NewScopedKeyer(nil, p)
	}
	a.closers = append(a.closers, func(context.Context) error { return backend.Close() })

	resolver, err := a.resolver()
	if err != nil {
		return err
	}

	deps := providers.Deps{
		Options: providers.Options{
			Resolver: resolver,
			Timeout:  a.cfg.Dispatch.ProviderTimeout,
			Refresh:  refresh,
		},
		Stub: a.cfg.Upstreams.Stub,
	}
	a.upstreams(&deps)
	if err := a.databases(ctx, &deps); err != nil {
		return err
	}

	if err := providers.Register(a.registry, deps); err != nil {
		return err
	}
	return a.gates()
}

// openCache returns the configured backend.
func openCache(ctx context.Context, c config.Cache) (cache.Cache, error) {
	switch c.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	default:
		return cache.NewFileCache(c.Dir)
	}
}

// resolver chains identity, the static mapping file and BridgeDb, in that
// order.
func (a *app) resolver() (idmap.Resolver, error) {
	chain := idmap.Chain{idmap.Identity{}}

	if path := a.cfg.IDMap.StaticFile; path != "" {
		static, err := idmap.LoadStatic(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("static mappings loaded", "path", path, "entries", static.Len())
		chain = append(chain, static)
	}

	if url := a.cfg.IDMap.BridgeDbURL; url != "" {
		// The resolver caches mapped ids itself; raw responses are not kept.
		client := bridgedb.NewClient(cache.NewNullCache(), url, a.cfg.Cache.TTL)
		bridge := idmap.NewBridgeDb(client, a.cache, a.cfg.Cache.TTL)
		if a.keyer != nil {
			bridge.WithKeyer(a.keyer)
		}
		chain = append(chain, bridge)
	}
	return chain, nil
}

// upstreams creates the HTTP clients for every configured base URL.
func (a *app) upstreams(d *providers.Deps) {
	u, ttl := a.cfg.Upstreams, a.cfg.Cache.TTL

	if u.KEGG != "" {
		c := kegg.NewClient(a.cache, u.KEGG, ttl)
		a.scope(c.Client)
		d.KEGG = c
	}
	if u.WikiPathways != "" {
		c := wikipathways.NewClient(a.cache, u.WikiPathways, ttl)
		a.scope(c.Client)
		d.WikiPathways = c
	}
	if u.BIND != "" {
		c := bind.NewClient(a.cache, u.BIND, ttl)
		a.scope(c.Client)
		d.BIND = c
	}
	if u.Phasar != "" {
		c := phasar.NewClient(a.cache, u.Phasar, ttl)
		a.scope(c.Client)
		d.Phasar = c
	}
	if u.STITCHEndpoint != "" {
		d.STITCH = a.sparqlClient(u.STITCHEndpoint)
	}
	if u.ConceptWikiEndpoint != "" {
		d.ConceptWiki = a.sparqlClient(u.ConceptWikiEndpoint)
	}
	if u.Chem2Bio2RDFEndpoint != "" {
		d.Chem2Bio2RDF = a.sparqlClient(u.Chem2Bio2RDFEndpoint)
	}
	if u.OpenPHACTS != "" && u.OpenPHACTSAppID != "" {
		c := openphacts.NewClient(a.cache, u.OpenPHACTS, openphacts.Credentials{
			AppID:  u.OpenPHACTSAppID,
			AppKey: u.OpenPHACTSAppKey,
		}, ttl)
		a.scope(c.Client)
		d.OpenPHACTS = c
	}
}

func (a *app) sparqlClient(endpoint string) *sparql.Client {
	c := sparql.NewClient(a.cache, endpoint, a.cfg.Cache.TTL)
	a.scope(c.Client)
	return c
}

// scope applies the configured key prefix to a client's cache keys.
func (a *app) scope(c *integrations.Client) {
	if a.keyer != nil {
		c.WithKeyer(a.keyer)
	}
}

// databases opens the local stores. Each one is optional.
func (a *app) databases(ctx context.Context, d *providers.Deps) error {
	db := a.cfg.Databases

	if db.SQLitePath != "" {
		store, err := interactions.OpenStore(db.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		d.Interactions = store
	}

	if db.Neo4jURI != "" {
		exec, err := interactions.NewNeo4jExecutor(db.Neo4jURI, db.Neo4jUser, db.Neo4jPassword, db.Neo4jDatabase)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, exec.Close)
		if err := exec.Verify(ctx); err != nil {
			return fmt.Errorf("neo4j %s: %w", db.Neo4jURI, err)
		}
		d.Graph = interactions.NewGraph(exec)
	}

	if db.MongoURI != "" {
		store, err := hmdb.Connect(ctx, db.MongoURI, db.MongoDatabase, db.MongoCollection)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store.Close)
		d.HMDB = store
	}
	return nil
}

// gates installs the expression overrides from the config. A gate naming
// a provider that is not configured is skipped.
func (a *app) gates() error {
	gates, err := a.cfg.CompiledGates()
	if err != nil {
		return err
	}
	for name, g := range gates {
		if _, ok := a.registry.Lookup(name); !ok {
			a.logger.Warn("gate for unregistered provider ignored", "provider", name)
			continue
		}
		if err := a.registry.SetGate(name, g); err != nil {
			return fmt.Errorf("gate for %s: %w", name, err)
		}
	}
	return nil
}

// dispatcher starts a dispatcher over the registry with the configured
// limits.
func (a *app) dispatcher(sink suggest.Sink) *suggest.Dispatcher {
	return suggest.NewDispatcher(a.registry, sink, suggest.Options{
		MaxConcurrent:   a.cfg.Dispatch.MaxConcurrent,
		ProviderTimeout: a.cfg.Dispatch.ProviderTimeout,
		Retention:       a.cfg.Dispatch.Retention,
		Logger:          a.logger,
	})
}

// Close releases every opened resource in reverse order.
func (a *app) Close(ctx context.Context) error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
