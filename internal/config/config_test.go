package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/pathloom/pkg/entity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Upstreams.STITCHEndpoint != "" {
		t.Error("SPARQL endpoints should be off by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[log]
level = "debug"

[cache]
backend = "none"
ttl = "2h"

[dispatch]
max_concurrent = 2
provider_timeout = "30s"

[idmap]
organism = "Mus musculus"

[upstreams]
stitch_endpoint = "http://localhost:8890/sparql"
stub = true

[databases]
sqlite_path = "interactions.db"

[[gate]]
provider = "hmdb"
expr = "kind == 'Metabolite'"

[server]
addr = ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Dispatch.MaxConcurrent != 2 || cfg.Dispatch.ProviderTimeout != 30*time.Second {
		t.Errorf("Dispatch = %+v", cfg.Dispatch)
	}
	if cfg.Dispatch.Retention != Default().Dispatch.Retention {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.Upstreams.KEGG != Default().Upstreams.KEGG {
		t.Error("upstreams.kegg should keep its default")
	}
	if !cfg.Upstreams.Stub || cfg.Upstreams.STITCHEndpoint == "" {
		t.Errorf("Upstreams = %+v", cfg.Upstreams)
	}
	if cfg.IDMap.Organism != "Mus musculus" {
		t.Errorf("IDMap.Organism = %q", cfg.IDMap.Organism)
	}
	if len(cfg.Gates) != 1 || cfg.Gates[0].Provider != "hmdb" {
		t.Fatalf("Gates = %+v", cfg.Gates)
	}

	gates, err := cfg.CompiledGates()
	if err != nil {
		t.Fatal(err)
	}
	g := gates["hmdb"]
	if g == nil {
		t.Fatal("no compiled gate for hmdb")
	}
	if !g.Allow(entity.Entity{ID: "HMDB00031", DataSource: entity.HMDB, Kind: entity.Metabolite}) {
		t.Error("gate rejected a metabolite")
	}
	if g.Allow(entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Kind: entity.GeneProduct}) {
		t.Error("gate accepted a gene product")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of an explicit missing file should fail")
	}

	// The default location may be absent.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", "[cache\nbackend = ")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[dispatch]\nmax_concurrent = 2\n")
	t.Setenv("PATHLOOM_DISPATCH_MAX_CONCURRENT", "5")
	t.Setenv("PATHLOOM_CACHE_TTL", "90m")
	t.Setenv("PATHLOOM_UPSTREAM_OPENPHACTS_APP_KEY", "secret")
	t.Setenv("PATHLOOM_DB_NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("PATHLOOM_DB_NEO4J_USER", "neo4j")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dispatch.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.Dispatch.MaxConcurrent)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Upstreams.OpenPHACTSAppKey != "secret" {
		t.Errorf("OpenPHACTSAppKey = %q", cfg.Upstreams.OpenPHACTSAppKey)
	}
	if cfg.Databases.Neo4jURI != "neo4j://localhost:7687" {
		t.Errorf("Neo4jURI = %q", cfg.Databases.Neo4jURI)
	}
}

func TestEnvFile(t *testing.T) {
	// Register cleanup, then clear so the env file can set it.
	t.Setenv("PATHLOOM_SERVER_ADDR", "placeholder")
	os.Unsetenv("PATHLOOM_SERVER_ADDR")

	envFile := writeFile(t, ".env", "PATHLOOM_SERVER_ADDR=0.0.0.0:7000\n")
	cfgFile := writeFile(t, "config.toml", "")

	cfg, err := Load(cfgFile, envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(cfgFile, filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() with a missing env file should fail")
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Cache.Backend = "memcached"
	cfg.Dispatch.MaxConcurrent = 0
	cfg.Upstreams.KEGG = "ftp://rest.kegg.jp"
	cfg.Gates = []Gate{
		{Provider: "kegg-enzymes-by-gene", Expr: "kind =="},
		{Provider: "", Expr: "true"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Validate() returned %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 6 {
		t.Errorf("got %d problems, want 6:\n%v", len(merr.Errors), err)
	}
	for _, want := range []string{"log.level", "cache.backend", "dispatch.max_concurrent", "upstreams.kegg", "gate[0].expr", "gate[1].provider"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() does not mention %s", want)
		}
	}
}

func TestValidateBackends(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file", func(c *Config) {}, false},
		{"file without dir", func(c *Config) { c.Cache.Dir = "" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, true},
		{"redis", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "localhost:6379" }, false},
		{"none", func(c *Config) { c.Cache.Backend = CacheNone; c.Cache.Dir = "" }, false},
		{"neo4j without user", func(c *Config) { c.Databases.Neo4jURI = "neo4j://db" }, true},
		{"mongo without collection", func(c *Config) { c.Databases.MongoURI = "mongodb://db"; c.Databases.MongoCollection = "" }, true},
		{"duplicate gate", func(c *Config) {
			c.Gates = []Gate{{Provider: "stub", Expr: "true"}, {Provider: "stub", Expr: "false"}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
