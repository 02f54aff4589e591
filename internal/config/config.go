// Package config loads pathloom settings from a TOML file, a .env file and
// PATHLOOM_ environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/matzehuels/pathloom/pkg/integrations/bridgedb"
	"github.com/matzehuels/pathloom/pkg/integrations/kegg"
	"github.com/matzehuels/pathloom/pkg/integrations/openphacts"
	"github.com/matzehuels/pathloom/pkg/integrations/phasar"
	"github.com/matzehuels/pathloom/pkg/integrations/wikipathways"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

const (
	appName = "pathloom"

	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "PATHLOOM_"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Log       Log       `toml:"log" envPrefix:"LOG_"`
	Cache     Cache     `toml:"cache" envPrefix:"CACHE_"`
	Dispatch  Dispatch  `toml:"dispatch" envPrefix:"DISPATCH_"`
	IDMap     IDMap     `toml:"idmap" envPrefix:"IDMAP_"`
	Upstreams Upstreams `toml:"upstreams" envPrefix:"UPSTREAM_"`
	Databases Databases `toml:"databases" envPrefix:"DB_"`
	Gates     []Gate    `toml:"gate"`
	Server    Server    `toml:"server" envPrefix:"SERVER_"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level" env:"LEVEL"`
	// File, when set, receives logs through a rotating writer.
	File       string `toml:"file" env:"FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" env:"MAX_BACKUPS"`
}

// Cache configures the upstream response cache.
type Cache struct {
	Backend       string        `toml:"backend" env:"BACKEND"`
	Dir           string        `toml:"dir" env:"DIR"`
	TTL           time.Duration `toml:"ttl" env:"TTL"`
	RedisAddr     string        `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `toml:"redis_db" env:"REDIS_DB"`
	// KeyPrefix scopes every key, for backends shared between deployments.
	KeyPrefix string `toml:"key_prefix" env:"KEY_PREFIX"`
}

// Dispatch configures the dispatcher.
type Dispatch struct {
	MaxConcurrent   int           `toml:"max_concurrent" env:"MAX_CONCURRENT"`
	ProviderTimeout time.Duration `toml:"provider_timeout" env:"PROVIDER_TIMEOUT"`
	Retention       time.Duration `toml:"retention" env:"RETENTION"`
}

// IDMap configures identifier mapping.
type IDMap struct {
	// BridgeDbURL enables BridgeDb lookups. Empty disables them.
	BridgeDbURL string `toml:"bridgedb_url" env:"BRIDGEDB_URL"`
	// Organism is used for hubs that do not name one.
	Organism string `toml:"organism" env:"ORGANISM"`
	// StaticFile is a TOML mapping file, see idmap.LoadStatic.
	StaticFile string `toml:"static_file" env:"STATIC_FILE"`
}

// Upstreams holds base URLs and SPARQL endpoints. An empty URL leaves the
// providers behind it unregistered.
type Upstreams struct {
	KEGG                 string `toml:"kegg" env:"KEGG"`
	WikiPathways         string `toml:"wikipathways" env:"WIKIPATHWAYS"`
	Phasar               string `toml:"phasar" env:"PHASAR"`
	BIND                 string `toml:"bind" env:"BIND"`
	STITCHEndpoint       string `toml:"stitch_endpoint" env:"STITCH_ENDPOINT"`
	ConceptWikiEndpoint  string `toml:"conceptwiki_endpoint" env:"CONCEPTWIKI_ENDPOINT"`
	Chem2Bio2RDFEndpoint string `toml:"chem2bio2rdf_endpoint" env:"CHEM2BIO2RDF_ENDPOINT"`
	OpenPHACTS           string `toml:"openphacts" env:"OPENPHACTS"`
	OpenPHACTSAppID      string `toml:"openphacts_app_id" env:"OPENPHACTS_APP_ID"`
	OpenPHACTSAppKey     string `toml:"openphacts_app_key" env:"OPENPHACTS_APP_KEY"`
	// Stub registers the placeholder provider.
	Stub bool `toml:"stub" env:"STUB"`
}

// Databases holds connection settings for the local stores. Empty settings
// leave the corresponding provider unregistered.
type Databases struct {
	SQLitePath      string `toml:"sqlite_path" env:"SQLITE_PATH"`
	Neo4jURI        string `toml:"neo4j_uri" env:"NEO4J_URI"`
	Neo4jUser       string `toml:"neo4j_user" env:"NEO4J_USER"`
	Neo4jPassword   string `toml:"neo4j_password" env:"NEO4J_PASSWORD"`
	Neo4jDatabase   string `toml:"neo4j_database" env:"NEO4J_DATABASE"`
	MongoURI        string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" env:"MONGO_COLLECTION"`
}

// Gate overrides a provider's applicability test with an expression over
// the hub, see suggest.ExprGate.
type Gate struct {
	Provider string `toml:"provider"`
	Expr     string `toml:"expr"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// Default returns the built-in configuration: file cache, public upstream
// URLs, no SPARQL endpoints and no local databases.
func Default() Config {
	return Config{
		Log: Log{Level: "info", MaxSizeMB: 50, MaxBackups: 3},
		Cache: Cache{
			Backend: CacheFile,
			Dir:     defaultCacheDir(),
			TTL:     24 * time.Hour,
		},
		Dispatch: Dispatch{
			MaxConcurrent:   suggest.DefaultMaxConcurrent,
			ProviderTimeout: suggest.DefaultProviderTimeout,
			Retention:       suggest.DefaultRetention,
		},
		IDMap: IDMap{
			BridgeDbURL: bridgedb.DefaultBaseURL,
		},
		Upstreams: Upstreams{
			KEGG:         kegg.DefaultBaseURL,
			WikiPathways: wikipathways.DefaultBaseURL,
			Phasar:       phasar.DefaultBaseURL,
			OpenPHACTS:   openphacts.DefaultBaseURL,
		},
		Databases: Databases{
			MongoDatabase:   "hmdb",
			MongoCollection: "network",
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pathloom/config.toml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}

// Load builds the configuration. path names the TOML file; an empty path
// uses DefaultPath and tolerates its absence. envFiles are loaded into the
// environment first without overriding variables already set; with none
// given, ./.env is tried.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
