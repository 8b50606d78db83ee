// Package config loads ifcqto settings.
//
// Settings come from three layers, later ones winning:
//
//  1. defaults in code ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/ifcqto/config.toml
//  3. environment variables ([ApplyEnv])
//
// A minimal file:
//
//	[takeoff]
//	classes = ["IfcWall", "IfcSlab"]
//	workers = 8
//	timeout = "2m"
//
//	[store]
//	backend = "sqlite"
//
//	[redis]
//	addr = "localhost:6379"
//	topic = "ifc-qto"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the configuration, cache and data directories.
const AppName = "ifcqto"

// Store backends.
const (
	StoreAuto    = "auto"
	StoreSQLite  = "sqlite"
	StoreMongoDB = "mongodb"
	StoreNone    = "none"
)

var storeBackends = []string{StoreAuto, StoreSQLite, StoreMongoDB, StoreNone}

// Config is the complete configuration.
type Config struct {
	Takeoff TakeoffConfig `toml:"takeoff"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Redis   RedisConfig   `toml:"redis"`
	Cache   CacheConfig   `toml:"cache"`
}

// TakeoffConfig holds defaults for takeoff runs. Zero values defer to the
// pipeline defaults.
type TakeoffConfig struct {
	Classes []string `toml:"classes"`
	Workers int      `toml:"workers"`
	Timeout Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
	// MaxUploadMB limits uploaded model documents.
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// StoreConfig selects the document store. With backend "auto" MongoDB is
// used when a URI is configured and SQLite otherwise.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongodb_uri"`
	MongoDatabase string `toml:"mongodb_database"`
}

// RedisConfig configures the shared cache and the message stream. Both are
// disabled while Addr is empty.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Topic    string `toml:"topic"`
	// Cache stores takeoff results in Redis instead of the local cache
	// directory.
	Cache bool `toml:"cache"`
}

// CacheConfig configures the local result cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Duration is a time.Duration written as a string ("90s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
			MaxUploadMB: 256,
		},
		Store: StoreConfig{
			Backend:       StoreAuto,
			MongoDatabase: "qto",
		},
		Redis: RedisConfig{
			Topic: "ifc-qto",
		},
	}
}

// Load reads the file at path on top of the defaults and applies the
// environment. An empty path selects DefaultPath, which may be missing; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return fmt.Errorf("store.backend %q: must be one of %s", c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if c.Store.Backend == StoreMongoDB && c.Store.MongoURI == "" {
		return errors.New("store.backend mongodb requires store.mongodb_uri or MONGODB_URI")
	}
	if c.Takeoff.Workers < 0 {
		return fmt.Errorf("takeoff.workers %d: must not be negative", c.Takeoff.Workers)
	}
	if c.Takeoff.Timeout.Duration < 0 {
		return fmt.Errorf("takeoff.timeout %s: must not be negative", c.Takeoff.Timeout)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb %d: must be positive", c.Server.MaxUploadMB)
	}
	if c.Redis.Cache && c.Redis.Addr == "" {
		return errors.New("redis.cache requires redis.addr or REDIS_ADDR")
	}
	return nil
}

// StoreBackend resolves "auto" to a concrete backend.
func (c Config) StoreBackend() string {
	if c.Store.Backend != StoreAuto {
		return c.Store.Backend
	}
	if c.Store.MongoURI != "" {
		return StoreMongoDB
	}
	return StoreSQLite
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/ifcqto/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the configured cache directory or the XDG default
// (~/.cache/ifcqto).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// SQLitePath returns the configured database path or
// ~/.local/share/ifcqto/ifcqto.db.
func (c Config) SQLitePath() (string, error) {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".db"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
