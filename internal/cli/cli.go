// Package cli implements the ifcqto command-line interface.
//
// This package provides commands for computing quantity takeoffs of model
// documents, browsing them interactively, serving the HTTP API, and sending
// takeoffs to the store and message bus. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - takeoff: Compute a takeoff and write it as JSON or XLSX
//   - browse: Explore a takeoff in the terminal
//   - layers: Apportion a free-text layer description
//   - send: Save a takeoff to the store and publish it
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Configuration
//
// Every command reads the TOML configuration (see package config); --config
// selects a file other than the default. Command-line flags win over the
// file and the environment.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/pkg/buildinfo"
	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/config"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/publish"
	"github.com/matzehuels/ifcqto/pkg/store"
	"github.com/matzehuels/ifcqto/pkg/store/mongostore"
	"github.com/matzehuels/ifcqto/pkg/store/sqlitestore"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// redisKeyPrefix scopes the takeoff keys in a shared Redis.
const redisKeyPrefix = "ifcqto:"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ifcqto extracts quantity takeoffs from building models",
		Long: `ifcqto reads building-model element graphs and computes a quantity takeoff:
volumes, areas and per-material volume shares of every building element.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/ifcqto/config.toml)")

	root.AddCommand(c.takeoffCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.sendCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// takeoffFlags are the run options shared by commands that compute a
// takeoff. Zero values defer to the configuration.
type takeoffFlags struct {
	classes string
	workers int
	timeout int // seconds
	noCache bool
	refresh bool
}

func (f *takeoffFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.classes, "classes", "", "comma-separated IFC classes (default: building elements)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel shards (default: number of CPUs)")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "timeout in seconds; elements not finished in time are dropped")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// options merges the flags over the configuration.
func (f *takeoffFlags) options(cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		Classes: cfg.Takeoff.Classes,
		Workers: cfg.Takeoff.Workers,
		Timeout: cfg.Takeoff.Timeout.Duration,
		Refresh: f.refresh,
	}
	if classes := pipeline.ParseClasses(f.classes); len(classes) > 0 {
		opts.Classes = classes
	}
	if f.workers != 0 {
		opts.Workers = f.workers
	}
	if f.timeout != 0 {
		opts.Timeout = secondsToDuration(f.timeout)
	}
	return opts
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := backend.(*cache.RedisCache); shared {
		keyer = cache.NewScopedKeyer(nil, redisKeyPrefix)
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

// newCache selects the result cache: none, the shared Redis, or the local
// cache directory. An unreachable Redis degrades to the local cache.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Cache {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "")
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using local cache", "error", err)
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the configured document store. It never returns nil:
// an unavailable store is reported and replaced by store.Null.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) store.Store {
	var (
		s   store.Store
		err error
	)
	switch backend := cfg.StoreBackend(); backend {
	case config.StoreMongoDB:
		s, err = mongostore.Open(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, c.Logger)
	case config.StoreSQLite:
		var path string
		if path, err = cfg.SQLitePath(); err == nil {
			if err = ensureDir(path); err == nil {
				s, err = sqlitestore.Open(ctx, path, c.Logger)
			}
		}
	default:
		return store.Null{}
	}
	if err != nil {
		c.Logger.Warn("store unavailable", "backend", cfg.StoreBackend(), "error", err)
		return store.Null{}
	}
	return s
}

// openPublisher connects to the configured message stream, or returns
// publish.Null when none is configured or it cannot be reached.
func (c *CLI) openPublisher(ctx context.Context, cfg config.Config) publish.Publisher {
	if cfg.Redis.Addr == "" {
		return publish.Null{}
	}
	p, err := publish.NewRedisStream(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Topic)
	if err != nil {
		c.Logger.Warn("publisher unavailable", "error", err)
		return publish.Null{}
	}
	return p
}

func statusOf(err error) string {
	if err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	return "connected"
}
