package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/config"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/observability"
	"github.com/matzehuels/gtww/pkg/pipeline"
	"github.com/matzehuels/gtww/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gtww"

	// graphExt and sequenceExt are the input and output file extensions.
	graphExt    = gr.Ext
	sequenceExt = ".tww"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	in         io.Reader
	out        io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
// Commands read stdin and write results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetIO replaces stdin and stdout, for tests.
func (c *CLI) SetIO(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
}

// loadConfig reads the configuration file and applies its log level unless
// --verbose was given.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Register()
	} else {
		c.SetLogLevel(cfg.LogLevel())
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), ns+":")
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	if c.Config.Cache.TTL.Duration > 0 {
		r.TTL = c.Config.Cache.TTL.Duration
	}
	return r, nil
}

// newCache opens the configured cache backend. An unusable local cache
// directory disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	backend := c.Config.Cache.Backend
	if noCache {
		backend = cache.BackendNone
	}
	opts := cache.Options{Dir: c.Config.Cache.Dir, RedisAddr: c.Config.Cache.RedisAddr}
	if opts.Dir == "" && (backend == cache.BackendFile || backend == cache.BackendBadger) {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
		if backend == cache.BackendBadger {
			opts.Dir = filepath.Join(dir, "badger")
		}
	}
	cc, err := cache.Open(ctx, backend, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", backend, err)
	}
	return cc, nil
}

// openStore connects to MongoDB when a URI is configured and falls back to
// an in-memory store otherwise.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return st, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gtww/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
