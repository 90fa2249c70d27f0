// Package config loads gtww's TOML configuration file.
//
// The file is optional. Missing keys keep their defaults, and command-line
// flags override whatever the file sets:
//
//	[log]
//	level = "info"
//
//	[solve]
//	max_steps = 0
//	verify = false
//
//	[cache]
//	backend = "file"
//	dir = ""
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//	namespace = ""
//
//	[store]
//	mongo_uri = ""
//	database = "gtww"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/errors"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Config is the full configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Solve  SolveConfig  `toml:"solve"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type SolveConfig struct {
	MaxSteps int  `toml:"max_steps"`
	Verify   bool `toml:"verify"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	// Namespace prefixes every cache key, so that deployments sharing one
	// Redis server or cache directory do not see each other's entries.
	Namespace string `toml:"namespace"`
}

type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string ("168h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:   LogConfig{Level: "info"},
		Cache: CacheConfig{Backend: cache.BackendFile, TTL: Duration{cache.DefaultTTL}, RedisAddr: "localhost:6379"},
		Store: StoreConfig{Database: "gtww"},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{time.Minute},
			MaxBodyBytes:   64 << 20,
		},
	}
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error when path is the default location; an explicitly named file must
// exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "log.level: unknown level %q", c.Log.Level)
	}
	if c.Solve.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "solve.max_steps must be >= 0")
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendBadger, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be >= 0")
	}
	if c.Cache.Namespace != "" {
		if err := errors.ValidateName(c.Cache.Namespace); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.namespace")
		}
	}
	if c.Cache.Dir != "" {
		if err := errors.ValidatePath(c.Cache.Dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.dir")
		}
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be > 0")
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DefaultPath returns $XDG_CONFIG_HOME/gtww/config.toml, falling back to
// ~/.config/gtww/config.toml.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "gtww", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gtww", FileName), nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
