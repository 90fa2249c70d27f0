// Package cache stores solved contraction sequences so that re-running gtww on
// an unchanged graph is instant.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [BadgerCache]: an embedded Badger key-value store
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: caching disabled
//
// All backends store opaque bytes with an optional TTL. Keys are built by a
// [Keyer] from the content hash of the canonical graph and the solve options
// that influence the result.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long solved sequences are kept. The greedy policy is
// deterministic, so entries only go stale when the solver itself changes.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// SolveKeyOpts are the solve options that change the cached result.
type SolveKeyOpts struct {
	MaxSteps int `json:"max_steps"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey returns the key of a solved sequence for a graph hash.
	SolveKey(graphHash string, opts SolveKeyOpts) string
}

// DefaultKeyer builds unscoped keys of the form "solve:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements [Keyer].
func (DefaultKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return hashKey("solve", graphHash, opts, solverRevision)
}

// solverRevision is mixed into every solve key. Bump it when a solver change
// alters the sequences it produces.
const solverRevision = 1

// Open returns the cache for a backend name as used in the configuration file.
func Open(ctx context.Context, backend string, opts Options) (Cache, error) {
	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendBadger:
		c, err := NewBadgerCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisConfig{Addr: opts.RedisAddr, Prefix: opts.RedisPrefix})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Options configures [Open].
type Options struct {
	Dir         string // file and badger backends
	RedisAddr   string // redis backend
	RedisPrefix string // redis backend key prefix
}
