package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/observability"
	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

// keyTypeSolve labels solve-stage cache events.
const keyTypeSolve = "solve"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete parse → solve → verify pipeline.
//
// Malformed input fails in the parse stage with an INVALID_INPUT error and
// nothing is solved. When the solver stops early (cancellation or step
// limit) the error is returned together with a Result holding the partial
// sequence, which is never cached.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	logger := opts.Logger.With("graph", opts.Name)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	g, err := Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Summary = Describe(g)
	result.Stats.ParseTime = time.Since(parseStart)
	if result.GraphHash, err = GraphHash(g); err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}

	logger.Debug("parsed graph",
		"vertices", result.Summary.Vertices,
		"edges", result.Summary.Edges,
		"components", result.Summary.Components,
		"duration", result.Stats.ParseTime)

	// Stage 2: Solve
	solveStart := time.Now()
	seq, hit, err := r.SolveWithCacheInfo(ctx, g, result.GraphHash, opts)
	result.Sequence = seq
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheHit = hit
	if err != nil {
		return result, fmt.Errorf("solve: %w", err)
	}

	logger.Debug("solved",
		"width", seq.Width,
		"contractions", seq.Len(),
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Verify
	if opts.Verify {
		verifyStart := time.Now()
		if err := Verify(ctx, opts.Name, g, seq); err != nil {
			return result, fmt.Errorf("verify: %w", err)
		}
		result.Verified = true
		result.Stats.VerifyTime = time.Since(verifyStart)
	}

	return result, nil
}

// SolveWithCacheInfo returns the greedy sequence for g, loading it from the
// cache when possible. g itself is not modified. graphHash must be the
// [GraphHash] of g.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *redblack.Graph, graphHash string, opts Options) (*solver.Sequence, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.SolveKey(graphHash, opts.SolveKeyOpts())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if seq, ok := r.cachedSequence(ctx, cacheKey, g); ok {
			cacheHooks.OnCacheHit(ctx, keyTypeSolve)
			return seq, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeSolve)
	}

	seq, err := Solve(ctx, g.Clone(), opts)
	if err != nil {
		return seq, false, err
	}

	if data, err := json.Marshal(seq); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, keyTypeSolve, len(data))
		}
	}
	return seq, false, nil
}

// cachedSequence loads a sequence and rejects entries that cannot belong to
// g, such as a hash collision or an entry from an older format.
func (r *Runner) cachedSequence(ctx context.Context, key string, g *redblack.Graph) (*solver.Sequence, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var seq solver.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		r.Logger.Debug("dropping undecodable cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	if seq.Len() != max(g.Len()-1, 0) {
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return &seq, true
}

// Solve runs the greedy solver on g, which is consumed.
func Solve(ctx context.Context, g *redblack.Graph, opts Options) (*solver.Sequence, error) {
	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, opts.Name, g.Len())

	start := time.Now()
	seq, err := solver.New(opts.SolverOptions()).Solve(ctx, g)
	hooks.OnSolveComplete(ctx, opts.Name, seq.Width, seq.Len(), time.Since(start), err)
	return seq, err
}

// Verify replays seq on a clone of g and checks that every vertex but one is
// contracted and that the replayed width equals seq.Width.
func Verify(ctx context.Context, name string, g *redblack.Graph, seq *solver.Sequence) error {
	width, err := solver.Replay(g.Clone(), seq.Pairs())
	if err == nil && width != seq.Width {
		err = errors.New(errors.ErrCodeInvalidSequence, "declared width %d, replayed width %d", seq.Width, width)
	}
	observability.Pipeline().OnVerifyComplete(ctx, name, width, err)
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
