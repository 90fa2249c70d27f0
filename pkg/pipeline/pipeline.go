// Package pipeline runs the parse → solve → verify pipeline shared by the CLI
// (solve, batch) and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a .gr edge list into a red-black graph
//  2. Solve: run the greedy contraction policy, or load a cached sequence
//  3. Verify: optionally replay the sequence on a fresh copy of the graph
//     and check the recorded width
//
// Solved sequences are cached under the content hash of the canonical graph,
// so two files that differ only in edge order or comments share an entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:  "path.gr",
//	    Input: data,
//	})
//	if err != nil {
//	    return err
//	}
//	gr.Write(os.Stdout, result.Sequence)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
	"github.com/matzehuels/gtww/pkg/stats"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultName labels input that has no file name, such as stdin.
	DefaultName = "stdin"

	// DefaultMaxSteps leaves the greedy loop unbounded.
	DefaultMaxSteps = 0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Name identifies the graph in logs and result records.
	Name string `json:"name,omitempty"`

	// Input is the raw .gr text.
	Input []byte `json:"-"`

	// MaxSteps caps the number of contractions. Zero means no cap.
	MaxSteps int `json:"max_steps,omitempty"`

	// Verify replays the sequence after solving and checks the width.
	Verify bool `json:"verify,omitempty"`

	// Refresh ignores cached sequences and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger                           `json:"-"`
	OnStep func(step int, c solver.Contraction) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed graph. The solver works on a clone, so Graph still
	// holds every input vertex.
	Graph *redblack.Graph

	// Summary describes the input graph.
	Summary stats.Summary

	// GraphHash is the content hash of the canonical graph.
	GraphHash string

	// Sequence is the contraction sequence and its width.
	Sequence *solver.Sequence

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether Sequence came from the cache.
	CacheHit bool

	// Verified reports whether the sequence was replayed successfully.
	Verified bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ParseTime  time.Duration
	SolveTime  time.Duration
	VerifyTime time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.SolveTime + s.VerifyTime
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be >= 0, got %d", o.MaxSteps)
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SolveKeyOpts returns cache key options for the solve stage.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{MaxSteps: o.MaxSteps}
}

// SolverOptions returns the options for the greedy solver.
func (o *Options) SolverOptions() solver.Options {
	return solver.Options{MaxSteps: o.MaxSteps, OnStep: o.OnStep}
}
