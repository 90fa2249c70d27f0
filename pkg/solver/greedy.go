package solver

import (
	"cmp"
	"context"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/redblack"
)

// ErrStepLimit is returned by [Solver.Solve] when [Options.MaxSteps]
// contractions were committed and more than one vertex is left.
var ErrStepLimit = errors.New(errors.ErrCodeStepLimit, "step limit reached")

// Options configures a [Solver].
type Options struct {
	// MaxSteps caps the number of contractions. Zero means no cap.
	MaxSteps int

	// OnStep is called after every committed contraction with its 1-based
	// step number. It must not modify the graph.
	OnStep func(step int, c Contraction)
}

// Solver runs the greedy contraction loop.
type Solver struct {
	opts Options
}

// New returns a solver with the given options.
func New(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Greedy runs the greedy policy to completion on g and returns the full
// sequence. g is consumed: on return it holds at most one vertex.
func Greedy(g *redblack.Graph) *Sequence {
	seq, _ := New(Options{}).Solve(context.Background(), g)
	return seq
}

// Solve runs the greedy policy on g until one vertex is left. g is consumed.
//
// The context is checked before every step; on cancellation Solve returns the
// contractions committed so far together with a TIMEOUT error wrapping
// ctx.Err(). When [Options.MaxSteps] is hit it returns the partial sequence
// and an error matching [ErrStepLimit].
func (s *Solver) Solve(ctx context.Context, g *redblack.Graph) (*Sequence, error) {
	available := treeset.NewWith(vertexComparator)
	for _, v := range g.Vertices() {
		available.Add(v)
	}

	seq := &Sequence{Contractions: make([]Contraction, 0, max(available.Size()-1, 0))}
	for available.Size() > 1 {
		if err := ctx.Err(); err != nil {
			return seq, errors.Wrap(errors.ErrCodeTimeout, err, "stopped after %d steps", seq.Len())
		}
		if s.opts.MaxSteps > 0 && seq.Len() >= s.opts.MaxSteps {
			return seq, fmt.Errorf("%w: %d steps, %d vertices left", ErrStepLimit, seq.Len(), available.Size())
		}

		best := bestPair(g, vertices(available))
		g.Merge(best.Survivor, best.Merged)
		available.Remove(best.Merged)
		seq.push(best)

		if s.opts.OnStep != nil {
			s.opts.OnStep(seq.Len(), best)
		}
	}
	return seq, nil
}

// bestPair probes every pair vs[i], vs[j] with i < j and returns the first
// one with the smallest projected red degree. vs must be ascending.
func bestPair(g *redblack.Graph, vs []redblack.Vertex) Contraction {
	best := Contraction{RedDegree: -1}
	for i, u := range vs {
		for _, v := range vs[i+1:] {
			_, red := g.CountMerge(u, v)
			if best.RedDegree < 0 || red < best.RedDegree {
				best = Contraction{Pair: Pair{Survivor: u, Merged: v}, RedDegree: red}
				// No later pair can be strictly below zero, so the first
				// zero-cost pair is already the one the full scan would keep.
				if red == 0 {
					return best
				}
			}
		}
	}
	return best
}

func vertices(s *treeset.Set) []redblack.Vertex {
	out := make([]redblack.Vertex, 0, s.Size())
	it := s.Iterator()
	for it.Next() {
		out = append(out, it.Value().(redblack.Vertex))
	}
	return out
}

func vertexComparator(a, b interface{}) int {
	return cmp.Compare(a.(redblack.Vertex), b.(redblack.Vertex))
}
