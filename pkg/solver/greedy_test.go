package solver

import (
	"context"
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/redblack"
)

func fromEdges(edges ...[2]redblack.Vertex) *redblack.Graph {
	g := redblack.New()
	for _, e := range edges {
		g.AddBlackEdge(e[0], e[1])
	}
	return g
}

func randomGraph(r *rand.Rand, n int, p float64) *redblack.Graph {
	g := redblack.New()
	for u := 1; u <= n; u++ {
		g.AddVertex(redblack.Vertex(u))
		for v := u + 1; v <= n; v++ {
			if r.Float64() < p {
				g.AddBlackEdge(redblack.Vertex(u), redblack.Vertex(v))
			}
		}
	}
	return g
}

func TestGreedyScenarios(t *testing.T) {
	tests := []struct {
		name      string
		graph     *redblack.Graph
		wantPairs []Pair
		wantWidth int
	}{
		{
			name:      "empty graph",
			graph:     redblack.New(),
			wantPairs: []Pair{},
			wantWidth: 0,
		},
		{
			name: "single vertex",
			graph: func() *redblack.Graph {
				g := redblack.New()
				g.AddVertex(5)
				return g
			}(),
			wantPairs: []Pair{},
			wantWidth: 0,
		},
		{
			name:      "single edge",
			graph:     fromEdges([2]redblack.Vertex{1, 2}),
			wantPairs: []Pair{{1, 2}},
			wantWidth: 0,
		},
		{
			name:      "triangle",
			graph:     fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{1, 3}),
			wantPairs: []Pair{{1, 2}, {1, 3}},
			wantWidth: 0,
		},
		{
			name:      "disjoint edges",
			graph:     fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{3, 4}),
			wantPairs: []Pair{{1, 2}, {3, 4}, {1, 3}},
			wantWidth: 0,
		},
		{
			name:      "path of four",
			graph:     fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{3, 4}),
			wantPairs: []Pair{{1, 2}, {1, 3}, {1, 4}},
			wantWidth: 1,
		},
		{
			name:      "star merges leaves first",
			graph:     fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{1, 3}, [2]redblack.Vertex{1, 4}),
			wantPairs: []Pair{{2, 3}, {2, 4}, {1, 2}},
			wantWidth: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := Greedy(tt.graph)
			assert.Equal(t, tt.wantPairs, seq.Pairs())
			assert.Equal(t, tt.wantWidth, seq.Width)
			assert.LessOrEqual(t, tt.graph.Len(), 1)
		})
	}
}

func TestBestPairFirstMinimumWins(t *testing.T) {
	tests := []struct {
		name string
		g    *redblack.Graph
		want Pair
		cost int
	}{
		// (1,4) and (2,3) both cost 0; (1,4) comes first in (u, v) order.
		{"first zero-cost pair", fromEdges([2]redblack.Vertex{1, 4}, [2]redblack.Vertex{2, 3}), Pair{1, 4}, 0},
		// the cheapest pairs on a path of four cost 1; the scan keeps (1,2).
		{"tie above zero", fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{3, 4}), Pair{1, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestPair(tt.g, tt.g.Vertices())
			assert.Equal(t, tt.want, got.Pair)
			assert.Equal(t, tt.cost, got.RedDegree)

			// the early exit picks what an exhaustive strict-< scan picks
			vs := tt.g.Vertices()
			full := Contraction{RedDegree: -1}
			for i, u := range vs {
				for _, v := range vs[i+1:] {
					if _, red := tt.g.CountMerge(u, v); full.RedDegree < 0 || red < full.RedDegree {
						full = Contraction{Pair: Pair{u, v}, RedDegree: red}
					}
				}
			}
			assert.Equal(t, full, got)
		})
	}
}

func TestGreedyPathCosts(t *testing.T) {
	g := fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{3, 4})
	seq := Greedy(g)

	costs := make([]int, 0, seq.Len())
	for _, c := range seq.Contractions {
		costs = append(costs, c.RedDegree)
	}
	assert.Equal(t, []int{1, 1, 0}, costs)
}

func TestGreedyCliqueHasWidthZero(t *testing.T) {
	g := redblack.New()
	for u := redblack.Vertex(1); u <= 6; u++ {
		for v := u + 1; v <= 6; v++ {
			g.AddBlackEdge(u, v)
		}
	}
	seq := Greedy(g)
	assert.Equal(t, 5, seq.Len())
	assert.Equal(t, 0, seq.Width)
}

func TestGreedyProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 30; round++ {
		n := 2 + r.Intn(14)
		g := randomGraph(r, n, r.Float64())
		original := g.Clone()
		labels := g.Vertices()

		var observed []int
		s := New(Options{OnStep: func(step int, c Contraction) {
			require.Equal(t, len(observed)+1, step)
			observed = append(observed, c.RedDegree)
			require.NoError(t, g.Validate())
			require.Equal(t, c.RedDegree, g.RedDegree(c.Survivor))
		}})
		seq, err := s.Solve(context.Background(), g)
		require.NoError(t, err)

		// Vertex conservation.
		require.Equal(t, n-1, seq.Len())
		seen := map[redblack.Vertex]bool{}
		for _, p := range seq.Pairs() {
			seen[p.Survivor] = true
			seen[p.Merged] = true
		}
		for _, v := range labels {
			assert.True(t, seen[v], "label %d missing from sequence", v)
		}

		// The width is the largest committed cost and replays identically.
		maxCost := 0
		for _, c := range observed {
			maxCost = max(maxCost, c)
		}
		assert.Equal(t, maxCost, seq.Width)

		width, err := Replay(original, seq.Pairs())
		require.NoError(t, err)
		assert.Equal(t, seq.Width, width)
	}
}

func TestGreedyIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	g := randomGraph(r, 20, 0.3)

	first := Greedy(g.Clone())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Greedy(g.Clone()))
	}
}

func TestSolveStepLimit(t *testing.T) {
	g := fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{3, 4})
	seq, err := New(Options{MaxSteps: 2}).Solve(context.Background(), g)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrStepLimit))
	assert.True(t, errors.Is(err, errors.ErrCodeStepLimit))
	assert.Equal(t, []Pair{{1, 2}, {1, 3}}, seq.Pairs())
	assert.Equal(t, 2, g.Len())
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3})
	seq, err := New(Options{}).Solve(ctx, g)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout))
	assert.Zero(t, seq.Len())
}

func TestReplay(t *testing.T) {
	build := func() *redblack.Graph {
		return fromEdges([2]redblack.Vertex{1, 2}, [2]redblack.Vertex{2, 3}, [2]redblack.Vertex{3, 4})
	}

	tests := []struct {
		name      string
		pairs     []Pair
		wantWidth int
		wantErr   bool
	}{
		{"greedy order", []Pair{{1, 2}, {1, 3}, {1, 4}}, 1, false},
		{"endpoints first", []Pair{{1, 4}, {1, 2}, {1, 3}}, 2, false},
		{"unknown vertex", []Pair{{1, 9}}, 0, true},
		{"merged twice", []Pair{{1, 2}, {3, 2}}, 0, true},
		{"self merge", []Pair{{1, 1}}, 0, true},
		{"incomplete", []Pair{{1, 2}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, err := Replay(build(), tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidSequence))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, width)
		})
	}
}
