// Package solver computes twin-width contraction sequences with a greedy,
// one-step-lookahead policy.
//
// # Algorithm
//
// While more than one vertex is left, the solver probes every unordered pair
// (u, v) with u < v using [redblack.Graph.CountMerge], commits the pair with
// the smallest projected red degree, and records it as (survivor, merged).
// The width of the sequence is the largest projected red degree committed.
//
// Available vertices are kept in an ordered set and enumerated in ascending
// label order, and the best pair is only replaced on a strictly smaller cost.
// Ties therefore go to the lexicographically smallest pair, so the output is
// the same on every run and platform.
//
// Each outer step costs O(n²) probes, so a full run is O(n³) to O(n⁴)
// depending on neighbourhood sizes.
//
// # Usage
//
//	seq := solver.Greedy(g) // g is consumed
//	fmt.Println(seq.Width)
//
// Use [Solver] with [Options] to bound the number of steps, observe progress,
// or cancel through a context:
//
//	s := solver.New(solver.Options{MaxSteps: 1000})
//	seq, err := s.Solve(ctx, g)
//
// [Replay] recomputes the width of a recorded sequence on a fresh graph.
package solver
