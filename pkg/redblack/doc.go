// Package redblack provides the red-black graph used to build twin-width
// contraction sequences.
//
// # Overview
//
// A red-black graph carries two parallel, symmetric adjacency relations over
// one vertex set:
//
//   - black edges are original graph edges. They survive a contraction only
//     when both merged vertices agreed on the neighbour.
//   - red edges are synthetic. A contraction adds a red edge to every
//     neighbour that told the two merged vertices apart.
//
// The red degree of a vertex (the size of its red neighbourhood) is the cost
// that a contraction sequence has to keep small; the maximum red degree seen
// over the whole sequence is its width.
//
// # Basic Usage
//
// Build a graph with [Graph.AddBlackEdge], probe a candidate contraction with
// [Graph.CountMerge] and commit it with [Graph.Merge]:
//
//	g := redblack.New()
//	g.AddBlackEdge(1, 2)
//	g.AddBlackEdge(2, 3)
//	_, cost := g.CountMerge(1, 3) // 0: both see only 2
//	g.Merge(1, 3)                 // 3 is gone, 1 keeps the black edge to 2
//
// # Invariants
//
// Every present vertex has an entry in both relations, both relations are
// symmetric, and a pair of vertices is never red and black at the same time.
// [Graph.Validate] checks all three.
//
// Vertex labels are stable handles: a merge removes the second label and
// rewires the first one in place, so no index or arena is needed.
//
// # Contract violations
//
// [Graph.CountMerge] and [Graph.Merge] panic when called with a vertex that is
// not in the graph. Callers that enumerate [Graph.Vertices] never hit this.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. [Graph.CountMerge] does not mutate
// and may run concurrently with other readers as long as no writer is active.
package redblack
