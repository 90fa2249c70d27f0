package redblack

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrAsymmetric is returned by [Graph.Validate] when u lists v as a
	// neighbour but v does not list u in the same colour.
	ErrAsymmetric = errors.New("asymmetric adjacency")

	// ErrBothColors is returned by [Graph.Validate] when a pair of vertices
	// is joined by a red and a black edge at the same time.
	ErrBothColors = errors.New("pair is both red and black")

	// ErrMissingRelation is returned by [Graph.Validate] when a vertex has an
	// entry in only one of the two relations.
	ErrMissingRelation = errors.New("vertex missing from a relation")

	// ErrSelfLoop is returned by [Graph.Validate] when a vertex is its own
	// neighbour.
	ErrSelfLoop = errors.New("self loop")
)

// Vertex is an opaque vertex label.
type Vertex uint32

type set map[Vertex]struct{}

func (s set) has(v Vertex) bool {
	_, ok := s[v]
	return ok
}

// Graph is a red-black graph. The zero value is not usable; create graphs
// with [New].
type Graph struct {
	black map[Vertex]set
	red   map[Vertex]set
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		black: make(map[Vertex]set),
		red:   make(map[Vertex]set),
	}
}

// AddVertex makes sure u exists in both relations. It is a no-op for an
// existing vertex.
func (g *Graph) AddVertex(u Vertex) {
	if _, ok := g.black[u]; !ok {
		g.black[u] = make(set)
	}
	if _, ok := g.red[u]; !ok {
		g.red[u] = make(set)
	}
}

// AddBlackEdge inserts the black edge u-v, creating missing endpoints.
// A red edge between the same pair is recoloured. For u == v only the vertex
// is created.
func (g *Graph) AddBlackEdge(u, v Vertex) {
	g.addEdge(g.black, g.red, u, v)
}

// AddRedEdge inserts the red edge u-v, creating missing endpoints.
// A black edge between the same pair is recoloured. For u == v only the
// vertex is created.
func (g *Graph) AddRedEdge(u, v Vertex) {
	g.addEdge(g.red, g.black, u, v)
}

func (g *Graph) addEdge(into, other map[Vertex]set, u, v Vertex) {
	g.AddVertex(u)
	g.AddVertex(v)
	if u == v {
		return
	}
	delete(other[u], v)
	delete(other[v], u)
	into[u][v] = struct{}{}
	into[v][u] = struct{}{}
}

// DeleteVertex removes u and every edge incident to it. It is a no-op when u
// is not in the graph.
func (g *Graph) DeleteVertex(u Vertex) {
	for _, rel := range []map[Vertex]set{g.black, g.red} {
		nbrs, ok := rel[u]
		if !ok {
			continue
		}
		for x := range nbrs {
			delete(rel[x], u)
		}
		delete(rel, u)
	}
}

// Has reports whether u is present in both relations.
func (g *Graph) Has(u Vertex) bool {
	_, b := g.black[u]
	_, r := g.red[u]
	return b && r
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.black) }

// Vertices returns all vertices in ascending order.
func (g *Graph) Vertices() []Vertex {
	return slices.Sorted(maps.Keys(g.black))
}

// BlackNeighbors returns the black neighbours of u in ascending order.
func (g *Graph) BlackNeighbors(u Vertex) []Vertex {
	return slices.Sorted(maps.Keys(g.black[u]))
}

// RedNeighbors returns the red neighbours of u in ascending order.
func (g *Graph) RedNeighbors(u Vertex) []Vertex {
	return slices.Sorted(maps.Keys(g.red[u]))
}

// IsBlack reports whether u-v is a black edge.
func (g *Graph) IsBlack(u, v Vertex) bool { return g.black[u].has(v) }

// IsRed reports whether u-v is a red edge.
func (g *Graph) IsRed(u, v Vertex) bool { return g.red[u].has(v) }

// RedDegree returns the number of red neighbours of u.
func (g *Graph) RedDegree(u Vertex) int { return len(g.red[u]) }

// MaxRedDegree returns the largest red degree over all vertices, or 0 for an
// empty graph.
func (g *Graph) MaxRedDegree() int {
	m := 0
	for _, nbrs := range g.red {
		m = max(m, len(nbrs))
	}
	return m
}

// EdgeCount returns the number of black and red edges.
func (g *Graph) EdgeCount() (black, red int) {
	for _, nbrs := range g.black {
		black += len(nbrs)
	}
	for _, nbrs := range g.red {
		red += len(nbrs)
	}
	return black / 2, red / 2
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New()
	for u, nbrs := range g.black {
		c.black[u] = maps.Clone(nbrs)
	}
	for u, nbrs := range g.red {
		c.red[u] = maps.Clone(nbrs)
	}
	return c
}

// CountMerge reports the effect of merging v into u without changing the
// graph. oldRed is the red degree of u now; newRed is the red degree u would
// have after [Graph.Merge](u, v).
//
// The new red neighbourhood is the union of two sets, both excluding u and v:
// the vertices black-adjacent to exactly one of u and v, and the vertices
// red-adjacent to either.
//
// CountMerge panics if u or v is not in the graph.
func (g *Graph) CountMerge(u, v Vertex) (oldRed, newRed int) {
	g.mustHave(u)
	g.mustHave(v)

	bu, bv := g.black[u], g.black[v]
	ru, rv := g.red[u], g.red[v]
	skip := func(x Vertex) bool { return x == u || x == v }
	disagree := func(x Vertex) bool { return bu.has(x) != bv.has(x) }

	n := 0
	for x := range bu {
		if !skip(x) && !bv.has(x) {
			n++
		}
	}
	for x := range bv {
		if !skip(x) && !bu.has(x) {
			n++
		}
	}
	for x := range ru {
		if !skip(x) && !disagree(x) {
			n++
		}
	}
	for x := range rv {
		if !skip(x) && !ru.has(x) && !disagree(x) {
			n++
		}
	}
	return len(ru), n
}

// Merge contracts v into u. Afterwards v no longer exists, u is
// black-adjacent to the black neighbours u and v had in common, and
// red-adjacent to the set described in [Graph.CountMerge].
//
// Merge panics if u or v is not in the graph, or if u == v.
func (g *Graph) Merge(u, v Vertex) {
	g.mustHave(u)
	g.mustHave(v)
	if u == v {
		panic(fmt.Sprintf("redblack: cannot merge vertex %d into itself", u))
	}

	bu, bv := g.black[u], g.black[v]
	newRed, newBlack := make(set), make(set)
	for x := range bu {
		if x == u || x == v {
			continue
		}
		if bv.has(x) {
			newBlack[x] = struct{}{}
		} else {
			newRed[x] = struct{}{}
		}
	}
	for x := range bv {
		if x != u && x != v && !bu.has(x) {
			newRed[x] = struct{}{}
		}
	}
	for _, nbrs := range []set{g.red[u], g.red[v]} {
		for x := range nbrs {
			if x != u && x != v {
				newRed[x] = struct{}{}
				delete(newBlack, x)
			}
		}
	}

	g.DeleteVertex(u)
	g.DeleteVertex(v)
	g.AddVertex(u)
	for x := range newRed {
		g.AddRedEdge(u, x)
	}
	for x := range newBlack {
		g.AddBlackEdge(u, x)
	}
}

// Validate checks the structural invariants of the graph: every vertex is in
// both relations, both relations are symmetric and free of self loops, and no
// pair is red and black at once.
func (g *Graph) Validate() error {
	if len(g.black) != len(g.red) {
		return fmt.Errorf("%w: %d black entries, %d red entries", ErrMissingRelation, len(g.black), len(g.red))
	}
	for _, u := range g.Vertices() {
		if _, ok := g.red[u]; !ok {
			return fmt.Errorf("%w: %d", ErrMissingRelation, u)
		}
		for _, rel := range []map[Vertex]set{g.black, g.red} {
			for x := range rel[u] {
				if x == u {
					return fmt.Errorf("%w: %d", ErrSelfLoop, u)
				}
				if !rel[x].has(u) {
					return fmt.Errorf("%w: %d-%d", ErrAsymmetric, u, x)
				}
			}
		}
		for x := range g.black[u] {
			if g.red[u].has(x) {
				return fmt.Errorf("%w: %d-%d", ErrBothColors, u, x)
			}
		}
	}
	return nil
}

func (g *Graph) mustHave(u Vertex) {
	if !g.Has(u) {
		panic(fmt.Sprintf("redblack: vertex %d not in graph", u))
	}
}
