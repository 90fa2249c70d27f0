// Package stats summarises the shape of an input graph before it is solved.
//
// The summary is logged by the pipeline and returned by the API so that
// widths can be read next to the size and connectivity of the instance.
package stats

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/gtww/pkg/redblack"
)

// Summary describes the black structure of a graph.
type Summary struct {
	Vertices   int     `json:"vertices" bson:"vertices"`
	Edges      int     `json:"edges" bson:"edges"`
	Components int     `json:"components" bson:"components"`
	Isolated   int     `json:"isolated" bson:"isolated"`
	MaxDegree  int     `json:"max_degree" bson:"max_degree"`
	MeanDegree float64 `json:"mean_degree" bson:"mean_degree"`
}

// Summarize computes a [Summary] of the black edges of g. g is not modified.
func Summarize(g *redblack.Graph) Summary {
	ug := simple.NewUndirectedGraph()
	for _, u := range g.Vertices() {
		ug.AddNode(simple.Node(int64(u)))
	}
	for _, u := range g.Vertices() {
		for _, v := range g.BlackNeighbors(u) {
			if u < v {
				ug.SetEdge(simple.Edge{F: simple.Node(int64(u)), T: simple.Node(int64(v))})
			}
		}
	}

	s := Summary{
		Vertices:   g.Len(),
		Edges:      ug.Edges().Len(),
		Components: len(topo.ConnectedComponents(ug)),
	}
	for _, u := range g.Vertices() {
		d := ug.From(int64(u)).Len()
		if d == 0 {
			s.Isolated++
		}
		s.MaxDegree = max(s.MaxDegree, d)
	}
	if s.Vertices > 0 {
		s.MeanDegree = 2 * float64(s.Edges) / float64(s.Vertices)
	}
	return s
}
