package solver

import (
	"fmt"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/redblack"
)

// Pair is one contraction: Merged is folded into Survivor.
type Pair struct {
	Survivor redblack.Vertex `json:"survivor" bson:"survivor"`
	Merged   redblack.Vertex `json:"merged" bson:"merged"`
}

// String formats the pair the way .tww files do.
func (p Pair) String() string {
	return fmt.Sprintf("%d %d", p.Survivor, p.Merged)
}

// Contraction is a committed pair together with the red degree the survivor
// had right after the merge.
type Contraction struct {
	Pair      `bson:",inline"`
	RedDegree int `json:"red_degree" bson:"red_degree"`
}

// Sequence is a contraction sequence in commit order.
type Sequence struct {
	Contractions []Contraction `json:"contractions" bson:"contractions"`
	Width        int           `json:"width" bson:"width"`
}

// Len returns the number of contractions.
func (s *Sequence) Len() int { return len(s.Contractions) }

// Pairs returns the contraction pairs without their costs.
func (s *Sequence) Pairs() []Pair {
	out := make([]Pair, len(s.Contractions))
	for i, c := range s.Contractions {
		out[i] = c.Pair
	}
	return out
}

func (s *Sequence) push(c Contraction) {
	s.Contractions = append(s.Contractions, c)
	s.Width = max(s.Width, c.RedDegree)
}

// Replay applies pairs to g in order and returns the width they incur. g is
// consumed. The pairs must name present, distinct vertices and must reduce g
// to at most one vertex; otherwise an INVALID_SEQUENCE error is returned.
func Replay(g *redblack.Graph, pairs []Pair) (int, error) {
	width := 0
	for i, p := range pairs {
		if p.Survivor == p.Merged {
			return 0, errors.New(errors.ErrCodeInvalidSequence, "step %d: vertex %d merged into itself", i+1, p.Survivor)
		}
		for _, v := range []redblack.Vertex{p.Survivor, p.Merged} {
			if !g.Has(v) {
				return 0, errors.New(errors.ErrCodeInvalidSequence, "step %d: vertex %d is not in the graph", i+1, v)
			}
		}
		_, red := g.CountMerge(p.Survivor, p.Merged)
		g.Merge(p.Survivor, p.Merged)
		width = max(width, red)
	}
	if g.Len() > 1 {
		return 0, errors.New(errors.ErrCodeInvalidSequence, "sequence leaves %d vertices", g.Len())
	}
	return width, nil
}
