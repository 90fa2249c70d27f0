package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/render/nodelink"
	"github.com/matzehuels/gtww/pkg/solver"
)

// Format constants for rendered output.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// RenderOptions selects what to draw.
type RenderOptions struct {
	// Steps is the number of contractions applied before drawing the graph.
	// Negative values apply the whole sequence.
	Steps int
	// Tree draws the contraction tree instead of the graph.
	Tree bool
	// Format is one of [ValidFormats]. Empty means FormatSVG.
	Format string
}

// Render draws g after the first opts.Steps contractions of seq, or the
// contraction tree of seq. g is not modified.
func Render(ctx context.Context, g *redblack.Graph, seq *solver.Sequence, opts RenderOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	var dot string
	if opts.Tree {
		dot = nodelink.TreeToDOT(seq)
	} else {
		steps := opts.Steps
		if steps < 0 || steps > seq.Len() {
			steps = seq.Len()
		}
		work := g.Clone()
		for _, c := range seq.Contractions[:steps] {
			work.Merge(c.Survivor, c.Merged)
		}
		dot = nodelink.GraphToDOT(work, nodelink.Options{
			Title: fmt.Sprintf("after %d of %d contractions, max red degree %d", steps, seq.Len(), work.MaxRedDegree()),
		})
	}

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	}
	return nodelink.RenderSVG(ctx, dot)
}
