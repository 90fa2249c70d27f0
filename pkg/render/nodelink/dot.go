package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

// Options configures graph rendering.
type Options struct {
	// Title is drawn above the graph when set.
	Title string
	// HideDegrees drops the red degree from vertex labels.
	HideDegrees bool
}

const (
	hotFill  = "#f4cccc"
	edgeRed  = "#cc0000"
	nodeFont = 14
)

// GraphToDOT converts g to Graphviz DOT source. Vertices and edges are written
// in ascending order so the output is stable.
func GraphToDOT(g *redblack.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n  overlap=false;\n  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=white, fontsize=%d];\n\n", nodeFont)

	maxRed := g.MaxRedDegree()
	for _, v := range g.Vertices() {
		attrs := vertexAttrs(g, v, maxRed, opts)
		fmt.Fprintf(&buf, "  %d [%s];\n", v, attrs)
	}

	buf.WriteString("\n")
	for _, u := range g.Vertices() {
		for _, v := range g.BlackNeighbors(u) {
			if u < v {
				fmt.Fprintf(&buf, "  %d -- %d;\n", u, v)
			}
		}
		for _, v := range g.RedNeighbors(u) {
			if u < v {
				fmt.Fprintf(&buf, "  %d -- %d [color=%q, style=dashed, penwidth=2];\n", u, v, edgeRed)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func vertexAttrs(g *redblack.Graph, v redblack.Vertex, maxRed int, opts Options) string {
	label := strconv.FormatUint(uint64(v), 10)
	if !opts.HideDegrees {
		label = fmt.Sprintf("%d\\nr=%d", v, g.RedDegree(v))
	}
	attrs := fmt.Sprintf("label=\"%s\"", label)
	if maxRed > 0 && g.RedDegree(v) == maxRed {
		attrs += fmt.Sprintf(", fillcolor=%q, color=%q", hotFill, edgeRed)
	}
	return attrs
}

// TreeToDOT converts a contraction sequence to a DOT digraph in which each
// merged vertex points at its survivor. Steps with the sequence's maximal
// red degree are highlighted.
func TreeToDOT(seq *solver.Sequence) string {
	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=\"width %d\";\n  labelloc=t;\n", seq.Width)
	fmt.Fprintf(&buf, "  node [shape=circle, fontsize=%d];\n\n", nodeFont)

	seen := make(map[redblack.Vertex]bool)
	for _, c := range seq.Contractions {
		for _, v := range []redblack.Vertex{c.Survivor, c.Merged} {
			if !seen[v] {
				seen[v] = true
				fmt.Fprintf(&buf, "  %d;\n", v)
			}
		}
	}

	buf.WriteString("\n")
	for i, c := range seq.Contractions {
		attrs := fmt.Sprintf("label=\"#%d r=%d\"", i+1, c.RedDegree)
		if seq.Width > 0 && c.RedDegree == seq.Width {
			attrs += fmt.Sprintf(", color=%q, fontcolor=%q", edgeRed, edgeRed)
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", c.Merged, c.Survivor, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG in-process using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders DOT source to a PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with one whose
// viewBox starts at the origin and whose size is unitless, so browsers scale
// the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
