// Package render groups the drawing backends for gtww.
//
// Only one backend exists today: [nodelink] draws red-black graphs and
// contraction trees as Graphviz node-link diagrams, as DOT source, SVG or PNG.
//
//	dot := nodelink.GraphToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Most callers go through [pipeline.Render], which applies a prefix of a
// contraction sequence before drawing.
//
// [nodelink]: github.com/matzehuels/gtww/pkg/render/nodelink
// [pipeline.Render]: github.com/matzehuels/gtww/pkg/pipeline#Render
package render
