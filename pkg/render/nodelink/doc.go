// Package nodelink draws red-black graphs and contraction trees with Graphviz.
//
// # Graphs
//
// [GraphToDOT] emits an undirected DOT graph. Black edges are drawn solid,
// red edges dashed and red. Each vertex label carries its red degree, and the
// vertices with the largest red degree are filled, so the width bottleneck of
// a partial contraction is visible at a glance.
//
//	g, _ := gr.ReadFile("path.gr")
//	dot := nodelink.GraphToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Contraction Trees
//
// [TreeToDOT] draws a contraction sequence as a forest: every merged vertex
// points to the vertex that absorbed it, and the edge label shows the step
// number and the red degree the step produced.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and PNG
// rendering; no Graphviz installation is required.
package nodelink
