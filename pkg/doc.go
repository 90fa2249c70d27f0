// Package pkg provides the libraries behind gtww, a greedy twin-width
// contraction solver.
//
// # Overview
//
// gtww reads an undirected graph, contracts it to a single vertex by always
// merging the pair that creates the fewest red edges, and reports the
// contraction sequence with its width. The pkg directory is organized into
// three areas:
//
//  1. Algorithms: [redblack] (trigraph with black and red edges), [solver]
//     (greedy contraction loop) and [stats] (graph summaries)
//  2. Formats: [gr] (.gr graphs and .tww sequences) and [render/nodelink]
//     (Graphviz drawings)
//  3. Infrastructure: [pipeline] (parse → solve → verify), [cache], [store],
//     [config], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	.gr edge list
//	      ↓
//	 [gr] package (parse into a red-black graph)
//	      ↓
//	 [solver] package (greedy contractions, width)
//	      ↓
//	 [gr] package (write "c tww: <width>" and the pairs)
//
// [pipeline.Runner] wraps these stages with caching, verification and
// lifecycle hooks, and is shared by the CLI and the HTTP server.
//
// # Quick Start
//
//	g, err := gr.ReadFile("graph.gr")
//	if err != nil {
//	    return err
//	}
//	seq := solver.Greedy(g)
//	return gr.Write(os.Stdout, seq)
//
// [redblack]: github.com/matzehuels/gtww/pkg/redblack
// [solver]: github.com/matzehuels/gtww/pkg/solver
// [stats]: github.com/matzehuels/gtww/pkg/stats
// [gr]: github.com/matzehuels/gtww/pkg/gr
// [render/nodelink]: github.com/matzehuels/gtww/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/gtww/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/gtww/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/gtww/pkg/cache
// [store]: github.com/matzehuels/gtww/pkg/store
// [config]: github.com/matzehuels/gtww/pkg/config
// [observability]: github.com/matzehuels/gtww/pkg/observability
// [errors]: github.com/matzehuels/gtww/pkg/errors
// [buildinfo]: github.com/matzehuels/gtww/pkg/buildinfo
package pkg
