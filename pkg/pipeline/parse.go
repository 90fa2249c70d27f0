package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/gtww/pkg/cache"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/observability"
	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/stats"
)

// Parse reads the .gr input of opts into a graph.
func Parse(ctx context.Context, opts Options) (*redblack.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Name)

	start := time.Now()
	g, err := gr.Read(bytes.NewReader(opts.Input))
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	black, _ := g.EdgeCount()
	hooks.OnParseComplete(ctx, opts.Name, g.Len(), black, time.Since(start), nil)
	return g, nil
}

// GraphHash returns the content hash of g's canonical .gr rendering.
func GraphHash(g *redblack.Graph) (string, error) {
	var buf bytes.Buffer
	if err := gr.WriteGraph(&buf, g); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Describe summarises g for logs and result records.
func Describe(g *redblack.Graph) stats.Summary {
	return stats.Summarize(g)
}
