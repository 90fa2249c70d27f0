package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string
	format  string
	steps   int
	tree    bool
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{format: pipeline.FormatSVG, steps: -1}

	cmd := &cobra.Command{
		Use:   "render [graph.gr]",
		Short: "Draw a graph or its contraction tree with Graphviz",
		Long: `Solve a .gr graph and draw it with Graphviz.

By default the trigraph left after the whole sequence is drawn. --steps N
draws it after the first N contractions instead, with red edges dashed and
the vertices of largest red degree highlighted. --tree draws the contraction
tree: an edge from every merged vertex to its survivor, labeled with the step
and the red degree it caused.

Output is SVG unless --format selects dot or png. Without --output, the
result is written next to the input as <graph>.svg (or .dot, .png), or to
stdout when the graph came from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), path, *opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "contractions applied before drawing (-1 = all)")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "draw the contraction tree")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	opts.format = strings.ToLower(opts.format)
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "render")
	}

	name, input, err := c.readInput(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Name:     name,
		Input:    input,
		MaxSteps: c.Config.Solve.MaxSteps,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	data, err := pipeline.Render(ctx, res.Graph, res.Sequence, pipeline.RenderOptions{
		Steps:  opts.steps,
		Tree:   opts.tree,
		Format: opts.format,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	prog.done("rendered", "graph", name, "format", opts.format, "bytes", len(data))

	out := opts.output
	if out == "" && path != "" && path != "-" {
		out = strings.TrimSuffix(path, graphExt) + "." + opts.format
	}
	if out == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := errors.ValidatePath(out); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered %s: width %s", name, StyleNumber.Render(fmt.Sprint(res.Sequence.Width)))
	printStats(res.Summary.Vertices, res.Summary.Edges, res.CacheHit)
	printFile(out)
	return nil
}
