package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/pipeline"
	"github.com/matzehuels/gtww/pkg/solver"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <graph.gr> <sequence.tww>",
		Short: "Check a contraction sequence against its graph",
		Long: `Replay a .tww contraction sequence on a .gr graph.

The sequence is valid when every pair names two distinct vertices still in
the graph, the graph ends with at most one vertex, and the largest red degree
seen during the replay equals the width on the "c tww:" line.

Sequences from any solver can be checked, not only those written by gtww.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runVerify(ctx context.Context, graphPath, seqPath string) error {
	for _, p := range []string{graphPath, seqPath} {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}

	g, err := gr.ReadFile(graphPath)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "graph %s", graphPath)
	}
	declared, err := readDeclared(seqPath)
	if err != nil {
		return err
	}

	seq := &solver.Sequence{Width: declared.Width, Contractions: make([]solver.Contraction, len(declared.Pairs))}
	for i, p := range declared.Pairs {
		seq.Contractions[i] = solver.Contraction{Pair: p}
	}

	name := filepath.Base(graphPath)
	c.Logger.Debug("verifying", "graph", name, "vertices", g.Len(), "contractions", seq.Len(), "width", seq.Width)
	if err := pipeline.Verify(ctx, name, g, seq); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(seqPath), err)
	}

	printSuccess("%s is valid for %s: width %s, %d contractions",
		filepath.Base(seqPath), name, StyleNumber.Render(fmt.Sprint(seq.Width)), seq.Len())
	return nil
}

func readDeclared(path string) (*gr.Declared, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "sequence file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return gr.ReadSequence(f)
}
