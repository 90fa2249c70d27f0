package gr

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

const widthPrefix = "c tww: "

// Write emits seq in .tww format: the width line followed by one pair per
// line, survivor first.
func Write(w io.Writer, seq *solver.Sequence) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%d\n", widthPrefix, seq.Width)
	for _, c := range seq.Contractions {
		fmt.Fprintf(bw, "%d %d\n", c.Survivor, c.Merged)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	return nil
}

// WriteFile writes seq to a .tww file at path.
// The file is created with 0644 permissions.
func WriteFile(path string, seq *solver.Sequence) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, seq); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteGraph emits the black edges of g in .gr format, with a "p tww"
// header. Edges are written once, smaller label first, in ascending order.
// Vertices without black edges are written as "u u" so they survive a round
// trip through [Read]. Red edges are not part of the format and are dropped.
func WriteGraph(w io.Writer, g *redblack.Graph) error {
	black, _ := g.EdgeCount()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p tww %d %d\n", g.Len(), black)
	for _, u := range g.Vertices() {
		nbrs := g.BlackNeighbors(u)
		if len(nbrs) == 0 {
			fmt.Fprintf(bw, "%d %d\n", u, u)
			continue
		}
		for _, v := range nbrs {
			if u < v {
				fmt.Fprintf(bw, "%d %d\n", u, v)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}
