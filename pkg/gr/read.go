package gr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

// Ext is the file extension of .gr graphs.
const Ext = ".gr"

// IsGraphFile reports whether name is a plain, non-hidden file name ending in
// [Ext].
func IsGraphFile(name string) bool {
	return strings.HasSuffix(name, Ext) && errors.ValidateFilename(name) == nil
}

// maxLineSize bounds a single input line. Edge lines are short; the limit only
// matters for pathological input.
const maxLineSize = 1 << 20

// Read parses a .gr edge list from r into a red-black graph with black edges
// only. Read does not close r.
func Read(r io.Reader) (*redblack.Graph, error) {
	g := redblack.New()
	err := scanLines(r, func(n int, fields []string) error {
		if len(fields) < 2 {
			return errors.New(errors.ErrCodeInvalidInput, "line %d: expected two vertices, got %d field(s)", n, len(fields))
		}
		u, err := parseVertex(n, fields[0])
		if err != nil {
			return err
		}
		v, err := parseVertex(n, fields[1])
		if err != nil {
			return err
		}
		g.AddBlackEdge(u, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ReadFile opens the .gr file at path and parses it with [Read].
func ReadFile(path string) (*redblack.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Declared is a contraction sequence as written in a .tww file.
type Declared struct {
	Width int
	Pairs []solver.Pair
}

// ReadSequence parses a .tww sequence from r. The "c tww: <width>" line is
// required; other comment lines are skipped.
func ReadSequence(r io.Reader) (*Declared, error) {
	d := &Declared{Width: -1}
	err := scanLines(r, func(n int, fields []string) error {
		if len(fields) < 2 {
			return errors.New(errors.ErrCodeInvalidSequence, "line %d: expected two vertices, got %d field(s)", n, len(fields))
		}
		u, err := parseVertex(n, fields[0])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSequence, err, "line %d", n)
		}
		v, err := parseVertex(n, fields[1])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSequence, err, "line %d", n)
		}
		d.Pairs = append(d.Pairs, solver.Pair{Survivor: u, Merged: v})
		return nil
	}, func(n int, line string) error {
		rest, ok := strings.CutPrefix(line, widthPrefix)
		if !ok {
			return nil
		}
		w, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || w < 0 {
			return errors.New(errors.ErrCodeInvalidSequence, "line %d: invalid width %q", n, strings.TrimSpace(rest))
		}
		d.Width = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	if d.Width < 0 {
		return nil, errors.New(errors.ErrCodeInvalidSequence, "missing %q line", strings.TrimSpace(widthPrefix))
	}
	return d, nil
}

// scanLines calls data for every record line and, when given, comment for
// every "c" or "p" line. A blank line is a record line with no fields. Line
// numbers are 1-based.
func scanLines(r io.Reader, data func(n int, fields []string) error, comment ...func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line != "" && (line[0] == 'c' || line[0] == 'p') {
			for _, fn := range comment {
				if err := fn(n, line); err != nil {
					return err
				}
			}
			continue
		}
		if err := data(n, strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read line %d", n+1)
	}
	return nil
}

func parseVertex(line int, field string) (redblack.Vertex, error) {
	x, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: invalid vertex %q", line, field)
	}
	return redblack.Vertex(x), nil
}
