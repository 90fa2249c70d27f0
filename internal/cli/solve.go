package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/config"
	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/pipeline"
	"github.com/matzehuels/gtww/pkg/solver"
)

// solveOpts holds the flags shared by the root command and "solve".
type solveOpts struct {
	output   string
	maxSteps int
	verify   bool
	noCache  bool
	refresh  bool
	json     bool
}

func (o *solveOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&o.maxSteps, "max-steps", pipeline.DefaultMaxSteps, "stop after this many contractions (0 = no limit)")
	cmd.Flags().BoolVar(&o.verify, "verify", false, "replay the sequence and check its width")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached sequences")
	cmd.Flags().BoolVar(&o.json, "json", false, "write a JSON report instead of .tww")
}

// applyConfig fills flags the user did not set from the config file.
func (o *solveOpts) applyConfig(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("max-steps") {
		o.maxSteps = cfg.Solve.MaxSteps
	}
	if !cmd.Flags().Changed("verify") {
		o.verify = cfg.Solve.Verify
	}
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := &solveOpts{}

	cmd := &cobra.Command{
		Use:   "solve [graph.gr]",
		Short: "Compute a greedy contraction sequence",
		Long: `Compute a greedy contraction sequence for a .gr graph.

The graph is read from the given file, or from stdin when no file (or "-")
is given. The sequence is written to stdout unless --output is set.

Sequences are cached by graph content, so solving the same graph again is
instant. Use --refresh to recompute or --no-cache to bypass the cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd, c.Config)
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runSolve(cmd.Context(), path, *opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// runSolve reads the graph at path (stdin when empty), solves it and writes
// the result.
func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts) error {
	name, input, err := c.readInput(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var spinner *Spinner
	if isTerminal(os.Stderr) {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", name))
		spinner.Start()
	}

	res, err := runner.Execute(ctx, pipeline.Options{
		Name:     name,
		Input:    input,
		MaxSteps: opts.maxSteps,
		Verify:   opts.verify,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
		OnStep:   stepProgress(spinner, name),
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	c.Logger.Debug("solved",
		"graph", name,
		"width", res.Sequence.Width,
		"contractions", res.Sequence.Len(),
		"cached", res.CacheHit,
		"took", res.Stats.Total())

	if opts.output == "" {
		return writeResult(c.out, name, res, opts.json)
	}

	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	if err := writeResult(f, name, res, opts.json); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Solved %s: width %s", name, StyleNumber.Render(fmt.Sprint(res.Sequence.Width)))
	printStats(res.Summary.Vertices, res.Summary.Edges, res.CacheHit)
	printFile(opts.output)
	if path != "" && path != "-" {
		printNextStep("Check it", fmt.Sprintf("%s verify %s %s", appName, path, opts.output))
	}
	return nil
}

// readInput returns the display name and content of the graph at path, or
// of stdin when path is empty or "-".
func (c *CLI) readInput(path string) (string, []byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return pipeline.DefaultName, data, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}

// jsonReport is the --json output.
type jsonReport struct {
	Name         string               `json:"name"`
	GraphHash    string               `json:"graph_hash"`
	Vertices     int                  `json:"vertices"`
	Edges        int                  `json:"edges"`
	Components   int                  `json:"components"`
	Width        int                  `json:"width"`
	Contractions []solver.Contraction `json:"contractions"`
	Cached       bool                 `json:"cached"`
	Verified     bool                 `json:"verified"`
	Seconds      float64              `json:"seconds"`
}

func writeResult(w io.Writer, name string, res *pipeline.Result, asJSON bool) error {
	if !asJSON {
		return gr.Write(w, res.Sequence)
	}
	contractions := res.Sequence.Contractions
	if contractions == nil {
		contractions = []solver.Contraction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Name:         name,
		GraphHash:    res.GraphHash,
		Vertices:     res.Summary.Vertices,
		Edges:        res.Summary.Edges,
		Components:   res.Summary.Components,
		Width:        res.Sequence.Width,
		Contractions: contractions,
		Cached:       res.CacheHit,
		Verified:     res.Verified,
		Seconds:      res.Stats.Total().Seconds(),
	})
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// elapsed formats a duration for tables.
func elapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}
