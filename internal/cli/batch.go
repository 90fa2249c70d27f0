package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/pipeline"
	"github.com/matzehuels/gtww/pkg/store"
)

// batchOpts holds the flags of the batch command.
type batchOpts struct {
	solveOpts
	jobs  int
	store bool
	quiet bool
}

// batchResult is the outcome of one graph file.
type batchResult struct {
	name     string
	vertices int
	edges    int
	width    int
	cached   bool
	duration time.Duration
	err      error
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	opts := &batchOpts{jobs: 1}

	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Solve every .gr file in a directory",
		Long: `Solve every .gr file in input-dir.

For each <name>.gr the sequence is written to <output-dir>/<name>.gr.tww.
When a graph produces warnings or fails, the diagnostics are written to
<output-dir>/<name>.gr.log instead of aborting the run.

With --store, a record of every solved graph is saved to the result store
configured under [store] (MongoDB), for later comparison.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd, c.Config)
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1")
			}
			return c.runBatch(cmd.Context(), args[0], args[1], *opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", pipeline.DefaultMaxSteps, "stop after this many contractions per graph (0 = no limit)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "replay every sequence and check its width")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached sequences")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "graphs solved in parallel")
	cmd.Flags().BoolVar(&opts.store, "store", false, "save a record of every run to the result store")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the summary line")

	return cmd
}

// runBatch solves all graphs in inDir and writes results to outDir.
func (c *CLI) runBatch(ctx context.Context, inDir, outDir string, opts batchOpts) error {
	for _, p := range []string{inDir, outDir} {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}
	files, err := graphFiles(inDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printWarning("No %s files in %s", graphExt, inDir)
		return nil
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store
	if opts.store {
		if st, err = c.openStore(ctx); err != nil {
			return err
		}
		defer st.Close(context.Background())
	}

	prog := newProgress(c.Logger)
	results := make([]batchResult, len(files))

	var spinner *Spinner
	if isTerminal(os.Stderr) && !opts.quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d graphs...", len(files)))
		spinner.Start()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	sem := make(chan struct{}, opts.jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = c.solveOne(ctx, runner, st, path, outDir, opts)

			mu.Lock()
			done++
			if spinner != nil {
				spinner.SetMessage(fmt.Sprintf("Solved %d/%d graphs...", done, len(files)))
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if spinner != nil {
		spinner.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	if !opts.quiet {
		fmt.Fprintln(uiOut, batchTable(results))
		for _, r := range results {
			if r.err != nil {
				printError("%s: %s", r.name, errors.UserMessage(r.err))
			}
		}
	}
	prog.done("batch finished", "graphs", len(files), "failed", failed, "out", outDir)

	if failed > 0 {
		printWarning("%d of %d graphs failed, see the .log files in %s", failed, len(files), outDir)
		return fmt.Errorf("%d graphs failed", failed)
	}
	printSuccess("Solved %d graphs, width %s", len(files), summarizeWidths(results))
	return nil
}

// solveOne solves a single file. Diagnostics at warning level and above are
// captured and written to <name>.log.
func (c *CLI) solveOne(ctx context.Context, runner *pipeline.Runner, st store.Store, path, outDir string, opts batchOpts) batchResult {
	name := filepath.Base(path)
	res := batchResult{name: name}
	base := filepath.Join(outDir, name)

	var diag bytes.Buffer
	logger := log.NewWithOptions(&diag, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.WarnLevel,
		Prefix:          name,
	})

	defer func() {
		if res.err != nil {
			logger.Error("solve failed", "error", res.err)
		}
		if diag.Len() > 0 {
			if err := os.WriteFile(base+".log", diag.Bytes(), 0644); err != nil {
				loggerFromContext(ctx).Warn("cannot write log", "file", base+".log", "error", err)
			}
		}
	}()

	input, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}

	out, err := runner.Execute(ctx, pipeline.Options{
		Name:     name,
		Input:    input,
		MaxSteps: opts.maxSteps,
		Verify:   opts.verify,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		res.err = err
		return res
	}
	res.vertices = out.Summary.Vertices
	res.edges = out.Summary.Edges
	res.width = out.Sequence.Width
	res.cached = out.CacheHit
	res.duration = out.Stats.Total()

	if err := gr.WriteFile(base+sequenceExt, out.Sequence); err != nil {
		res.err = err
		return res
	}

	if st != nil {
		rec := &store.Record{
			Name:         name,
			GraphHash:    out.GraphHash,
			Vertices:     res.vertices,
			Edges:        res.edges,
			Width:        res.width,
			Contractions: out.Sequence.Len(),
			Duration:     res.duration,
			CacheHit:     res.cached,
		}
		if err := st.Save(ctx, rec); err != nil {
			logger.Warn("saving record failed", "error", err)
		}
	}
	return res
}

// graphFiles lists the .gr files directly inside dir, sorted by name.
func graphFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input directory %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && gr.IsGraphFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// batchTable renders the per-graph results.
func batchTable(results []batchResult) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(results))
	for i, r := range results {
		status := iconFresh
		if r.cached {
			status = iconCached
		}
		width := fmt.Sprint(r.width)
		if r.err != nil {
			status = "failed"
			width = "-"
		}
		rows[i] = []string{r.name, fmt.Sprint(r.vertices), fmt.Sprint(r.edges), width, elapsed(r.duration), status}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Graph", "Vertices", "Edges", "Width", "Time", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(results) {
				return base
			}
			r := results[row]
			switch {
			case r.err != nil:
				return base.Foreground(colorRed)
			case col == 3:
				return base.Foreground(colorCyan)
			case col == 5 && r.cached:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

// summarizeWidths returns "min..max" over the successful results.
func summarizeWidths(results []batchResult) string {
	var widths []int
	for _, r := range results {
		if r.err == nil {
			widths = append(widths, r.width)
		}
	}
	if len(widths) == 0 {
		return "-"
	}
	lo, hi := slices.Min(widths), slices.Max(widths)
	if lo == hi {
		return fmt.Sprint(lo)
	}
	return strings.Join([]string{fmt.Sprint(lo), fmt.Sprint(hi)}, "..")
}
