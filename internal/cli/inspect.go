package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache, static bool

	cmd := &cobra.Command{
		Use:   "inspect [graph.gr]",
		Short: "Step through a contraction sequence interactively",
		Long: `Solve a .gr graph and step through the greedy contractions one at a time.

Each step shows the pair that was merged, the red degree it caused and the
state of the remaining trigraph. When stdout is not a terminal, or with
--static, the full step table is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runInspect(cmd.Context(), path, noCache, static)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&static, "static", false, "print the step table and exit")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, noCache, static bool) error {
	if path == "" || path == "-" {
		// stdin carries the graph, so the program cannot read keys from it.
		static = true
	}

	name, input, err := c.readInput(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
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
		MaxSteps: c.Config.Solve.MaxSteps,
		Logger:   c.Logger,
		OnStep:   stepProgress(spinner, name),
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	model := NewStepperModel(name, res.Graph, res.Sequence)
	if static || !isTerminal(os.Stdout) {
		model.Height = max(res.Sequence.Len(), 1)
		model.moveTo(res.Sequence.Len())
		_, err := fmt.Fprint(c.out, model.View())
		return err
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run stepper: %w", err)
	}
	return nil
}
