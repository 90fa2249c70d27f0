package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtww/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Run without a subcommand, gtww behaves like "gtww solve": it reads a graph
// on stdin and prints the contraction sequence on stdout.
func (c *CLI) RootCommand() *cobra.Command {
	solveFlags := &solveOpts{}

	root := &cobra.Command{
		Use:   appName,
		Short: "gtww computes greedy twin-width contraction sequences",
		Long: `gtww reads an undirected graph in .gr edge-list format and contracts it
to a single vertex, always merging the pair that produces the fewest red
edges. The resulting contraction sequence and its width are written in the
.tww format:

  c tww: 2
  1 2
  1 3
  ...

Run without a subcommand to read the graph from stdin.`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			solveFlags.applyConfig(cmd, c.Config)
			return c.runSolve(cmd.Context(), "", *solveFlags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gtww/config.toml)")
	solveFlags.register(root)

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
