package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/pipeline"
	"github.com/matzehuels/extractgym/pkg/render"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	extractor string
	mode      string
	noCache   bool
	refresh   bool
	save      string // write the selection JSON here
	stats     bool   // print run statistics to stderr
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var o extractOpts

	cmd := &cobra.Command{
		Use:   "extract <egraph.json>",
		Short: "Extract a program from an e-graph and print it",
		Long: `Extract a program from a serialized e-graph and print it.

The extractor picks one node per reachable class. The selection is checked
for completeness, consistency and cycles before it is costed and printed.
The report ends with two lines:

  Tree cost: <cost of the program as a tree>
  DAG cost: <cost with shared sub-terms counted once>

Selections are cached per graph and extractor; use --refresh to recompute.`,
		Example: `  extractgym extract rewrites.json
  extractgym extract rewrites.json --extractor bottom-up --mode tree
  extractgym extract rewrites.json --save selection.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, o.extractor, o.mode)
			opts.Refresh = o.refresh
			return c.runExtract(cmd.Context(), args[0], opts, o)
		},
	}

	cmd.Flags().StringVar(&o.extractor, "extractor", pipeline.DefaultExtractor, "extractor: "+strings.Join(pipeline.Extractors(), ", "))
	cmd.Flags().StringVar(&o.mode, "mode", string(render.DefaultMode), "output mode: "+render.ModeNames())
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached selections")
	cmd.Flags().StringVar(&o.save, "save", "", "write the selection as JSON to this file")
	cmd.Flags().BoolVar(&o.stats, "stats", false, "print run statistics")

	_ = cmd.RegisterFlagCompletionFunc("extractor", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Extractors(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(render.Modes))
		for i, m := range render.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runExtract loads the graph, runs the pipeline and prints the report.
func (c *CLI) runExtract(ctx context.Context, input string, opts pipeline.Options, o extractOpts) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	g, err := c.loadGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, g, opts)
	if err != nil {
		return err
	}

	for _, line := range res.Report() {
		fmt.Fprintln(c.Out, line)
	}

	if o.stats {
		printStats(res)
	}
	if o.save != "" {
		if err := graphio.ExportSelection(res.Selection, o.save); err != nil {
			return err
		}
		printFile(o.save)
	}
	return nil
}
