package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/pipeline"
)

// comparison is the outcome of one extractor in a compare run.
type comparison struct {
	extractor string
	result    *pipeline.Result
	err       error
}

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		noCache  bool
		refresh  bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "compare <egraph.json>",
		Short: "Run every extractor and compare their costs",
		Long: `Run every built-in extractor on the same e-graph and print a table of
their tree cost, DAG cost and extraction time. The lowest DAG cost is
highlighted. An extractor that fails is reported in the table and does not
stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spin := newSpinner(ctx, fmt.Sprintf("Running %d extractors", len(pipeline.Extractors())))
			spin.Start()
			results, err := compareExtractors(ctx, runner, g, pipeline.Options{Refresh: refresh, Logger: c.Logger}, parallel)
			spin.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Out, comparisonTable(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached selections")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "maximum extractors run at once (0 = all)")

	return cmd
}

// compareExtractors runs every registered extractor on g. Per-extractor
// failures are recorded in the result; only cancellation aborts the run.
func compareExtractors(ctx context.Context, runner *pipeline.Runner, g *egraph.Graph, base pipeline.Options, parallel int) ([]comparison, error) {
	names := pipeline.Extractors()
	results := make([]comparison, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		eg.SetLimit(parallel)
	}
	for i, name := range names {
		eg.Go(func() error {
			opts := base
			opts.Extractor = name
			res, err := runner.Execute(egCtx, g, opts)
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			results[i] = comparison{extractor: name, result: res, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// comparisonTable renders results as a lipgloss table.
func comparisonTable(results []comparison) string {
	best := egraph.Infinity
	for _, r := range results {
		if r.err == nil && r.result.DagCost < best {
			best = r.result.DagCost
		}
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			rows = append(rows, []string{r.extractor, "-", "-", "-", "-", errors.UserMessage(r.err)})
			continue
		}
		source := iconFresh
		if r.result.CacheHit {
			source = iconCached
		}
		rows = append(rows, []string{
			r.extractor,
			egraph.FormatCost(r.result.TreeCost),
			egraph.FormatCost(r.result.DagCost),
			fmt.Sprint(r.result.Stats.SelectedClasses),
			r.result.Stats.ExtractTime.Round(time.Microsecond).String(),
			source,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Extractor", "Tree cost", "DAG cost", "Classes", "Time", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return base.Inherit(styleHeader)
			}
			r := results[row]
			switch {
			case r.err != nil && col == 5:
				return base.Inherit(StyleError)
			case r.err == nil && col == 2 && r.result.DagCost == best:
				return base.Inherit(StyleSuccess)
			case col == 1 || col == 2 || col == 3:
				return base.Inherit(StyleNumber).Align(lipgloss.Right)
			case col == 5 && r.result.CacheHit:
				return base.Inherit(styleCached)
			}
			return base
		}).
		String()
}
