package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// dotCommand creates the dot command for drawing the selected DAG.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		extractor string
		format    string
		output    string
		detailed  bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "dot <egraph.json>",
		Short: "Draw the extracted program as a Graphviz diagram",
		Long: `Draw the extracted program as a node-link diagram.

Each selected class becomes one node, so shared sub-terms appear once. Root
classes are drawn with a thick border and variables are filled. The DOT
source is printed unless --format svg is given, in which case Graphviz
renders the diagram in-process.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
			}

			ctx := cmd.Context()
			opts := c.pipelineOptions(cmd, extractor, "")
			if err := opts.ValidateForExtract(); err != nil {
				return err
			}

			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			sel, err := runner.Extract(ctx, g, opts)
			if err != nil {
				return err
			}

			out := []byte(nodelink.ToDOT(g, sel, g.Roots(), nodelink.Options{Detailed: detailed}))
			if format == formatSVG {
				if out, err = nodelink.RenderSVG(ctx, string(out)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err = c.Out.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&extractor, "extractor", "", "extractor (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with class, node ID and cost")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
