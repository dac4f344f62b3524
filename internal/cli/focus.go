package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/source/local"
)

// focusCommand creates the focus command for node-centered layouts.
func (c *CLI) focusCommand() *cobra.Command {
	var (
		output     string
		node       string
		layoutPath string
	)
	opts := layout.FocusOptions{}

	cmd := &cobra.Command{
		Use:   "focus <graph-file>",
		Short: "Rebuild a layout around a single node",
		Long: `Rebuild a layout around a single node.

The focus command pins the chosen node to the viewport center, rings its
neighbors around it, and settles the remaining nodes in the background.
When a prior layout exists (computed by 'layout') it seeds the background
positions so unrelated nodes keep their place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFocus(cmd.Context(), args[0], node, layoutPath, output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.focus.json)")
	cmd.Flags().StringVarP(&node, "node", "n", "", "node id to focus on (required)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "prior layout to seed from (default: <input>.layout.json if present)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width (0 uses the engine default)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height (0 uses the engine default)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "scatter seed for background nodes without a prior position")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

// runFocus loads the graph and optional prior layout, focuses the node, and writes output.
func (c *CLI) runFocus(ctx context.Context, input, node, layoutPath, output string, opts layout.FocusOptions) error {
	prog := newProgress(c.Logger)

	res, err := local.ReadFile(input)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		printWarning("Skipped %d malformed records", res.Skipped)
	}

	g := layout.Filter(res.Graph, c.Config.Limits.MaxNodes, c.Config.Limits.MaxEdges)
	if !graph.NewIndex(g).HasNode(node) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q is not in the graph", node)
	}

	current, err := priorLayout(input, layoutPath)
	if err != nil {
		return err
	}

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Focusing on %s...", node))
	sp.Start()

	l, err := c.focusLayout(ctx, g, node, current, opts)
	if err != nil {
		sp.StopWithError("Focus failed")
		return err
	}
	sp.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outPath := outputPath(input, output, ".focus.json")
	if err := layout.WriteLayoutFile(*l, outPath); err != nil {
		return err
	}
	prog.done("Wrote " + outPath)

	printSuccess("Focused on %s", node)
	printFile(outPath)
	printStats(len(g.Nodes), len(g.Edges), false)

	return nil
}

// priorLayout loads the layout to seed from. An explicit path must load;
// the derived default is used only when the file exists.
func priorLayout(input, layoutPath string) (*layout.Layout, error) {
	if layoutPath == "" {
		layoutPath = outputPath(input, "", ".layout.json")
		if _, err := os.Stat(layoutPath); err != nil {
			return nil, nil
		}
	}
	l, err := layout.ReadLayoutFile(layoutPath)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// focusLayout runs the focus pass on the engine, draining progress events.
func (c *CLI) focusLayout(ctx context.Context, g graph.Graph, node string, current *layout.Layout, opts layout.FocusOptions) (*layout.Layout, error) {
	run, err := c.newEngine().Focus(ctx, g, node, current, opts)
	if err != nil {
		return nil, err
	}
	for range run.Progress() {
	}
	return run.Wait()
}
