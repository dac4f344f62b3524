package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imran31415/forcefield/pkg/cache"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/source/local"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		preset  string
		width   float64
		height  float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout <graph-file>",
		Short: "Compute a force-directed layout for a graph",
		Long: `Compute a force-directed layout for a graph.

The layout command reads a graph file (JSON, or a .bson record dump) and
runs the force simulation until positions settle inside the viewport. The
output is a layout.json file holding one position per resolved node.

Identical inputs produce identical layouts, so results are cached locally
for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, preset, width, height, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Simulation flags
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "parameter preset from configuration: compact, detailed")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width (0 uses the engine default)")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height (0 uses the engine default)")

	return cmd
}

// runLayout loads the graph, computes or restores the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, preset string, width, height float64, noCache bool) error {
	prog := newProgress(c.Logger)

	res, err := local.ReadFile(input)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		printWarning("Skipped %d malformed records", res.Skipped)
	}

	p, err := c.Config.PresetParamsWithViewport(preset, width, height)
	if err != nil {
		return err
	}

	g := layout.Filter(res.Graph, c.Config.Limits.MaxNodes, c.Config.Limits.MaxEdges)
	if len(g.Nodes) < len(res.Graph.Nodes) || len(g.Edges) < len(res.Graph.Edges) {
		printWarning("Graph capped to %d nodes and %d edges", len(g.Nodes), len(g.Edges))
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	key := cache.LayoutKey(res.Hash, p, c.Config.Limits.MaxNodes, c.Config.Limits.MaxEdges)

	result, cached := cachedLayout(ctx, store, key)
	if !cached {
		result, err = c.computeLayout(ctx, g, p)
		if err != nil {
			return err
		}
		if data, err := layout.MarshalLayout(*result); err == nil {
			if err := store.Set(ctx, key, data, cache.DefaultTTL); err != nil {
				c.Logger.Debug("cache write failed", "key", key, "error", err)
			}
		}
	}

	outPath := outputPath(input, output, ".layout.json")
	if err := layout.WriteLayoutFile(*result, outPath); err != nil {
		return err
	}
	prog.done("Wrote " + outPath)

	printSuccess("Layout complete")
	printFile(outPath)
	printStats(len(g.Nodes), len(g.Edges), cached)
	printNewline()
	printNextStep("Focus", fmt.Sprintf("%s focus %s --node <id>", appName, input))

	return nil
}

// cachedLayout restores a previously computed layout, treating any cache
// problem as a miss.
func cachedLayout(ctx context.Context, store cache.Cache, key string) (*layout.Layout, bool) {
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	l, err := layout.UnmarshalLayout(data)
	if err != nil {
		return nil, false
	}
	return &l, true
}

// computeLayout runs the engine over g with a live progress bar.
func (c *CLI) computeLayout(ctx context.Context, g graph.Graph, p layout.Params) (*layout.Layout, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run, err := c.newEngine().Layout(runCtx, g, p)
	if err != nil {
		return nil, err
	}
	return followRun(run, "Simulating forces", cancel)
}
