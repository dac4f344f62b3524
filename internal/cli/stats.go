package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imran31415/forcefield/pkg/source/local"
	"github.com/imran31415/forcefield/pkg/stats"
)

// statsCommand creates the stats command for graph summaries.
func (c *CLI) statsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <graph-file>",
		Short: "Summarize a graph without laying it out",
		Long: `Summarize a graph without laying it out.

The stats command reports node and edge counts, label and edge-type
histograms, and the degree distribution of the resolved graph. It never
runs the simulation, so it is instant even for large graphs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the summary as JSON")

	return cmd
}

// runStats loads the graph and prints its summary.
func (c *CLI) runStats(input string, asJSON bool) error {
	res, err := local.ReadFile(input)
	if err != nil {
		return err
	}

	s := stats.Compute(res.Graph)

	if asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if res.Skipped > 0 {
		printWarning("Skipped %d malformed records", res.Skipped)
	}

	fmt.Println(StyleTitle.Render("Graph") + " " + StyleHighlight.Render(input))
	printNewline()
	printKeyValue("Nodes", strconv.Itoa(s.NodeCount))
	printKeyValue("Edges", strconv.Itoa(s.EdgeCount))
	printKeyValue("Isolated", strconv.Itoa(s.Degrees.Isolated))
	printKeyValue("Degree", fmt.Sprintf("%d min · %.1f mean (±%.1f) · %d max",
		s.Degrees.Min, s.Degrees.Mean, s.Degrees.StdDev, s.Degrees.Max))

	printHistogram("Labels", s.Labels)
	printHistogram("Edge types", s.EdgeTypes)

	return nil
}

// printHistogram prints a count histogram sorted by count, then name.
func printHistogram(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, n := range counts {
		entries = append(entries, entry{name, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	printNewline()
	fmt.Println(StyleTitle.Render(title))
	for _, e := range entries {
		fmt.Println("  " + StyleNumber.Render(fmt.Sprintf("%5d", e.count)) + " " + StyleValue.Render(e.name))
	}
}
