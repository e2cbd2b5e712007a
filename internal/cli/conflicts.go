package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/render/conflict"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/lanes"
)

// conflictFormats are the formats the conflicts command can render.
var conflictFormats = map[string]bool{
	pipeline.FormatDOT: true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
}

// conflictsCommand creates the conflicts command for inspecting overlaps.
func (c *CLI) conflictsCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "conflicts [events.json|calendar.ics|url|name]",
		Short: "Show overlapping events as a table or conflict graph",
		Long: `Show overlapping events as a table or conflict graph.

Without --format, conflict clusters are printed as a table: one row per
maximal run of transitively overlapping events, with the cluster window,
its lane count, and its members.

With --format, the conflict graph is rendered via Graphviz: one subgraph
per cluster, a node per event colored by lane, an edge per overlapping
pair.

Examples:
  timegrid conflicts events.json
  timegrid conflicts team.ics --format svg -o conflicts.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" && !conflictFormats[format] {
				return errors.New(errors.ErrCodeInvalidFormat,
					"invalid format: %q (must be 'dot', 'svg', or 'png')", format)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg != nil && !cmd.Flags().Changed("zone") && cfg.Defaults.Zone != "" {
				opts.Zone = cfg.Defaults.Zone
			}
			opts.Source = resolveSource(cfg, args[0])

			return c.runConflicts(cmd.Context(), args[0], opts, format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "render the conflict graph: dot, svg, png (table if empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for --format (default <input>_conflicts.<format>)")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "IANA time zone for floating ICS timestamps")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the source cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runConflicts loads events, detects clusters, and prints or renders them.
func (c *CLI) runConflicts(ctx context.Context, input string, opts pipeline.Options, format, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Detecting conflicts...")
	spinner.Start()

	events, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Source, err)
	}

	clusters, err := lanes.Clusters(events)
	if err != nil {
		spinner.StopWithError("Conflict detection failed")
		return err
	}
	spinner.Stop()

	if format != "" {
		return c.renderConflictGraph(ctx, input, clusters, events, format, output)
	}

	rows := conflictRows(clusters, events)
	if len(rows) == 0 {
		printSuccess("No conflicts among %d events", len(events))
		return nil
	}

	printInfo("%d conflict cluster(s) among %d events", len(rows), len(events))
	printNewline()
	fmt.Println(conflictTable(rows))
	return nil
}

// renderConflictGraph writes the Graphviz rendering of the clusters.
func (c *CLI) renderConflictGraph(ctx context.Context, input string, clusters []lanes.Cluster, events []event.Event, format, output string) error {
	dot, err := conflict.ToDOT(clusters, events)
	if err != nil {
		return err
	}

	data, err := conflict.Render(ctx, dot, format)
	if err != nil {
		return fmt.Errorf("render conflict graph: %w", err)
	}

	path := output
	if path == "" {
		path = basePath("", input) + "_conflicts." + format
	}

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Conflict graph complete")
	printFile(path)
	return nil
}

// conflictRows builds one table row per conflict cluster. Clusters with a
// single member are not conflicts and are skipped.
func conflictRows(clusters []lanes.Cluster, events []event.Event) [][]string {
	byID := make(map[string]event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	var rows [][]string
	for _, cl := range clusters {
		if len(cl.Events) < 2 {
			continue
		}
		titles := make([]string, len(cl.Events))
		for i, id := range cl.Events {
			titles[i] = byID[id].Title()
		}
		rows = append(rows, []string{
			strconv.Itoa(len(rows) + 1),
			formatWindow(cl.Start, cl.End),
			strconv.Itoa(cl.Lanes),
			strings.Join(titles, ", "),
		})
	}
	return rows
}

// conflictTable renders cluster rows as a bordered table.
func conflictTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Window", "Lanes", "Events").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}

// formatWindow formats a cluster window, eliding the end date when the
// window closes on the day it opened.
func formatWindow(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format("Mon Jan 2 15:04") + "-" + end.Format("15:04")
	}
	return start.Format("Mon Jan 2 15:04") + "-" + end.Format("Mon Jan 2 15:04")
}
