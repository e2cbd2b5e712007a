package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
)

// agendaCommand creates the agenda command, an interactive day browser.
func (c *CLI) agendaCommand() *cobra.Command {
	var (
		from    string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "agenda [events.json|calendar.ics|url|name]",
		Short: "Browse events day by day in the terminal",
		Long: `Browse events day by day in the terminal.

Each day shows its events in chronological order with their time, title and
place. Events that overlap another event on the same day are highlighted.

Keys: arrows or hjkl move between days and events, t jumps to today, q quits.

Examples:
  timegrid agenda events.json
  timegrid agenda team.ics --from 2025-03-10 --days 5 --zone Europe/Berlin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg != nil && !cmd.Flags().Changed("zone") && cfg.Defaults.Zone != "" {
				opts.Zone = cfg.Defaults.Zone
			}
			opts.Source = resolveSource(cfg, args[0])

			return c.runAgenda(cmd.Context(), opts, from, noCache)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day shown, YYYY-MM-DD or RFC3339 (default first event's day)")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "days browsable (default spans all events)")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "IANA time zone for day grouping")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the source cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAgenda loads events and starts the interactive browser.
func (c *CLI) runAgenda(ctx context.Context, opts pipeline.Options, from string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Loading events...")
	spinner.Start()

	events, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Source, err)
	}
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(events) == 0 {
		printInfo("No events in %s", opts.Source)
		return nil
	}

	loc, err := viewLocation(opts.Zone)
	if err != nil {
		return err
	}
	var start time.Time
	if from != "" {
		if start, err = parseFromDate(from, opts.Zone); err != nil {
			return err
		}
	}

	days, err := agendaDays(events, loc, start, opts.Days)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewAgendaModel(days))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
