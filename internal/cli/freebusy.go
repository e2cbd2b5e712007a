package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/span"
)

// freebusyCommand creates the freebusy command for availability reports.
func (c *CLI) freebusyCommand() *cobra.Command {
	var (
		gap     time.Duration
		noCache bool
	)
	opts := pipeline.Options{Days: 7}
	ranges := rangeFlags{}

	cmd := &cobra.Command{
		Use:   "freebusy [events.json|calendar.ics|url|name]",
		Short: "Show merged busy ranges and free windows per day",
		Long: `Show merged busy ranges and free windows per day.

Busy time is the union of all events, merged so that overlapping meetings
collapse into one block. --gap additionally swallows short free stretches
between meetings (a 10 minute break disappears under --gap 15m). --hours
restricts the report to a business-hour window.

Examples:
  timegrid freebusy events.json --from 2025-03-10 --days 5 --hours 9-18
  timegrid freebusy team.ics --gap 15m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := ranges.apply(cmd, cfg, &opts); err != nil {
				return err
			}
			opts.Source = resolveSource(cfg, args[0])

			return c.runFreeBusy(cmd.Context(), opts, gap, noCache)
		},
	}

	ranges.register(cmd, &opts)
	cmd.Flags().DurationVar(&gap, "gap", 0, "free stretches at most this long merge into busy time (e.g. 15m)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the source cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runFreeBusy loads events and prints the per-day availability report.
func (c *CLI) runFreeBusy(ctx context.Context, opts pipeline.Options, gap time.Duration, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing free/busy...")
	spinner.Start()

	events, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Source, err)
	}
	spinner.Stop()

	for i, day := range freeBusy(events, opts, gap) {
		if i > 0 {
			printNewline()
		}
		printFreeBusyDay(day)
	}
	return nil
}

// freeBusyDay is one day's merged busy ranges and free windows.
type freeBusyDay struct {
	Day  time.Time
	Busy []span.Span
	Free []span.Span
}

// freeBusy computes per-day busy and free spans over the civil days
// [From, From+Days) in the view zone. Events are clipped to each day's
// window (the --hours window when set, the full day otherwise); busy spans
// are merged with the gap tolerance and free windows are what remains.
func freeBusy(events []event.Event, opts pipeline.Options, gap time.Duration) []freeBusyDay {
	loc := opts.From.Location()
	days := opts.Days
	if days <= 0 {
		days = 7
	}

	out := make([]freeBusyDay, 0, days)
	for d := 0; d < days; d++ {
		day := time.Date(opts.From.Year(), opts.From.Month(), opts.From.Day()+d, 0, 0, 0, 0, loc)

		within := span.Span{Start: day, End: nextCivilDay(day)}
		if opts.HourStart != 0 || opts.HourEnd != 0 {
			within.Start = time.Date(day.Year(), day.Month(), day.Day(), opts.HourStart, 0, 0, 0, loc)
			within.End = time.Date(day.Year(), day.Month(), day.Day(), opts.HourEnd, 0, 0, 0, loc)
		}

		var busy []span.Span
		for _, e := range events {
			start, end := e.Start, e.End
			if start.Before(within.Start) {
				start = within.Start
			}
			if end.After(within.End) {
				end = within.End
			}
			if end.After(start) {
				busy = append(busy, span.Span{Start: start.In(loc), End: end.In(loc)})
			}
		}

		out = append(out, freeBusyDay{
			Day:  day,
			Busy: span.Merge(busy, gap),
			Free: span.Gaps(busy, within, gap),
		})
	}
	return out
}

// printFreeBusyDay prints one day header and its spans in time order.
func printFreeBusyDay(day freeBusyDay) {
	header := StyleTitle.Render(day.Day.Format("Mon Jan 2"))
	if free := totalDuration(day.Free); free > 0 {
		header += "  " + StyleDim.Render(formatDuration(free)+" free")
	}
	fmt.Println(header)

	type line struct {
		start time.Time
		text  string
	}
	lines := make([]line, 0, len(day.Busy)+len(day.Free))
	for _, s := range day.Busy {
		lines = append(lines, line{s.Start, "  " + StyleWarning.Render("busy") + "  " + StyleValue.Render(clockRange(s))})
	}
	for _, s := range day.Free {
		lines = append(lines, line{s.Start, "  " + StyleSuccess.Render("free") + "  " + StyleValue.Render(clockRange(s))})
	}

	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j].start.Before(lines[j-1].start); j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
	for _, l := range lines {
		fmt.Println(l.text)
	}
}

// clockRange formats a span as clock times, writing a midnight end as 24:00
// so full-day windows read naturally.
func clockRange(s span.Span) string {
	end := s.End.Format("15:04")
	if s.End.Hour() == 0 && s.End.Minute() == 0 {
		end = "24:00"
	}
	return s.Start.Format("15:04") + "-" + end
}

// totalDuration sums span durations.
func totalDuration(spans []span.Span) time.Duration {
	var total time.Duration
	for _, s := range spans {
		total += s.Duration()
	}
	return total
}

// formatDuration renders a duration as hours and minutes.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
