package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/internal/config"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

// rangeFlags stages the view-range flags that need parsing before they can
// land in pipeline options.
type rangeFlags struct {
	from  string
	hours string
}

// register adds the shared view-range flags to cmd. Directly mapped values
// bind onto opts.
func (f *rangeFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&f.from, "from", "", "view start date, YYYY-MM-DD or RFC3339 (default today)")
	cmd.Flags().IntVar(&opts.Days, "days", opts.Days, "days covered (default 1 for day view, 7 otherwise)")
	cmd.Flags().StringVar(&opts.Zone, "zone", opts.Zone, "IANA time zone for civil-day decisions")
	cmd.Flags().StringVar(&f.hours, "hours", "", "visible hour window, e.g. 9-18 (default full day)")
}

// apply resolves the staged values into opts. Config defaults fill flags the
// user left unset; explicit flags always win.
func (f *rangeFlags) apply(cmd *cobra.Command, cfg *config.Config, opts *pipeline.Options) error {
	applyConfigDefaults(cmd, cfg, opts, f)

	if err := applyHourWindow(opts, f.hours); err != nil {
		return err
	}

	from, err := parseFromDate(f.from, opts.Zone)
	if err != nil {
		return err
	}
	opts.From = from
	return nil
}

// applyConfigDefaults copies [defaults] values from the config file into
// opts for every flag the user did not set. Commands that do not register a
// given flag pick up its config default unconditionally.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config, opts *pipeline.Options, f *rangeFlags) {
	if cfg == nil {
		return
	}
	d := cfg.Defaults
	set := cmd.Flags().Changed

	if !set("view") && d.View != "" {
		opts.View = d.View
	}
	if !set("days") && d.Days != 0 {
		opts.Days = d.Days
	}
	if !set("zone") && d.Zone != "" {
		opts.Zone = d.Zone
	}
	if !set("px") && d.Px != 0 {
		opts.PixelsPerHour = d.Px
	}
	if !set("snap") && d.Snap != 0 {
		opts.SnapMinutes = d.Snap
	}
	if !set("group-by") && d.GroupBy != "" {
		opts.GroupKey = d.GroupBy
	}
	if !set("column-width") && d.ColumnWidth != 0 {
		opts.ColumnWidth = d.ColumnWidth
	}
	if !set("hours") && d.Hours != "" {
		f.hours = d.Hours
	}
}

// applyHourWindow parses an "HH-HH" window into the geometry fields.
// An empty string leaves the full 24-hour day.
func applyHourWindow(opts *pipeline.Options, hours string) error {
	w, err := timeline.ParseHourWindow(hours)
	if err != nil {
		return err
	}
	if w != nil {
		opts.HourStart = w.Start
		opts.HourEnd = w.End
	}
	return nil
}

// viewLocation resolves an IANA zone name, defaulting to the system zone.
func viewLocation(zone string) (*time.Location, error) {
	if zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidZone, err, "zone %s", zone)
	}
	return loc, nil
}

// parseFromDate resolves a --from value. An empty value anchors the view at
// today's civil midnight in the view zone; a plain date anchors at that
// day's midnight; an RFC3339 timestamp is taken as-is in the view zone.
func parseFromDate(s, zone string) (time.Time, error) {
	loc, err := viewLocation(zone)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidInput,
			"from %q must be YYYY-MM-DD or RFC3339", s)
	}
	return t.In(loc), nil
}

// resolveSource maps a named source from the config [sources] table to its
// ref. Anything that is not a configured name passes through unchanged.
func resolveSource(cfg *config.Config, ref string) string {
	if cfg == nil {
		return ref
	}
	if resolved, ok := cfg.Source(ref); ok {
		return resolved
	}
	return ref
}
