package schedule

import (
	"math"
	"slices"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/lanes"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// View selects how events are arranged on the canvas.
type View string

// Available views.
const (
	ViewDay      View = "day"
	ViewWeek     View = "week"
	ViewTimeline View = "timeline"
)

// DefaultColumnWidth is the day-column width in pixels used when
// Options.ColumnWidth is zero.
const DefaultColumnWidth = 200.0

// Timeline band geometry. Bands size themselves from their deepest lane.
const (
	laneHeight = 32.0
	bandGap    = 16.0
)

// defaultBand collects timeline events that carry no group key.
const defaultBand = "default"

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewDay, ViewWeek, ViewTimeline:
		return View(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidView,
		"unknown view %q (valid: day, week, timeline)", s)
}

// =============================================================================
// Options
// =============================================================================

// Options controls what Build composes.
type Options struct {
	// View selects the arrangement. Defaults to ViewWeek.
	View View

	// From anchors the visible range at the civil day containing it.
	// Required.
	From time.Time

	// Days is the number of civil days covered. Defaults to 1 for the day
	// view and 7 otherwise.
	Days int

	// Zone is the IANA zone the view is composed in. Defaults to From's
	// location.
	Zone string

	// ColumnWidth is the width of one day column in pixels (vertical views
	// only). Defaults to DefaultColumnWidth.
	ColumnWidth float64

	// GroupKey is the metadata key that assigns timeline events to bands.
	// Defaults to "calendar". Events without the key land in a band named
	// "default".
	GroupKey string
}

func (o Options) withDefaults() (Options, *time.Location, error) {
	if o.View == "" {
		o.View = ViewWeek
	}
	v, err := ParseView(string(o.View))
	if err != nil {
		return o, nil, err
	}
	o.View = v

	if o.From.IsZero() {
		return o, nil, errors.New(errors.ErrCodeInvalidInput, "view start time required")
	}
	if o.Days < 0 {
		return o, nil, errors.New(errors.ErrCodeInvalidInput,
			"day count must not be negative, got %d", o.Days)
	}
	if o.Days == 0 {
		if o.View == ViewDay {
			o.Days = 1
		} else {
			o.Days = 7
		}
	}
	if o.ColumnWidth < 0 || math.IsNaN(o.ColumnWidth) || math.IsInf(o.ColumnWidth, 0) {
		return o, nil, errors.New(errors.ErrCodeInvalidInput,
			"column width must be a non-negative finite number, got %v", o.ColumnWidth)
	}
	if o.ColumnWidth == 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
	if o.GroupKey == "" {
		o.GroupKey = event.MetaCalendar
	}

	loc := o.From.Location()
	if o.Zone != "" {
		l, err := time.LoadLocation(o.Zone)
		if err != nil {
			return o, nil, errors.Wrap(errors.ErrCodeInvalidZone, err, "unknown zone %q", o.Zone)
		}
		loc = l
	}
	return o, loc, nil
}

// =============================================================================
// Build
// =============================================================================

// Build composes events into a positioned Layout.
//
// Events are validated first; an invalid geometry, event, zone or view
// aborts the whole build. The input slice is never mutated.
//
// Vertical views give every civil day its own column and its own converter
// anchored at that day's midnight. Events are clipped to their column, and
// an event crossing midnight produces one box per day it touches, each
// marked Clipped. Within a column, overlapping events share the column
// width evenly across their conflict cluster's lanes.
//
// The timeline view runs one converter across the whole range and groups
// events into horizontal bands by their GroupKey metadata. Lanes stack
// vertically inside each band.
func Build(events []event.Event, g timeline.Geometry, opts Options) (Layout, error) {
	if err := g.Validate(); err != nil {
		return Layout{}, err
	}
	if err := event.ValidateAll(events); err != nil {
		return Layout{}, err
	}
	o, loc, err := opts.withDefaults()
	if err != nil {
		return Layout{}, err
	}

	switch o.View {
	case ViewTimeline:
		return buildTimeline(events, g, o, loc)
	default:
		return buildColumns(events, g, o, loc)
	}
}

// civilPositioned returns g with a full-day window when none is set.
// Columns position events by civil clock, not elapsed time, so boxes stay
// aligned with the hour grid across DST transitions; a full-day window
// selects exactly that mode in the converter.
func civilPositioned(g timeline.Geometry) timeline.Geometry {
	if g.Hours == nil {
		g.Hours = &timeline.HourWindow{Start: 0, End: 24}
	}
	return g
}

func buildColumns(events []event.Event, g timeline.Geometry, o Options, loc *time.Location) (Layout, error) {
	y0, m0, d0 := o.From.In(loc).Date()
	anchor := time.Date(y0, m0, d0, 0, 0, 0, 0, loc)

	l := Layout{
		View:     o.View,
		Zone:     loc.String(),
		From:     anchor,
		Width:    float64(o.Days) * o.ColumnWidth,
		Height:   g.DayExtent(),
		Geometry: g,
	}

	cg := civilPositioned(g)
	orig := originalsByID(events)

	for col := 0; col < o.Days; col++ {
		dayStart := time.Date(y0, m0, d0+col, 0, 0, 0, 0, loc)
		dayEnd := time.Date(y0, m0, d0+col+1, 0, 0, 0, 0, loc)
		colX := float64(col) * o.ColumnWidth

		l.Columns = append(l.Columns, Column{
			Label: dayStart.Format("Mon 02"),
			Date:  dayStart.Format("2006-01-02"),
			X:     colX,
			Width: o.ColumnWidth,
		})

		members := clipToRange(events, dayStart, dayEnd)
		if len(members) == 0 {
			continue
		}
		conv, err := timeline.NewConverter(cg, dayStart, loc)
		if err != nil {
			return Layout{}, err
		}
		placed, err := lanes.Assign(members)
		if err != nil {
			return Layout{}, err
		}

		event.SortChronological(members)
		for _, e := range members {
			p := placed[e.ID]
			w := o.ColumnWidth / float64(p.Lanes)
			y := conv.PositionOf(e.Start)
			src := orig[e.ID]
			l.Boxes = append(l.Boxes, Box{
				ID:      e.ID,
				Label:   e.Title(),
				Color:   e.Color(),
				Col:     col,
				Lane:    p.Lane,
				Lanes:   p.Lanes,
				X:       colX + float64(p.Lane)*w,
				Y:       y,
				W:       w,
				H:       conv.PositionOf(e.End) - y,
				Start:   e.Start,
				End:     e.End,
				Clipped: !e.Start.Equal(src.Start) || !e.End.Equal(src.End),
			})
		}
	}
	return l, nil
}

func buildTimeline(events []event.Event, g timeline.Geometry, o Options, loc *time.Location) (Layout, error) {
	y0, m0, d0 := o.From.In(loc).Date()
	start := time.Date(y0, m0, d0, 0, 0, 0, 0, loc)
	end := time.Date(y0, m0, d0+o.Days, 0, 0, 0, 0, loc)

	conv, err := timeline.NewConverter(civilPositioned(g), start, loc)
	if err != nil {
		return Layout{}, err
	}

	l := Layout{
		View:     o.View,
		Zone:     loc.String(),
		From:     start,
		Width:    conv.PositionOf(end),
		Geometry: g,
	}

	members := clipToRange(events, start, end)
	groups := make(map[string][]event.Event)
	for _, e := range members {
		k := e.Meta[o.GroupKey]
		if k == "" {
			k = defaultBand
		}
		groups[k] = append(groups[k], e)
	}
	names := make([]string, 0, len(groups))
	for k := range groups {
		names = append(names, k)
	}
	slices.Sort(names)

	orig := originalsByID(events)
	y := 0.0
	for col, name := range names {
		band := groups[name]
		placed, err := lanes.Assign(band)
		if err != nil {
			return Layout{}, err
		}
		depth := 1
		for _, p := range placed {
			if p.Lane+1 > depth {
				depth = p.Lane + 1
			}
		}
		height := float64(depth) * laneHeight
		l.Bands = append(l.Bands, Band{Label: name, Y: y, Height: height})

		event.SortChronological(band)
		for _, e := range band {
			p := placed[e.ID]
			x := conv.PositionOf(e.Start)
			src := orig[e.ID]
			l.Boxes = append(l.Boxes, Box{
				ID:      e.ID,
				Label:   e.Title(),
				Color:   e.Color(),
				Col:     col,
				Lane:    p.Lane,
				Lanes:   p.Lanes,
				X:       x,
				Y:       y + float64(p.Lane)*laneHeight,
				W:       conv.PositionOf(e.End) - x,
				H:       laneHeight,
				Start:   e.Start,
				End:     e.End,
				Clipped: !e.Start.Equal(src.Start) || !e.End.Equal(src.End),
			})
		}
		y += height + bandGap
	}
	if len(l.Bands) > 0 {
		l.Height = y - bandGap
	}
	return l, nil
}

// clipToRange returns copies of the events that fall inside [from, to),
// intervals clipped to the range. A zero-duration event belongs to the
// range containing its instant.
func clipToRange(events []event.Event, from, to time.Time) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.Duration() == 0 {
			if e.Start.Before(from) || !e.Start.Before(to) {
				continue
			}
			out = append(out, e.Clone())
			continue
		}
		if !e.Start.Before(to) || !e.End.After(from) {
			continue
		}
		c := e.Clone()
		if c.Start.Before(from) {
			c.Start = from
		}
		if c.End.After(to) {
			c.End = to
		}
		out = append(out, c)
	}
	return out
}

func originalsByID(events []event.Event) map[string]event.Event {
	m := make(map[string]event.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return m
}
