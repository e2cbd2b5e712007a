package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

var monday = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

func grid(pph float64) timeline.Geometry {
	return timeline.Geometry{PixelsPerHour: pph, SnapMinutes: 30}
}

func TestBuildDayView(t *testing.T) {
	events := []event.Event{
		event.New("meeting", monday.Add(9*time.Hour), monday.Add(10*time.Hour+30*time.Minute)),
		event.New("overlap", monday.Add(9*time.Hour+30*time.Minute), monday.Add(10*time.Hour)),
		event.New("solo", monday.Add(13*time.Hour), monday.Add(14*time.Hour)),
	}

	l, err := Build(events, grid(60), Options{View: ViewDay, From: monday})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if l.Width != DefaultColumnWidth {
		t.Errorf("Width = %v, want %v", l.Width, DefaultColumnWidth)
	}
	if l.Height != 24*60 {
		t.Errorf("Height = %v, want %v", l.Height, 24*60)
	}
	if len(l.Columns) != 1 {
		t.Fatalf("len(Columns) = %d, want 1", len(l.Columns))
	}
	if l.Columns[0].Date != "2026-08-24" {
		t.Errorf("Columns[0].Date = %q, want %q", l.Columns[0].Date, "2026-08-24")
	}
	if len(l.Boxes) != 3 {
		t.Fatalf("len(Boxes) = %d, want 3", len(l.Boxes))
	}

	want := []Box{
		{ID: "meeting", Col: 0, Lane: 0, Lanes: 2, X: 0, Y: 540, W: 100, H: 90},
		{ID: "overlap", Col: 0, Lane: 1, Lanes: 2, X: 100, Y: 570, W: 100, H: 30},
		{ID: "solo", Col: 0, Lane: 0, Lanes: 1, X: 0, Y: 780, W: 200, H: 60},
	}
	for i, w := range want {
		b := l.Boxes[i]
		if b.ID != w.ID || b.Col != w.Col || b.Lane != w.Lane || b.Lanes != w.Lanes {
			t.Errorf("box %d = %s col=%d lane=%d/%d, want %s col=%d lane=%d/%d",
				i, b.ID, b.Col, b.Lane, b.Lanes, w.ID, w.Col, w.Lane, w.Lanes)
		}
		if b.X != w.X || b.Y != w.Y || b.W != w.W || b.H != w.H {
			t.Errorf("box %d (%s) = (%v,%v %vx%v), want (%v,%v %vx%v)",
				i, b.ID, b.X, b.Y, b.W, b.H, w.X, w.Y, w.W, w.H)
		}
		if b.Clipped {
			t.Errorf("box %d (%s) marked clipped", i, b.ID)
		}
	}
}

func TestBuildWeekSplitsAtMidnight(t *testing.T) {
	events := []event.Event{
		event.New("redeye", monday.Add(22*time.Hour), monday.Add(26*time.Hour)),
	}

	l, err := Build(events, grid(60), Options{View: ViewWeek, From: monday, Days: 2})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(l.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(l.Columns))
	}
	if l.Columns[0].Label != "Mon 24" || l.Columns[1].Label != "Tue 25" {
		t.Errorf("column labels = %q, %q, want %q, %q",
			l.Columns[0].Label, l.Columns[1].Label, "Mon 24", "Tue 25")
	}
	if len(l.Boxes) != 2 {
		t.Fatalf("len(Boxes) = %d, want 2 (split at midnight)", len(l.Boxes))
	}

	first, second := l.Boxes[0], l.Boxes[1]
	if first.Col != 0 || first.Y != 22*60 || first.H != 2*60 {
		t.Errorf("first half: col=%d y=%v h=%v, want col=0 y=%v h=%v",
			first.Col, first.Y, first.H, 22*60, 2*60)
	}
	if second.Col != 1 || second.Y != 0 || second.H != 2*60 {
		t.Errorf("second half: col=%d y=%v h=%v, want col=1 y=0 h=%v",
			second.Col, second.Y, second.H, 2*60)
	}
	if !first.Clipped || !second.Clipped {
		t.Error("both halves should be marked clipped")
	}
	if first.ID != second.ID {
		t.Errorf("halves have different IDs: %q vs %q", first.ID, second.ID)
	}
}

func TestBuildBusinessHours(t *testing.T) {
	g := grid(100)
	g.Hours = &timeline.HourWindow{Start: 9, End: 17}
	events := []event.Event{
		event.New("early", monday.Add(8*time.Hour), monday.Add(9*time.Hour+30*time.Minute)),
		event.New("evening", monday.Add(18*time.Hour), monday.Add(19*time.Hour)),
	}

	l, err := Build(events, g, Options{View: ViewDay, From: monday})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if l.Height != 800 {
		t.Errorf("Height = %v, want 800", l.Height)
	}

	early := l.Boxes[0]
	if early.Y != 0 || early.H != 50 {
		t.Errorf("early: y=%v h=%v, want y=0 h=50 (clamped to window start)", early.Y, early.H)
	}
	evening := l.Boxes[1]
	if evening.Y != 800 || evening.H != 0 {
		t.Errorf("evening: y=%v h=%v, want y=800 h=0 (compressed out)", evening.Y, evening.H)
	}
}

func TestBuildZoneOption(t *testing.T) {
	// 13:00 UTC on Monday is 09:00 in New York. Viewed in that zone, the
	// anchor day is Sunday Aug 23 (midnight UTC is still the evening
	// before), so the event lands in the second column.
	events := []event.Event{
		event.New("call", monday.Add(13*time.Hour), monday.Add(14*time.Hour)),
	}

	l, err := Build(events, grid(60), Options{
		View: ViewWeek, From: monday, Days: 2, Zone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if l.Zone != "America/New_York" {
		t.Errorf("Zone = %q, want %q", l.Zone, "America/New_York")
	}
	if l.Columns[0].Date != "2026-08-23" {
		t.Errorf("Columns[0].Date = %q, want %q", l.Columns[0].Date, "2026-08-23")
	}
	if len(l.Boxes) != 1 {
		t.Fatalf("len(Boxes) = %d, want 1", len(l.Boxes))
	}
	b := l.Boxes[0]
	if b.Col != 1 || b.Y != 540 || b.H != 60 {
		t.Errorf("call: col=%d y=%v h=%v, want col=1 y=540 h=60", b.Col, b.Y, b.H)
	}
}

func TestBuildTimelineBands(t *testing.T) {
	work := func(e event.Event) event.Event {
		e.SetMeta(event.MetaCalendar, "work")
		return e
	}
	personal := func(e event.Event) event.Event {
		e.SetMeta(event.MetaCalendar, "personal")
		return e
	}
	events := []event.Event{
		work(event.New("standup", monday.Add(9*time.Hour), monday.Add(9*time.Hour+30*time.Minute))),
		work(event.New("review", monday.Add(9*time.Hour), monday.Add(10*time.Hour))),
		personal(event.New("gym", monday.Add(7*time.Hour), monday.Add(8*time.Hour))),
		event.New("errand", monday.Add(12*time.Hour), monday.Add(13*time.Hour)),
	}

	l, err := Build(events, grid(10), Options{View: ViewTimeline, From: monday, Days: 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if l.Width != 240 {
		t.Errorf("Width = %v, want 240", l.Width)
	}
	if len(l.Bands) != 3 {
		t.Fatalf("len(Bands) = %d, want 3", len(l.Bands))
	}
	labels := []string{l.Bands[0].Label, l.Bands[1].Label, l.Bands[2].Label}
	if labels[0] != "default" || labels[1] != "personal" || labels[2] != "work" {
		t.Errorf("band order = %v, want [default personal work]", labels)
	}

	// The work band holds two overlapping events, so it is two lanes deep.
	if l.Bands[2].Height != 2*laneHeight {
		t.Errorf("work band height = %v, want %v", l.Bands[2].Height, 2*laneHeight)
	}
	if l.Bands[0].Height != laneHeight {
		t.Errorf("default band height = %v, want %v", l.Bands[0].Height, laneHeight)
	}

	for _, b := range l.Boxes {
		if b.ID != "gym" {
			continue
		}
		if b.X != 70 || b.W != 10 {
			t.Errorf("gym: x=%v w=%v, want x=70 w=10", b.X, b.W)
		}
		wantY := l.Bands[1].Y
		if b.Y != wantY {
			t.Errorf("gym: y=%v, want %v (personal band)", b.Y, wantY)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	ok := []event.Event{
		event.New("a", monday.Add(9*time.Hour), monday.Add(10*time.Hour)),
	}

	tests := []struct {
		name   string
		events []event.Event
		geom   timeline.Geometry
		opts   Options
		code   errors.Code
	}{
		{
			name:   "zero scale",
			events: ok,
			geom:   timeline.Geometry{PixelsPerHour: 0, SnapMinutes: 30},
			opts:   Options{View: ViewDay, From: monday},
			code:   errors.ErrCodeInvalidGeometry,
		},
		{
			name:   "inverted event",
			events: []event.Event{event.New("bad", monday.Add(10*time.Hour), monday.Add(9*time.Hour))},
			geom:   grid(60),
			opts:   Options{View: ViewDay, From: monday},
			code:   errors.ErrCodeInvalidInterval,
		},
		{
			name:   "unknown view",
			events: ok,
			geom:   grid(60),
			opts:   Options{View: View("month"), From: monday},
			code:   errors.ErrCodeInvalidView,
		},
		{
			name:   "missing start",
			events: ok,
			geom:   grid(60),
			opts:   Options{View: ViewDay},
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "unknown zone",
			events: ok,
			geom:   grid(60),
			opts:   Options{View: ViewDay, From: monday, Zone: "Mars/Phobos"},
			code:   errors.ErrCodeInvalidZone,
		},
		{
			name:   "negative days",
			events: ok,
			geom:   grid(60),
			opts:   Options{View: ViewWeek, From: monday, Days: -1},
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "bad column width",
			events: ok,
			geom:   grid(60),
			opts:   Options{View: ViewDay, From: monday, ColumnWidth: math.NaN()},
			code:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.events, tt.geom, tt.opts)
			if err == nil {
				t.Fatal("Build() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	l, err := Build(nil, grid(60), Options{From: monday})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if l.View != ViewWeek {
		t.Errorf("View = %q, want %q", l.View, ViewWeek)
	}
	if len(l.Columns) != 7 {
		t.Errorf("len(Columns) = %d, want 7", len(l.Columns))
	}
	if len(l.Boxes) != 0 {
		t.Errorf("len(Boxes) = %d, want 0", len(l.Boxes))
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	e := event.New("late", monday.Add(23*time.Hour), monday.Add(25*time.Hour))
	events := []event.Event{e}

	if _, err := Build(events, grid(60), Options{View: ViewWeek, From: monday, Days: 2}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !events[0].Start.Equal(e.Start) || !events[0].End.Equal(e.End) {
		t.Errorf("input mutated: [%v, %v)", events[0].Start, events[0].End)
	}
}
