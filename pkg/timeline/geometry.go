package timeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

// HourWindow restricts a day to the half-open civil window [Start,End),
// given in whole hours of the day. {9, 18} keeps 09:00–17:59 visible and
// compresses everything else away.
type HourWindow struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// Validate checks the window bounds: 0 ≤ Start < End ≤ 24.
func (w HourWindow) Validate() error {
	return errors.ValidateHourWindow(w.Start, w.End)
}

// ParseHourWindow parses a "start-end" hour range like "9-18" into a
// window. The empty string means the full 24-hour day and returns nil.
func ParseHourWindow(s string) (*HourWindow, error) {
	if s == "" {
		return nil, nil
	}
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"hour window %q must look like 9-18", s)
	}
	from, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"hour window %q must look like 9-18", s)
	}
	to, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"hour window %q must look like 9-18", s)
	}
	w := &HourWindow{Start: from, End: to}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Hours returns the window length in hours.
func (w HourWindow) Hours() float64 {
	return float64(w.End - w.Start)
}

// clamp maps a clock hour of the day into the window and returns the offset
// from the window start. Hours before the window yield 0; hours past the end
// yield the full window length.
func (w HourWindow) clamp(clockHours float64) float64 {
	if clockHours < float64(w.Start) {
		return 0
	}
	if clockHours > float64(w.End) {
		return w.Hours()
	}
	return clockHours - float64(w.Start)
}

// Geometry describes the scale of a timeline view: how many pixels an hour
// occupies, how wide the snap grid is, and (optionally) which daily window
// is visible. A Geometry carries no origin; it is bound to one by
// [NewConverter].
//
// Geometry is a value type. Derive changed copies instead of mutating shared
// ones.
type Geometry struct {
	// PixelsPerHour is the unit size of the timeline: one hour of time
	// occupies this many pixels. Must be positive and finite.
	PixelsPerHour float64 `json:"pixelsPerHour" bson:"pixelsPerHour"`

	// SnapMinutes is the snap grid interval in minutes. Must be positive.
	SnapMinutes int `json:"snapMinutes" bson:"snapMinutes"`

	// Hours optionally compresses each day to a business window.
	// Nil means the full 24-hour day is visible.
	Hours *HourWindow `json:"hours,omitempty" bson:"hours,omitempty"`
}

// Validate rejects geometries that cannot describe a usable view.
func (g Geometry) Validate() error {
	if g.PixelsPerHour <= 0 || math.IsNaN(g.PixelsPerHour) || math.IsInf(g.PixelsPerHour, 0) {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"pixels per hour must be a positive finite number, got %v", g.PixelsPerHour)
	}
	if g.SnapMinutes <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"snap interval must be a positive number of minutes, got %d", g.SnapMinutes)
	}
	if g.Hours != nil {
		if err := g.Hours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SnapWidth returns the snap grid step in pixels:
// PixelsPerHour × SnapMinutes ÷ 60.
func (g Geometry) SnapWidth() float64 {
	return g.PixelsPerHour * float64(g.SnapMinutes) / 60
}

// DayExtent returns the pixel extent of one day: 24 hours, or the window
// length when business hours are set.
func (g Geometry) DayExtent() float64 {
	if g.Hours != nil {
		return g.Hours.Hours() * g.PixelsPerHour
	}
	return 24 * g.PixelsPerHour
}

// VisibleHours returns the number of visible hours per day.
func (g Geometry) VisibleHours() float64 {
	if g.Hours != nil {
		return g.Hours.Hours()
	}
	return 24
}

// Converter binds a Geometry to an origin instant and a zone, yielding the
// bidirectional time ↔ position mapping for one view. Position 0 is the
// origin; positions grow toward later times and may be negative for instants
// before the origin.
type Converter struct {
	geom   Geometry
	origin time.Time
	loc    *time.Location
}

// NewConverter validates g and binds it to origin. Civil-day decisions
// (business-hour clamping, day walking) happen in loc; a nil loc means the
// origin's own location.
func NewConverter(g Geometry, origin time.Time, loc *time.Location) (*Converter, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if origin.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "converter requires an origin time")
	}
	if loc == nil {
		loc = origin.Location()
	}
	return &Converter{geom: g, origin: origin.In(loc), loc: loc}, nil
}

// Geometry returns the geometry the converter was built with.
func (c *Converter) Geometry() Geometry { return c.geom }

// Origin returns the instant mapped to position 0, expressed in the
// converter's zone.
func (c *Converter) Origin() time.Time { return c.origin }

// Location returns the zone used for civil-day decisions.
func (c *Converter) Location() *time.Location { return c.loc }
