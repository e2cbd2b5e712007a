package timeline

import (
	"math"
	"time"
)

// PositionOf maps an instant to its pixel position: elapsed time from the
// origin, in hours, times PixelsPerHour.
//
// Without business hours the elapsed time is absolute, so a day that loses or
// gains an hour to DST is correspondingly shorter or taller. With business
// hours only in-window civil hours count: each whole day between the origin's
// day and t's day contributes the window length, and the partial days at
// either end contribute their clock time clamped into the window. Instants
// outside the window share a position with the nearest window edge, which
// keeps the mapping monotonic but not strictly so.
func (c *Converter) PositionOf(t time.Time) float64 {
	return c.hoursFromOrigin(t) * c.geom.PixelsPerHour
}

// TimeAt maps a pixel position back to an instant. It is the inverse of
// [Converter.PositionOf] for positions on the visible timeline: without
// business hours the round trip is exact up to floating-point hour precision.
//
// With business hours the conversion walks the compressed timeline day by
// day. A position exactly on a day boundary belongs to the next day's window
// start: with window {9,17}, the position shared by day N 17:00 and day N+1
// 09:00 resolves to day N+1 09:00.
func (c *Converter) TimeAt(px float64) time.Time {
	hours := px / c.geom.PixelsPerHour
	if c.geom.Hours == nil {
		return c.origin.Add(durationOfHours(hours))
	}
	return c.windowTimeAt(hours)
}

// hoursFromOrigin returns the elapsed visible hours between the origin and t.
func (c *Converter) hoursFromOrigin(t time.Time) float64 {
	if c.geom.Hours == nil {
		return t.Sub(c.origin).Hours()
	}
	return windowHoursBetween(c.origin, t.In(c.loc), *c.geom.Hours, c.loc)
}

// windowHoursBetween counts the in-window civil hours between two instants.
// The count is signed: a `to` before `from` yields a negative result.
func windowHoursBetween(from, to time.Time, w HourWindow, loc *time.Location) float64 {
	days := civilDay(to, loc) - civilDay(from, loc)
	return float64(days)*w.Hours() + w.clamp(clockHours(to, loc)) - w.clamp(clockHours(from, loc))
}

// windowTimeAt inverts windowHoursBetween relative to the converter origin.
func (c *Converter) windowTimeAt(hours float64) time.Time {
	w := *c.geom.Hours

	// Total window hours from the origin day's window start. Floor splits
	// this into whole compressed days plus a remainder in [0,window), which
	// also handles positions before the origin.
	total := w.clamp(clockHours(c.origin, c.loc)) + hours
	days := int(math.Floor(total / w.Hours()))
	rem := total - float64(days)*w.Hours()

	y, m, d := c.origin.Date()
	clock := durationOfHours(float64(w.Start) + rem)
	return time.Date(y, m, d+days, 0, 0, 0, int(clock), c.loc)
}

// civilDay numbers the civil date of t in loc such that consecutive calendar
// days differ by exactly one, independent of DST transitions.
func civilDay(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix()
	return int(math.Floor(float64(noon) / 86400))
}

// clockHours returns t's clock time of day in loc as fractional hours.
func clockHours(t time.Time, loc *time.Location) float64 {
	t = t.In(loc)
	h, min, sec := t.Clock()
	return float64(h) + float64(min)/60 + float64(sec)/3600 + float64(t.Nanosecond())/float64(time.Hour)
}

// durationOfHours converts fractional hours to a Duration, rounded to the
// nearest nanosecond.
func durationOfHours(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
