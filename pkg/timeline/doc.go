// Package timeline converts between instants and pixel positions on a
// calendar timeline.
//
// # Overview
//
// Calendar views are linear mappings from time onto screen space: an hour of
// wall-clock time occupies a fixed number of pixels, and everything else
// (event boxes, drag handles, grid lines) is derived from that mapping. This
// package provides the mapping itself plus grid snapping. Lane assignment for
// overlapping events lives in [lanes], busy-range merging in [span].
//
// # Basic Usage
//
// Describe the view with a [Geometry], then bind it to an origin instant and
// an IANA zone with [NewConverter]:
//
//	g := timeline.Geometry{PixelsPerHour: 240, SnapMinutes: 15}
//	conv, err := timeline.NewConverter(g, dayStart, loc)
//	y := conv.PositionOf(event.Start)
//	t := conv.TimeAt(mouseY)
//
// Geometry values are immutable; when view parameters change (the user zooms,
// toggles business hours, switches zones), build a new Converter rather than
// mutating an existing one. Converters are read-only after construction and
// safe for concurrent use.
//
// # Business Hours
//
// An optional [HourWindow] compresses the timeline to a daily window such as
// [9,18): hours outside the window occupy no space, and consecutive days
// become contiguous. With window {9,17}, day N at 17:00 and day N+1 at 09:00
// map to the same position, so a span crossing the hidden overnight hours
// renders without a gap.
//
// Business hours are civil-calendar concepts: day boundaries and clock hours
// are resolved in the converter's zone, so two views in different zones
// disagree exactly as their wall clocks do.
//
// # Snapping
//
// [Converter.SnapPixel] and [Converter.SnapTime] round to the snap grid
// (SnapMinutes wide) using round-half-away-from-zero. Snapping is idempotent:
// snapping an already-snapped value returns it unchanged.
package timeline
