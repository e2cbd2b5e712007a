// Package svg renders composed layouts as standalone SVG documents.
//
// # Overview
//
// [Render] transforms a [schedule.Layout] into a self-contained SVG: every
// event becomes a rounded rectangle, colored by its metadata or a stable
// palette pick, with a native tooltip carrying the title and time range.
// Vertical layouts draw day columns, the timeline view draws horizontal
// group bands. The output needs no scripts and no external assets.
//
// Basic usage:
//
//	data, err := svg.Render(layout,
//	    svg.WithGrid(),
//	    svg.WithHeaders(),
//	)
//
// # Options
//
//   - [WithGrid]: hour lines and day separators behind the boxes
//   - [WithHeaders]: day header row plus the hour/band label gutter
//   - [WithHighlight]: outline specific events (conflict inspection)
//   - [WithPalette]: replace the default box colors
//   - [WithScale]: zoom factor applied to coordinates and fonts
//
// # Styling
//
// A small embedded stylesheet drives hover feedback and the highlight
// outline; everything else is plain attributes. Labels are truncated with
// an approximate per-glyph width table so text stays inside its box
// without real font metrics.
//
// [schedule.Layout]: github.com/Bravo-Actual/timegrid/pkg/schedule.Layout
package svg
