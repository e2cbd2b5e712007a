// Package render provides output rendering for composed calendar layouts.
//
// # Overview
//
// This package groups the renderers that turn a composed schedule layout
// into visual output:
//
//   - SVG calendar boards (in [svg] subpackage)
//   - Conflict graphs via Graphviz (in [conflict] subpackage)
//
// # Calendar Boards
//
// The [svg] subpackage renders day, week, and timeline layouts as
// self-contained SVG documents: hour grid, day headers, and one rounded box
// per event box in the layout. Options toggle the grid and headers and
// control palette, highlights, and scale.
//
//	out, err := svg.Render(layout, svg.WithGrid(), svg.WithHeaders())
//
// # Conflict Graphs
//
// The [conflict] subpackage renders overlap clusters as directed graphs.
// Events appear as boxes grouped per cluster, edges connect events that
// overlap in time, and Graphviz handles DOT layout and rasterization.
//
//	dot, err := conflict.ToDOT(clusters, events)
//	png, err := conflict.Render(ctx, dot, "png")
//
// [svg]: github.com/Bravo-Actual/timegrid/pkg/render/svg
// [conflict]: github.com/Bravo-Actual/timegrid/pkg/render/conflict
package render
