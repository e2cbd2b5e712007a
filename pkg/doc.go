// Package pkg provides the core libraries for Timegrid calendar layout.
//
// # Overview
//
// Timegrid turns calendar events into deterministic pixel geometry: day and
// week boards, horizontal timelines, free/busy windows, and conflict graphs.
// The pkg directory is organized into five main areas:
//
//  1. [event] - Domain model (events, metadata, validation)
//  2. [timeline] - Timeline mathematics (time↔pixel conversion, spans, lanes)
//  3. [schedule] - Layout composition (day, week, timeline views)
//  4. [render] - Output formats (SVG boards, Graphviz conflict graphs)
//  5. [pipeline] - Orchestration (load → compose → render)
//
// # Architecture
//
// The typical data flow through Timegrid:
//
//	Calendar feed (.ics / .json / URL)
//	         ↓
//	    [source] package (fetch + parse events)
//	         ↓
//	    [schedule] package (timeline math + lane packing)
//	         ↓
//	    [render] package (grid, boxes, conflict graphs)
//	         ↓
//	    SVG/JSON/DOT/PNG output
//
// # Quick Start
//
// Load a calendar and render a week board:
//
//	import (
//	    "context"
//	    "os"
//	    "time"
//
//	    "github.com/Bravo-Actual/timegrid/pkg/render/svg"
//	    "github.com/Bravo-Actual/timegrid/pkg/schedule"
//	    "github.com/Bravo-Actual/timegrid/pkg/source"
//	    "github.com/Bravo-Actual/timegrid/pkg/timeline"
//	)
//
//	// 1. Load events
//	events, _ := source.Load(context.Background(), "team.ics", source.Options{})
//
//	// 2. Describe the geometry
//	geom := timeline.Geometry{
//	    PixelsPerHour: 60,
//	    SnapMinutes:   15,
//	    Hours:         &timeline.HourWindow{Start: 9, End: 18},
//	}
//
//	// 3. Compose the layout
//	l, _ := schedule.Build(events, geom, schedule.Options{
//	    View: schedule.ViewWeek,
//	    From: time.Now(),
//	    Zone: "Europe/Berlin",
//	})
//
//	// 4. Render to SVG
//	out, _ := svg.Render(l, svg.WithGrid(), svg.WithHeaders())
//	os.WriteFile("week.svg", out, 0o644)
//
// # Main Packages
//
// ## Domain Model
//
// [event] - Calendar events as an ID plus a half-open [Start, End) interval
// and free-form string metadata (title, calendar, location, status). Overlap
// tests, chronological sorting, and validation live here.
//
// ## Timeline Mathematics
//
// [timeline] - Deterministic time↔pixel conversion. A Geometry fixes pixels
// per hour, the snap grid, and an optional business-hours window; a Converter
// anchored at an origin maps instants to pixel offsets and back, skipping
// hidden hours and staying stable across DST transitions.
//
// [timeline/span] - Half-open time intervals. Merging with gap tolerance,
// free-window (gap) computation, and duration arithmetic.
//
// [timeline/lanes] - Column assignment for overlapping events: greedy
// first-fit packing that is deterministic for equal inputs, plus conflict
// cluster extraction.
//
// ## Composition
//
// [schedule] - Composes events and a geometry into a Layout: positioned
// boxes plus the grid metadata renderers need. Three views: day and week
// (vertical day columns) and timeline (horizontal bands grouped by a
// metadata key).
//
// ## Rendering
//
// [render/svg] - Self-contained SVG boards for composed layouts: hour grid,
// day headers, palette-colored event boxes, and optional highlights.
//
// [render/conflict] - Conflict graphs for overlapping events. Builds DOT
// from lane clusters and rasterizes SVG/PNG through Graphviz.
//
// ## Input and Output
//
// [source] - Loads events from a local .json or .ics file or an http(s) ICS
// feed. Remote feeds go through the artifact cache.
//
// [source/ics] - ICS parsing: VEVENT mapping, TZID and floating times,
// all-day dates, and recurrence expansion.
//
// [io] - JSON import/export of event lists in the schedule interchange
// format.
//
// ## Orchestration
//
// [pipeline] - The complete load → compose → render pipeline used by CLI and
// server. Each stage is cached under an input-derived key, so only stages
// whose inputs changed recompute. Ensures consistent behavior across all
// entry points.
//
// ## Persistence
//
// [cache] - Content-addressed artifact cache with file, Redis, and null
// backends, scoped namespaces, and per-entry TTLs.
//
// [store] - Named schedule persistence for the HTTP server. File and MongoDB
// backends behind one interface.
//
// ## Support
//
// [errors] - Coded errors: stable machine-readable codes attached via New
// and Wrap, matched with errors.Is.
//
// [httputil] - Retry with exponential backoff for transient fetch
// failures.
//
// [observability] - Pipeline hooks for stage timing and structured progress
// logs.
//
// [buildinfo] - Version and commit metadata stamped at link time.
//
// # Common Workflows
//
// Convert between times and pixels:
//
//	conv, _ := timeline.NewConverter(geom, origin, loc)
//	x := conv.PositionOf(meeting.Start)
//	t := conv.TimeAt(420)
//	snapped := conv.SnapTime(t)
//
// Find free windows in a day:
//
//	day := span.Span{Start: morning, End: evening}
//	free := span.Gaps(busy, day, 15*time.Minute)
//
// Assign overlapping events to lanes:
//
//	placements, _ := lanes.Assign(events)
//	clusters, _ := lanes.Clusters(events)
//
// Run the cached pipeline end to end:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Source: "team.ics", View: "week"})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/timeline/...      # Specific package
//	go test -run Example            # Examples only
//
// [event]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/event
// [timeline]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/timeline
// [timeline/span]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/timeline/span
// [timeline/lanes]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/timeline/lanes
// [schedule]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/schedule
// [render]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/render/svg
// [render/conflict]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/render/conflict
// [source]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/source
// [source/ics]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/source/ics
// [io]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/store
// [errors]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/Bravo-Actual/timegrid/pkg/buildinfo
package pkg
