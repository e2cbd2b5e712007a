// Package io provides JSON import and export for event schedules.
//
// # Overview
//
// This package is the serialization boundary between timegrid and schedule
// files on disk. The format is designed for:
//
//   - Hand-written fixtures and exported calendars alike
//   - Integration with external tools that produce or consume event data
//   - Round-trip preservation: import, lay out, export, and re-import identically
//
// # JSON Format
//
// A schedule file is an object with a single "events" array:
//
//	{
//	  "events": [
//	    {"id": "standup", "start": "2026-08-24T09:00:00Z", "end": "2026-08-24T09:15:00Z", "title": "Standup"},
//	    {"start": "2026-08-24T10:00:00+02:00", "end": "2026-08-24T11:00:00+02:00", "calendar": "work"}
//	  ]
//	}
//
// # Event Fields
//
// Required:
//   - start, end: RFC 3339 timestamps; the offset (or Z) carries the zone
//
// Optional:
//   - id: Unique identifier. Events without one are assigned a UUID on import.
//   - title, calendar: Promoted to the corresponding metadata keys on import
//     and lifted back out on export, so hand-written files stay readable.
//   - meta: Freeform string map for everything else (color, location, status).
//
// # Import
//
// Use [ImportJSON] to read a schedule file, or [ReadJSON] to read from any
// io.Reader:
//
//	events, err := io.ImportJSON("week.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Import validates every event (inverted intervals, duplicate IDs, unsafe
// IDs) and rejects the whole file on the first problem, naming the offending
// event.
//
// # Export
//
// Use [ExportJSON] to write events to a file, or [WriteJSON] to write to any
// io.Writer. Title and calendar metadata are written as top-level fields,
// remaining metadata under "meta"; re-importing reproduces the same events.
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct inputs; imported
// slices are independent and can be modified freely.
//
// This package carries the logical events only. For computed box positions,
// serialize a [schedule.Layout] instead.
//
// [schedule.Layout]: github.com/Bravo-Actual/timegrid/pkg/schedule.Layout
package io
