// Package schedule composes events into renderable layouts.
//
// This package defines the canonical layout format for timegrid's views,
// used for JSON files, API responses, caching, and as the input to every
// render sink.
//
// # Architecture
//
// The package sits between the engine and the renderers:
//
//   - pkg/event: validated timed items (input)
//   - pkg/timeline (+ lanes): position and lane math (used internally)
//   - [Layout], [Box]: positioned output (this package)
//   - pkg/render/...: sinks that draw a Layout
//
// [Build] is the single entry point; everything else is the serialization
// surface around its output.
//
// # Views
//
// Three views share one output format, discriminated by [Layout.View]:
//
//	schedule.ViewDay       // one day column
//	schedule.ViewWeek      // one column per day
//	schedule.ViewTimeline  // one horizontal band per calendar
//
// Vertical views place each civil day in its own column with its own
// converter, so an event crossing midnight is split into one clipped box
// per day. The timeline view runs a single converter across the whole
// range and stacks lanes vertically inside per-group bands.
//
// # Layout Serialization
//
// Layouts round-trip through JSON:
//
//	data, _ := schedule.MarshalLayout(l)        // Layout → []byte
//	l, _ := schedule.UnmarshalLayout(data)      // []byte → Layout
//	schedule.WriteLayoutFile(l, "layout.json")  // Layout → file
//	l, _ := schedule.ReadLayoutFile("layout.json")
//
// The same bytes serve as the pipeline's cache entry for the compose stage,
// and the structs carry bson tags so stored schedules keep their layouts
// queryable.
//
// # Concurrency
//
// Build is pure: it never mutates its inputs. Layouts are plain data and
// safe for concurrent reads.
package schedule
