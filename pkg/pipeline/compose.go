package pipeline

import (
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
)

// =============================================================================
// Layout Composition
// =============================================================================

// Compose positions events into a layout using the view and geometry
// described by the options.
//
// The input slice is never mutated; an invalid event, zone, view or
// geometry aborts the whole composition.
func Compose(events []event.Event, opts Options) (schedule.Layout, error) {
	return schedule.Build(events, opts.Geometry(), opts.ScheduleOptions())
}
