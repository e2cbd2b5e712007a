// Package event defines the timed item that every timegrid component
// consumes: an identified, half-open [Start,End) interval with an open
// metadata map for display-only fields.
//
// The layout engine (pkg/timeline and friends) reads only ID, Start and End.
// Metadata rides along untouched so views can carry titles, calendar names
// and colors without the engine growing a calendaring data model.
package event

import (
	"cmp"
	"slices"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

// Well-known metadata keys. The engine never inspects these; renderers and
// the schedule composer do.
const (
	MetaTitle    = "title"
	MetaCalendar = "calendar"
	MetaColor    = "color"
	MetaLocation = "location"
	MetaStatus   = "status"
)

// Event is a single timed item on a timeline. The interval is half-open:
// an event occupying [Start,End) ends the instant End begins, so an event
// ending at 10:00 does not conflict with one starting at 10:00.
//
// Start and End carry their own locations; all interval math is done on
// absolute instants, while civil-day decisions (which column a box lands in,
// business-hour clamping) happen in the view's zone.
type Event struct {
	ID    string            `json:"id" bson:"_id"`
	Start time.Time         `json:"start" bson:"start"`
	End   time.Time         `json:"end" bson:"end"`
	Meta  map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
}

// New creates an event with the given required fields.
func New(id string, start, end time.Time) Event {
	return Event{ID: id, Start: start, End: end}
}

// Validate checks the event's required fields. It rejects empty or unsafe
// IDs, zero timestamps, and inverted intervals (End before Start).
// A zero-duration event (End == Start) is valid.
func (e Event) Validate() error {
	if err := errors.ValidateEventID(e.ID); err != nil {
		return err
	}
	if e.Start.IsZero() {
		return errors.New(errors.ErrCodeInvalidInterval, "event %s has no start time", e.ID)
	}
	if e.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidInterval, "event %s has no end time", e.ID)
	}
	if e.End.Before(e.Start) {
		return errors.New(errors.ErrCodeInvalidInterval,
			"event %s ends before it starts (%s < %s)",
			e.ID, e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

// Duration returns End − Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Clone returns a deep copy (the metadata map is copied, not shared).
func (e Event) Clone() Event {
	out := e
	if e.Meta != nil {
		out.Meta = make(map[string]string, len(e.Meta))
		for k, v := range e.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

// SetMeta sets a metadata key, allocating the map on first use.
func (e *Event) SetMeta(key, value string) {
	if e.Meta == nil {
		e.Meta = make(map[string]string)
	}
	e.Meta[key] = value
}

// Title returns the display title, falling back to the ID when unset.
func (e Event) Title() string {
	if t := e.Meta[MetaTitle]; t != "" {
		return t
	}
	return e.ID
}

// Calendar returns the calendar (grouping) name, if any.
func (e Event) Calendar() string { return e.Meta[MetaCalendar] }

// Color returns the display color, if any.
func (e Event) Color() string { return e.Meta[MetaColor] }

// Location returns the location field, if any.
func (e Event) Location() string { return e.Meta[MetaLocation] }

// Status returns the status field (e.g. "confirmed", "tentative"), if any.
func (e Event) Status() string { return e.Meta[MetaStatus] }

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals (a ends exactly when b starts) do not overlap.
func Overlaps(a, b Event) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Compare orders events by Start ascending, then End descending (longer
// first), then ID ascending. This is the one ordering used everywhere an
// event sequence must be deterministic, lane assignment included: two runs
// over the same input always see the same order.
func Compare(a, b Event) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := b.End.Compare(a.End); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortChronological sorts events in place using Compare.
func SortChronological(events []Event) {
	slices.SortFunc(events, Compare)
}

// ValidateAll validates every event and checks for duplicate IDs.
// The first problem found is returned.
func ValidateAll(events []Event) error {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate event id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
