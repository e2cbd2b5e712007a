// Package lanes assigns overlapping events to side-by-side lanes, the way
// calendar views spread simultaneous meetings across a day column.
package lanes

import (
	"slices"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/event"
)

// Placement is one event's slot within its conflict cluster. Lane is the
// zero-based column offset; Lanes is the cluster's lane count, shared by
// every member so renderers can divide the column width uniformly.
type Placement struct {
	Lane  int `json:"lane"`
	Lanes int `json:"lanes"`
}

// Cluster is a maximal run of transitively overlapping events. Two events
// belong to the same cluster when a chain of pairwise overlaps connects them,
// even if they never touch each other directly.
type Cluster struct {
	// Events lists member IDs in placement order.
	Events []string `json:"events"`

	// Start and End bound the cluster: the earliest member start and the
	// latest member end.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Lanes is the number of lanes the cluster occupies.
	Lanes int `json:"lanes"`
}

// Assign computes a lane for every event and the lane count of its cluster.
//
// # Algorithm
//
// A single sweep in chronological order. Each event first evicts active
// occupants whose End is at or before its Start (half-open intervals:
// touching events never conflict), then takes the lowest lane index not held
// by a remaining occupant. A cluster closes when an event arrives to an empty
// active set; at close, every member's Lanes becomes one more than the
// highest lane used inside the cluster.
//
// Within a cluster, Lanes equals the maximum number of events that overlap
// at any single instant, so the layout never reserves more columns than the
// worst moment requires.
//
// # Determinism
//
// Events are processed in the order defined by [event.Compare]: Start
// ascending, End descending, ID ascending. The order is total, so two runs
// over the same input produce identical assignments regardless of input
// order.
//
// # Edge Cases
//
// Input is validated with [event.ValidateAll]: inverted intervals, empty or
// duplicate IDs are rejected with an INVALID_INTERVAL error. Zero-duration
// events are valid; they vacate before any later event, while one sharing its
// start with a longer event is placed beside it (the longer event sorts
// first and is still active). An empty input yields an empty map.
//
// # Performance
//
// O(n log n) for the sort plus O(n·k) for the sweep, where k is the widest
// concurrent overlap. Calendar data keeps k small.
func Assign(events []event.Event) (map[string]Placement, error) {
	placements, _, err := sweep(events)
	return placements, err
}

// Clusters returns the conflict clusters of the input, in chronological
// order. Validation and ordering match [Assign].
func Clusters(events []event.Event) ([]Cluster, error) {
	_, clusters, err := sweep(events)
	return clusters, err
}

type occupant struct {
	id   string
	end  time.Time
	lane int
}

func sweep(events []event.Event) (map[string]Placement, []Cluster, error) {
	if err := event.ValidateAll(events); err != nil {
		return nil, nil, err
	}

	sorted := slices.Clone(events)
	event.SortChronological(sorted)

	placements := make(map[string]Placement, len(sorted))
	var (
		clusters []Cluster
		active   []occupant
		current  Cluster
		maxLane  int
	)

	flush := func() {
		if len(current.Events) == 0 {
			return
		}
		current.Lanes = maxLane + 1
		for _, id := range current.Events {
			p := placements[id]
			p.Lanes = current.Lanes
			placements[id] = p
		}
		clusters = append(clusters, current)
		current = Cluster{}
		maxLane = 0
	}

	for _, e := range sorted {
		active = slices.DeleteFunc(active, func(o occupant) bool {
			return !o.end.After(e.Start)
		})

		if len(active) == 0 {
			flush()
			current.Start = e.Start
			current.End = e.End
		}

		lane := lowestFreeLane(active)
		active = append(active, occupant{id: e.ID, end: e.End, lane: lane})
		placements[e.ID] = Placement{Lane: lane}
		current.Events = append(current.Events, e.ID)
		if lane > maxLane {
			maxLane = lane
		}
		if e.End.After(current.End) {
			current.End = e.End
		}
	}
	flush()

	return placements, clusters, nil
}

func lowestFreeLane(active []occupant) int {
	used := make(map[int]bool, len(active))
	for _, o := range active {
		used[o.lane] = true
	}
	for lane := 0; ; lane++ {
		if !used[lane] {
			return lane
		}
	}
}
