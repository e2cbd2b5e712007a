// Package store persists named schedules behind a storage interface.
//
// A schedule is an ID'd, zoned list of events. The Store interface supports
// Get/Put/Delete/List with two implementations:
//   - file: One JSON file per schedule, for CLI usage
//   - mongo: MongoDB-backed storage for server deployments
//
// # Architecture
//
// Both backends share the same semantics:
//   - Get returns a typed SCHEDULE_NOT_FOUND error for missing IDs
//   - Put upserts (create or replace) and stamps UpdatedAt
//   - Delete is idempotent; removing a missing schedule is not an error
//   - List returns all schedules sorted by ID
//
// Schedule IDs double as filenames and MongoDB document IDs, so they are
// validated as safe path segments before touching either backend.
//
// # Usage
//
// Create a store:
//
//	// CLI
//	store, err := store.NewFileStore("")  // Uses ~/.config/timegrid/schedules/
//
//	// Server
//	store, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "timegrid", "schedules")
//
// Manage schedules:
//
//	sched := store.NewSchedule("team-oncall", "Team On-Call", "America/New_York", events)
//	if err := st.Put(ctx, sched); err != nil {
//	    return err
//	}
//
//	sched, err := st.Get(ctx, "team-oncall")
//	if errors.Is(err, errors.ErrCodeScheduleNotFound) {
//	    // No such schedule
//	}
package store

import (
	"context"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
)

// Schedule is a named, persisted list of events with a default display zone.
type Schedule struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name,omitempty" bson:"name,omitempty"`
	Zone      string        `json:"zone,omitempty" bson:"zone,omitempty"`
	Events    []event.Event `json:"events" bson:"events"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// NewSchedule creates a schedule with the given fields. Timestamps are left
// zero; Put stamps them on first write.
func NewSchedule(id, name, zone string, events []event.Event) *Schedule {
	return &Schedule{ID: id, Name: name, Zone: zone, Events: events}
}

// Validate checks the schedule's ID, zone and events.
func (s *Schedule) Validate() error {
	if err := errors.ValidateScheduleID(s.ID); err != nil {
		return err
	}
	if s.Zone != "" {
		if err := errors.ValidateZone(s.Zone); err != nil {
			return err
		}
	}
	return event.ValidateAll(s.Events)
}

// Store is the interface for schedule storage backends.
type Store interface {
	// Get retrieves a schedule by ID. Returns a SCHEDULE_NOT_FOUND error
	// when no schedule with that ID exists.
	Get(ctx context.Context, id string) (*Schedule, error)

	// Put stores a schedule, creating or replacing it. UpdatedAt is set to
	// the current time; CreatedAt is set on first write and preserved by
	// later ones.
	Put(ctx context.Context, sched *Schedule) error

	// Delete removes a schedule. Deleting a missing schedule is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns all schedules sorted by ID.
	List(ctx context.Context) ([]Schedule, error)

	// Close releases backend resources.
	Close() error
}

// notFound builds the typed error every backend returns for a missing ID.
func notFound(id string) error {
	return errors.New(errors.ErrCodeScheduleNotFound, "schedule %q not found", id)
}

// stamp sets the write timestamps on a schedule. prior is the stored
// CreatedAt when the schedule already exists, or zero for a first write.
func stamp(sched *Schedule, prior time.Time) {
	now := time.Now().UTC()
	if !prior.IsZero() {
		sched.CreatedAt = prior
	} else if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
}
