package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/Bravo-Actual/timegrid/pkg/event"
)

// ReadJSON decodes a JSON schedule from r into a slice of events.
//
// The input must be a JSON object with an "events" array:
//
//	{
//	  "events": [
//	    {"id": "standup", "start": "2026-08-24T09:00:00Z", "end": "2026-08-24T09:15:00Z"}
//	  ]
//	}
//
// Each event must have "start" and "end" fields holding RFC 3339 timestamps.
// Optional fields:
//   - id: stable identifier (a random UUID is assigned when omitted)
//   - title: display title, stored under the "title" meta key
//   - calendar: source calendar name, stored under the "calendar" meta key
//   - meta: object with arbitrary string key-value pairs
//
// When both a shorthand field and the matching meta key are present, the
// meta key wins.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - An event is missing a start or end timestamp
//   - An event ends before it starts
//   - Two events share an ID
//
// Errors are wrapped with context describing which event caused the
// problem. Use errors.GetCode to check for specific validation errors.
//
// The returned slice is independent of r and can be modified safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]event.Event, error) {
	var data schedule
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	events := make([]event.Event, 0, len(data.Events))
	for _, rec := range data.Events {
		e := event.Event{ID: rec.ID, Start: rec.Start, End: rec.End}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if rec.Title != "" {
			e.SetMeta(event.MetaTitle, rec.Title)
		}
		if rec.Calendar != "" {
			e.SetMeta(event.MetaCalendar, rec.Calendar)
		}
		for k, v := range rec.Meta {
			e.SetMeta(k, v)
		}
		events = append(events, e)
	}

	if err := event.ValidateAll(events); err != nil {
		return nil, err
	}
	return events, nil
}

// ImportJSON reads a JSON file at path and returns the decoded events.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error describing the failure. The error wraps the underlying
// cause with the file path for context.
//
// ImportJSON returns the same validation errors as [ReadJSON] for malformed
// or inconsistent schedules.
func ImportJSON(path string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
