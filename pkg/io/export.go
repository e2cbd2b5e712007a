package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/event"
)

type schedule struct {
	Events []record `json:"events"`
}

type record struct {
	ID       string            `json:"id,omitempty"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Title    string            `json:"title,omitempty"`
	Calendar string            `json:"calendar,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// WriteJSON encodes events as JSON and writes them to w.
// Title and calendar meta entries are lifted into the top-level shorthand
// fields; remaining meta keys stay under "meta". This format can be
// re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(events []event.Event, w io.Writer) error {
	out := schedule{Events: make([]record, len(events))}

	for i, e := range events {
		rec := record{ID: e.ID, Start: e.Start, End: e.End}
		rec.Title = e.Meta[event.MetaTitle]
		rec.Calendar = e.Meta[event.MetaCalendar]
		for k, v := range e.Meta {
			if k == event.MetaTitle || k == event.MetaCalendar {
				continue
			}
			if rec.Meta == nil {
				rec.Meta = make(map[string]string)
			}
			rec.Meta[k] = v
		}
		out.Events[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes events to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(events []event.Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(events, f)
}
