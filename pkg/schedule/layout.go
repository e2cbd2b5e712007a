package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

// =============================================================================
// Layout - Composed View Format
// =============================================================================

// Layout is the serialization format for a composed view.
//
// Check View to determine which header fields are populated:
//
//	Vertical (ViewDay, ViewWeek):
//	  - Columns: one per civil day, left to right
//
//	Horizontal (ViewTimeline):
//	  - Bands: one per event group, top to bottom
//
// Shared fields (all views):
//   - Width, Height: frame dimensions in pixels
//   - Zone: IANA zone the view was composed in
//   - From: midnight opening the visible range, in that zone
//   - Geometry: the scale the positions were computed with
//   - Boxes: positioned events
//
// A Layout is plain data; renderers never need the engine to draw one.
type Layout struct {
	View View `json:"view" bson:"view"`

	Zone     string            `json:"zone" bson:"zone"`
	From     time.Time         `json:"from" bson:"from"`
	Width    float64           `json:"width" bson:"width"`
	Height   float64           `json:"height" bson:"height"`
	Geometry timeline.Geometry `json:"geometry" bson:"geometry"`

	Columns []Column `json:"columns,omitempty" bson:"columns,omitempty"`
	Bands   []Band   `json:"bands,omitempty" bson:"bands,omitempty"`

	Boxes []Box `json:"boxes,omitempty" bson:"boxes,omitempty"`
}

// IsVertical returns true for day and week layouts.
func (l *Layout) IsVertical() bool { return l.View == ViewDay || l.View == ViewWeek }

// Column is one civil day in a vertical layout.
type Column struct {
	Label string  `json:"label" bson:"label"` // e.g. "Mon 24"
	Date  string  `json:"date" bson:"date"`   // e.g. "2026-08-24"
	X     float64 `json:"x" bson:"x"`
	Width float64 `json:"width" bson:"width"`
}

// Band is one horizontal group row in a timeline layout.
type Band struct {
	Label  string  `json:"label" bson:"label"`
	Y      float64 `json:"y" bson:"y"`
	Height float64 `json:"height" bson:"height"`
}

// Box is a positioned event.
//
// Col is the column index in vertical layouts and the band index in
// timeline layouts. Start and End are the interval the box covers, which
// is the event's own interval unless Clipped is set, in which case the
// event continues beyond this box and the neighbouring column holds its
// continuation.
//
// Business-hour compression can produce zero-extent boxes (an event
// entirely outside the visible window); renderers decide whether to draw
// those as markers or skip them.
type Box struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`

	Col   int `json:"col" bson:"col"`
	Lane  int `json:"lane" bson:"lane"`
	Lanes int `json:"lanes" bson:"lanes"`

	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`

	Start   time.Time `json:"start" bson:"start"`
	End     time.Time `json:"end" bson:"end"`
	Clipped bool      `json:"clipped,omitempty" bson:"clipped,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the view type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if _, err := ParseView(string(l.View)); err != nil {
		return Layout{}, err
	}
	if l.IsVertical() && len(l.Columns) == 0 {
		return Layout{}, fmt.Errorf("%s layout must contain columns", l.View)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
