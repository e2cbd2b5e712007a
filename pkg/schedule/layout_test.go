package schedule

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/event"
)

func TestLayoutRoundTrip(t *testing.T) {
	events := []event.Event{
		event.New("a", monday.Add(9*time.Hour), monday.Add(10*time.Hour)),
		event.New("b", monday.Add(9*time.Hour+30*time.Minute), monday.Add(11*time.Hour)),
	}
	l, err := Build(events, grid(60), Options{View: ViewDay, From: monday})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}

	if back.View != l.View || back.Zone != l.Zone {
		t.Errorf("header = %s/%s, want %s/%s", back.View, back.Zone, l.View, l.Zone)
	}
	if back.Width != l.Width || back.Height != l.Height {
		t.Errorf("frame = %vx%v, want %vx%v", back.Width, back.Height, l.Width, l.Height)
	}
	if len(back.Boxes) != len(l.Boxes) {
		t.Fatalf("len(Boxes) = %d, want %d", len(back.Boxes), len(l.Boxes))
	}
	for i, want := range l.Boxes {
		got := back.Boxes[i]
		if got.ID != want.ID || got.Lane != want.Lane || got.Lanes != want.Lanes {
			t.Errorf("box %d = %s lane %d/%d, want %s lane %d/%d",
				i, got.ID, got.Lane, got.Lanes, want.ID, want.Lane, want.Lanes)
		}
		if got.X != want.X || got.Y != want.Y || got.W != want.W || got.H != want.H {
			t.Errorf("box %d (%s) = (%v,%v %vx%v), want (%v,%v %vx%v)",
				i, got.ID, got.X, got.Y, got.W, got.H, want.X, want.Y, want.W, want.H)
		}
		if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
			t.Errorf("box %d (%s) interval = [%v, %v), want [%v, %v)",
				i, got.ID, got.Start, got.End, want.Start, want.End)
		}
	}
	if back.Geometry.PixelsPerHour != 60 {
		t.Errorf("Geometry.PixelsPerHour = %v, want 60", back.Geometry.PixelsPerHour)
	}
}

func TestUnmarshalLayoutRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown view", data: `{"view": "month"}`},
		{name: "vertical without columns", data: `{"view": "week", "boxes": []}`},
		{name: "malformed", data: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.data)); err == nil {
				t.Error("UnmarshalLayout() error = nil, want error")
			}
		})
	}
}

func TestUnmarshalLayoutTimelineWithoutBands(t *testing.T) {
	// An empty timeline is legal: no events means no bands.
	if _, err := UnmarshalLayout([]byte(`{"view": "timeline"}`)); err != nil {
		t.Errorf("UnmarshalLayout() error = %v", err)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l, err := Build(nil, grid(40), Options{View: ViewWeek, From: monday})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if back.View != ViewWeek || len(back.Columns) != 7 {
		t.Errorf("ReadLayoutFile() = %s with %d columns, want week with 7", back.View, len(back.Columns))
	}
}

func TestReadLayoutFileMissing(t *testing.T) {
	_, err := ReadLayoutFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ReadLayoutFile() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "absent.json") {
		t.Errorf("error %q does not name the file", err)
	}
}
