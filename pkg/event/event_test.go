package event

import (
	"testing"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", name, err)
	}
	return loc
}

func TestValidate(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		e := New("standup", day.Add(9*time.Hour), day.Add(10*time.Hour))
		if err := e.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("zero duration is valid", func(t *testing.T) {
		e := New("reminder", day.Add(9*time.Hour), day.Add(9*time.Hour))
		if err := e.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("inverted interval", func(t *testing.T) {
		e := New("broken", day.Add(10*time.Hour), day.Add(9*time.Hour))
		err := e.Validate()
		if !errors.Is(err, errors.ErrCodeInvalidInterval) {
			t.Errorf("Validate() = %v, want INVALID_INTERVAL", err)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		e := New("", day, day.Add(time.Hour))
		if err := e.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("zero start", func(t *testing.T) {
		e := Event{ID: "x", End: day}
		if err := e.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}

func TestOverlaps(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{"partial overlap", New("a", at(9, 0), at(10, 0)), New("b", at(9, 30), at(10, 30)), true},
		{"containment", New("a", at(9, 0), at(12, 0)), New("b", at(10, 0), at(11, 0)), true},
		{"identical", New("a", at(9, 0), at(10, 0)), New("b", at(9, 0), at(10, 0)), true},
		{"touching does not overlap", New("a", at(9, 0), at(10, 0)), New("b", at(10, 0), at(11, 0)), false},
		{"disjoint", New("a", at(9, 0), at(10, 0)), New("b", at(11, 0), at(12, 0)), false},
		{"zero duration overlaps nothing", New("a", at(9, 0), at(9, 0)), New("b", at(9, 0), at(10, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsAcrossZones(t *testing.T) {
	berlin := mustZone(t, "Europe/Berlin")
	ny := mustZone(t, "America/New_York")

	// 15:00 Berlin == 09:00 New York on this date (CEST vs EDT).
	a := New("eu", time.Date(2026, 8, 24, 15, 0, 0, 0, berlin), time.Date(2026, 8, 24, 16, 0, 0, 0, berlin))
	b := New("us", time.Date(2026, 8, 24, 9, 30, 0, 0, ny), time.Date(2026, 8, 24, 10, 30, 0, 0, ny))

	if !Overlaps(a, b) {
		t.Error("Overlaps() = false, want true for same-instant intervals in different zones")
	}
}

func TestSortChronological(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	events := []Event{
		New("short", at(9, 0), at(9, 30)),
		New("later", at(10, 0), at(11, 0)),
		New("long", at(9, 0), at(11, 0)),
		New("b-tie", at(9, 0), at(9, 30)),
	}
	SortChronological(events)

	// Same start: longer first, then ID breaks the exact tie.
	want := []string{"long", "b-tie", "short", "later"}
	for i, id := range want {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %q, want %q", i, events[i].ID, id)
		}
	}
}

func TestValidateAllRejectsDuplicates(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	events := []Event{
		New("a", day.Add(9*time.Hour), day.Add(10*time.Hour)),
		New("a", day.Add(11*time.Hour), day.Add(12*time.Hour)),
	}

	err := ValidateAll(events)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateAll() = %v, want INVALID_INPUT", err)
	}
}

func TestMetaAccessors(t *testing.T) {
	e := New("1on1", time.Now(), time.Now().Add(time.Hour))

	if e.Title() != "1on1" {
		t.Errorf("Title() = %q, want fallback to ID", e.Title())
	}

	e.SetMeta(MetaTitle, "Weekly 1:1")
	e.SetMeta(MetaCalendar, "work")

	if e.Title() != "Weekly 1:1" {
		t.Errorf("Title() = %q, want %q", e.Title(), "Weekly 1:1")
	}
	if e.Calendar() != "work" {
		t.Errorf("Calendar() = %q, want %q", e.Calendar(), "work")
	}
}

func TestCloneCopiesMeta(t *testing.T) {
	e := New("a", time.Now(), time.Now().Add(time.Hour))
	e.SetMeta(MetaColor, "#2563eb")

	c := e.Clone()
	c.SetMeta(MetaColor, "#dc2626")

	if e.Color() != "#2563eb" {
		t.Errorf("original Color() = %q, want unchanged #2563eb", e.Color())
	}
}
