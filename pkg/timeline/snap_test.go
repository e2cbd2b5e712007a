package timeline

import (
	"testing"
	"time"
)

func TestSnapPixel(t *testing.T) {
	origin := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	c := mustConverter(t, Geometry{PixelsPerHour: 240, SnapMinutes: 15}, origin, nil)

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"on grid", 120, 120},
		{"zero", 0, 0},
		{"rounds down", 29, 0},
		{"half rounds away from zero", 30, 60},
		{"rounds up", 40, 60},
		{"negative rounds down", -29, 0},
		{"negative half rounds away from zero", -30, -60},
		{"negative rounds up", -40, -60},
		{"large", 241, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SnapPixel(tt.x); got != tt.want {
				t.Errorf("SnapPixel(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	origin := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	c := mustConverter(t, Geometry{PixelsPerHour: 240, SnapMinutes: 15}, origin, nil)

	for _, x := range []float64{0, 1, 29.5, 30, 59.99, 60, 61, 999, -999, 123456.78} {
		once := c.SnapPixel(x)
		twice := c.SnapPixel(once)
		if once != twice {
			t.Errorf("SnapPixel(SnapPixel(%v)) = %v, want %v", x, twice, once)
		}
	}
}

func TestSnapTime(t *testing.T) {
	origin := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	c := mustConverter(t, Geometry{PixelsPerHour: 240, SnapMinutes: 15}, origin, nil)
	at := func(h, m int) time.Time { return origin.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{"on grid", at(9, 0), at(9, 0)},
		{"rounds down", at(9, 7), at(9, 0)},
		{"rounds up", at(9, 8), at(9, 15)},
		{"half rounds away", origin.Add(9*time.Hour + 7*time.Minute + 30*time.Second), at(9, 15)},
		{"before origin", at(0, -7), at(0, 0)},
		{"before origin rounds away", at(0, -8), at(0, -15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SnapTime(tt.t); !got.Equal(tt.want) {
				t.Errorf("SnapTime(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestSnapDomainsAgree(t *testing.T) {
	origin := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	c := mustConverter(t, Geometry{PixelsPerHour: 240, SnapMinutes: 15}, origin, nil)

	for _, off := range []time.Duration{
		0,
		7 * time.Minute,
		8 * time.Minute,
		3*time.Hour + 22*time.Minute,
		-47 * time.Minute,
	} {
		at := origin.Add(off)
		viaTime := c.PositionOf(c.SnapTime(at))
		viaPixel := c.SnapPixel(c.PositionOf(at))
		if viaTime != viaPixel {
			t.Errorf("PositionOf(SnapTime(%v)) = %v, SnapPixel(PositionOf) = %v, want equal", at, viaTime, viaPixel)
		}
	}
}
