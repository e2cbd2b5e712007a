package span

import (
	"testing"
	"time"
)

var day = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func sp(startH, startM, endH, endM int) Span {
	return Span{Start: at(startH, startM), End: at(endH, endM)}
}

func spansEqual(a, b []Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			return false
		}
	}
	return true
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		gap   time.Duration
		want  []Span
	}{
		{
			name:  "gap within tolerance merges",
			spans: []Span{sp(9, 0, 9, 30), sp(9, 40, 10, 0)},
			gap:   15 * time.Minute,
			want:  []Span{sp(9, 0, 10, 0)},
		},
		{
			name:  "gap beyond tolerance stays split",
			spans: []Span{sp(9, 0, 9, 30), sp(9, 40, 10, 0)},
			gap:   5 * time.Minute,
			want:  []Span{sp(9, 0, 9, 30), sp(9, 40, 10, 0)},
		},
		{
			name:  "touching spans merge at zero gap",
			spans: []Span{sp(9, 0, 10, 0), sp(10, 0, 11, 0)},
			gap:   0,
			want:  []Span{sp(9, 0, 11, 0)},
		},
		{
			name:  "overlapping spans merge",
			spans: []Span{sp(9, 0, 10, 30), sp(10, 0, 11, 0)},
			gap:   0,
			want:  []Span{sp(9, 0, 11, 0)},
		},
		{
			name:  "contained span is absorbed",
			spans: []Span{sp(9, 0, 12, 0), sp(10, 0, 11, 0)},
			gap:   0,
			want:  []Span{sp(9, 0, 12, 0)},
		},
		{
			name:  "unsorted input",
			spans: []Span{sp(11, 0, 12, 0), sp(9, 0, 10, 0), sp(9, 45, 11, 15)},
			gap:   0,
			want:  []Span{sp(9, 0, 10, 0), sp(9, 45, 12, 0)},
		},
		{
			name:  "chain of mergeable gaps collapses",
			spans: []Span{sp(9, 0, 9, 20), sp(9, 30, 9, 50), sp(10, 0, 10, 20)},
			gap:   10 * time.Minute,
			want:  []Span{sp(9, 0, 10, 20)},
		},
		{
			name:  "inverted span dropped",
			spans: []Span{sp(10, 0, 9, 0), sp(9, 0, 9, 30)},
			gap:   0,
			want:  []Span{sp(9, 0, 9, 30)},
		},
		{
			name:  "empty input",
			spans: nil,
			gap:   15 * time.Minute,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.spans, tt.gap)
			if !spansEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeLeavesInputUntouched(t *testing.T) {
	spans := []Span{sp(11, 0, 12, 0), sp(9, 0, 10, 0)}
	Merge(spans, time.Hour)

	if !spans[0].Start.Equal(at(11, 0)) {
		t.Errorf("input reordered: spans[0].Start = %v, want 11:00", spans[0].Start)
	}
}

func TestMergeOutputSeparation(t *testing.T) {
	spans := []Span{sp(9, 0, 9, 30), sp(9, 40, 10, 0), sp(10, 30, 11, 0), sp(13, 0, 14, 0)}
	gap := 15 * time.Minute

	got := Merge(spans, gap)
	for i := 1; i < len(got); i++ {
		sep := got[i].Start.Sub(got[i-1].End)
		if sep <= gap {
			t.Errorf("spans %d and %d separated by %v, want > %v", i-1, i, sep, gap)
		}
	}
}

func TestMergeByDay(t *testing.T) {
	a := map[int][]Span{
		0: {sp(9, 0, 9, 30)},
		1: {sp(14, 0, 15, 0)},
	}
	b := map[int][]Span{
		0: {sp(9, 40, 10, 0)},
		2: {sp(8, 0, 8, 30)},
	}

	got := MergeByDay(a, b, 15*time.Minute)

	if len(got) != 3 {
		t.Fatalf("MergeByDay() has %d days, want 3", len(got))
	}
	if !spansEqual(got[0], []Span{sp(9, 0, 10, 0)}) {
		t.Errorf("day 0 = %v, want merged [09:00,10:00)", got[0])
	}
	if !spansEqual(got[1], []Span{sp(14, 0, 15, 0)}) {
		t.Errorf("day 1 = %v, want [14:00,15:00)", got[1])
	}
	if !spansEqual(got[2], []Span{sp(8, 0, 8, 30)}) {
		t.Errorf("day 2 = %v, want [08:00,08:30)", got[2])
	}

	// Inputs must survive the merge untouched.
	if len(a[0]) != 1 || len(b[0]) != 1 {
		t.Error("MergeByDay() modified an input map")
	}
}

func TestGaps(t *testing.T) {
	workday := sp(9, 0, 17, 0)

	t.Run("free windows between meetings", func(t *testing.T) {
		busy := []Span{sp(9, 30, 10, 0), sp(12, 0, 13, 0)}
		got := Gaps(busy, workday, 0)
		want := []Span{sp(9, 0, 9, 30), sp(10, 0, 12, 0), sp(13, 0, 17, 0)}
		if !spansEqual(got, want) {
			t.Errorf("Gaps() = %v, want %v", got, want)
		}
	})

	t.Run("busy outside the window is ignored", func(t *testing.T) {
		busy := []Span{sp(7, 0, 8, 0), sp(18, 0, 19, 0)}
		got := Gaps(busy, workday, 0)
		want := []Span{workday}
		if !spansEqual(got, want) {
			t.Errorf("Gaps() = %v, want %v", got, want)
		}
	})

	t.Run("busy straddling the edges clips", func(t *testing.T) {
		busy := []Span{sp(8, 0, 9, 30), sp(16, 30, 18, 0)}
		got := Gaps(busy, workday, 0)
		want := []Span{sp(9, 30, 16, 30)}
		if !spansEqual(got, want) {
			t.Errorf("Gaps() = %v, want %v", got, want)
		}
	})

	t.Run("fully booked", func(t *testing.T) {
		busy := []Span{sp(8, 0, 18, 0)}
		if got := Gaps(busy, workday, 0); got != nil {
			t.Errorf("Gaps() = %v, want nil", got)
		}
	})

	t.Run("tolerance swallows short breaks", func(t *testing.T) {
		busy := []Span{sp(9, 0, 12, 0), sp(12, 10, 17, 0)}
		if got := Gaps(busy, workday, 15*time.Minute); got != nil {
			t.Errorf("Gaps() = %v, want nil (10m break merged away)", got)
		}
	})
}

func TestSpanContains(t *testing.T) {
	s := sp(9, 0, 10, 0)

	if !s.Contains(at(9, 0)) {
		t.Error("Contains(start) = false, want true")
	}
	if !s.Contains(at(9, 59)) {
		t.Error("Contains(9:59) = false, want true")
	}
	if s.Contains(at(10, 0)) {
		t.Error("Contains(end) = true, want false (half-open)")
	}
}
