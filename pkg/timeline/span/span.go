// Package span merges busy time ranges, collapsing small gaps the way
// multi-day drag selections and free/busy views coalesce adjacent slots.
package span

import (
	"slices"
	"time"
)

// Span is a half-open time range [Start,End).
type Span struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Duration returns End − Start.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Contains reports whether t lies inside the half-open range.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Merge coalesces spans whose gap is at most `gap` apart. Two spans merge
// when the later one starts no more than `gap` after the earlier one ends;
// a zero gap merges only overlapping or touching spans.
//
// The result is sorted by start, pairwise separated by more than `gap`, and
// covers exactly the union of the input (plus the swallowed gaps). The input
// slice is left unmodified; spans may arrive in any order. Inverted spans
// (End before Start) are treated as empty and dropped.
func Merge(spans []Span, gap time.Duration) []Span {
	clean := make([]Span, 0, len(spans))
	for _, s := range spans {
		if !s.End.Before(s.Start) {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return nil
	}

	slices.SortFunc(clean, func(a, b Span) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})

	merged := []Span{clean[0]}
	for _, s := range clean[1:] {
		last := &merged[len(merged)-1]
		if !s.Start.After(last.End.Add(gap)) {
			if s.End.After(last.End) {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// MergeByDay merges two day-indexed span maps key-wise: every day present in
// either map appears in the result with the union of both days' spans merged
// via [Merge]. Neither input map is modified.
//
// Day keys are whatever indexing the caller uses (civil day numbers, column
// offsets); the merge never interprets them, so spans filed under different
// keys stay separate even when they would merge on a single timeline.
func MergeByDay(a, b map[int][]Span, gap time.Duration) map[int][]Span {
	out := make(map[int][]Span, len(a)+len(b))
	for day, spans := range a {
		out[day] = Merge(append(slices.Clone(spans), b[day]...), gap)
	}
	for day, spans := range b {
		if _, done := out[day]; done {
			continue
		}
		out[day] = Merge(spans, gap)
	}
	return out
}

// Gaps returns the free windows inside `within` once the busy spans are
// merged with the given gap tolerance. Busy time outside `within` is
// ignored; free stretches shorter than or equal to `gap` have already been
// swallowed by the merge.
func Gaps(busy []Span, within Span, gap time.Duration) []Span {
	if !within.End.After(within.Start) {
		return nil
	}

	var free []Span
	cursor := within.Start
	for _, s := range Merge(busy, gap) {
		if !s.End.After(within.Start) || !s.Start.Before(within.End) {
			continue
		}
		if s.Start.After(cursor) {
			free = append(free, Span{Start: cursor, End: s.Start})
		}
		if s.End.After(cursor) {
			cursor = s.End
		}
	}
	if cursor.Before(within.End) {
		free = append(free, Span{Start: cursor, End: within.End})
	}
	return free
}
