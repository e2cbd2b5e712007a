package span_test

import (
	"fmt"
	"time"

	"github.com/Bravo-Actual/timegrid/pkg/timeline/span"
)

func ExampleMerge() {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	busy := []span.Span{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(9, 40), End: at(10, 0)},
	}

	for _, s := range span.Merge(busy, 15*time.Minute) {
		fmt.Printf("%s-%s\n", s.Start.Format("15:04"), s.End.Format("15:04"))
	}

	// Output:
	// 09:00-10:00
}
