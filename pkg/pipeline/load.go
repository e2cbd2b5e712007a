package pipeline

import (
	"context"

	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/source"
)

// =============================================================================
// Event Loading
// =============================================================================

// Load reads events for the pipeline.
//
// Inline events are validated and returned as-is. A source ref is
// dispatched by format: .json files through the schedule reader, .ics
// files and http(s) URLs through the ICS reader. The cache and keyer back
// the feed cache for remote sources; local files are read directly.
func Load(ctx context.Context, c cache.Cache, keyer cache.Keyer, opts Options) ([]event.Event, error) {
	if opts.Source == "" {
		if err := event.ValidateAll(opts.Events); err != nil {
			return nil, err
		}
		return opts.Events, nil
	}

	return source.Load(ctx, opts.Source, source.Options{
		Zone:    opts.Zone,
		Refresh: opts.Refresh,
		Cache:   c,
		Keyer:   keyer,
		Logger:  opts.Logger,
	})
}
